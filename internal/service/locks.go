package service

import "sync"

// ProjectLocks serializes writes per project while letting writes to
// different projects run in parallel. Switching the active project toggles
// two rows, so it takes the store-wide lock instead; per-project writers
// hold the store lock shared.
type ProjectLocks struct {
	store sync.RWMutex

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProjectLocks creates an empty lock table.
func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{locks: make(map[string]*sync.Mutex)}
}

// LockProject acquires the write lock for one project (shared on the store
// lock). The returned func releases both.
func (p *ProjectLocks) LockProject(projectID string) func() {
	p.store.RLock()
	p.mu.Lock()
	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	p.mu.Unlock()
	l.Lock()
	return func() {
		l.Unlock()
		p.store.RUnlock()
	}
}

// LockStore acquires the store-wide exclusive lock, blocking all per-project
// writers. Used by active-project switches and deletes.
func (p *ProjectLocks) LockStore() func() {
	p.store.Lock()
	return p.store.Unlock
}
