package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/repository"
)

// storeRetries bounds the retry loop for transient SQLite contention.
const storeRetries = 3

// withRetry re-runs fn when the store reports transient lock contention.
// Anything else propagates immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < storeRetries; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return domain.CancelledErr(ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
	return domain.ConflictErr("store busy after %d attempts: %v", storeRetries, err)
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// activeProject resolves the active project, re-read from the store on every
// call; the engine never caches it across calls.
func activeProject(ctx context.Context, projects repository.ProjectRepo) (*domain.Project, error) {
	p, err := projects.GetActive(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NotFoundErr("no active project")
		}
		return nil, err
	}
	return p, nil
}

// loadSnapshot reads a project's tasks with their links attached, through
// the given DBTX so callers can snapshot inside a transaction.
func loadSnapshot(ctx context.Context, dbtx db.DBTX, projectID string) ([]*domain.Task, error) {
	tasks, err := repository.NewSQLiteTaskRepo(dbtx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	links, err := repository.NewSQLitePredecessorRepo(dbtx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byTask := make(map[string][]domain.PredecessorLink, len(tasks))
	for _, l := range links {
		byTask[l.TaskID] = append(byTask[l.TaskID], l)
	}
	for _, t := range tasks {
		t.Predecessors = byTask[t.ID]
	}
	return tasks, nil
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
