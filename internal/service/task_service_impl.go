package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/repository"
	"github.com/alexanderramin/chronos/internal/validate"
)

type taskService struct {
	dbtx  db.DBTX
	uow   db.UnitOfWork
	locks *ProjectLocks
	obs   UseCaseObserver
}

func NewTaskService(dbtx db.DBTX, uow db.UnitOfWork, locks *ProjectLocks, observers ...UseCaseObserver) TaskService {
	return &taskService{dbtx: dbtx, uow: uow, locks: locks, obs: useCaseObserverOrNoop(observers)}
}

func (s *taskService) List(ctx context.Context) ([]*domain.Task, error) {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	return loadSnapshot(ctx, s.dbtx, p.ID)
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	t, err := repository.NewSQLiteTaskRepo(s.dbtx).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.ProjectID != p.ID {
		return nil, domain.NotFoundErr("task %s not in active project", id)
	}
	links, err := repository.NewSQLitePredecessorRepo(s.dbtx).ListByTask(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Predecessors = links
	return t, nil
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	release := s.locks.LockProject(p.ID)
	defer release()

	now := nowUTC()
	t.ID = uuid.New().String()
	t.ProjectID = p.ID
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.OutlineLevel == 0 {
		t.OutlineLevel = domain.OutlineDepth(t.OutlineNumber)
	}

	if errs := validate.Task(t); len(errs) > 0 {
		return nil, errs
	}

	err = withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			tasks := repository.NewSQLiteTaskRepo(tx)
			links := repository.NewSQLitePredecessorRepo(tx)

			snapshot, err := loadSnapshot(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			if t.UID == "" {
				t.UID = nextUID(snapshot)
			}

			if err := tasks.Create(ctx, t); err != nil {
				return err
			}
			for i := range t.Predecessors {
				t.Predecessors[i].TaskID = t.ID
				t.Predecessors[i].ProjectID = p.ID
				if err := links.Create(ctx, &t.Predecessors[i]); err != nil {
					return err
				}
			}

			// Re-validate the whole project so duplicates, dangling
			// back-references, and new cycles roll the insert back.
			if errs := validate.Project(append(snapshot, t)); len(errs) > 0 {
				return errs
			}

			return repository.NewSQLiteProjectRepo(tx).Touch(ctx, p.ID, now)
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	release := s.locks.LockProject(p.ID)
	defer release()

	now := nowUTC()

	err = withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			tasks := repository.NewSQLiteTaskRepo(tx)
			links := repository.NewSQLitePredecessorRepo(tx)

			existing, err := tasks.GetByID(ctx, t.ID)
			if err != nil {
				return err
			}
			if existing.ProjectID != p.ID {
				return domain.NotFoundErr("task %s not in active project", t.ID)
			}

			t.ProjectID = p.ID
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = now
			if t.UID == "" {
				t.UID = existing.UID
			}
			if t.OutlineLevel == 0 {
				t.OutlineLevel = domain.OutlineDepth(t.OutlineNumber)
			}

			if errs := validate.Task(t); len(errs) > 0 {
				return errs
			}

			// An outline move repoints every back-reference in the project.
			if t.OutlineNumber != existing.OutlineNumber {
				if err := links.RewriteOutlineRef(ctx, p.ID, existing.OutlineNumber, t.OutlineNumber); err != nil {
					return err
				}
			}

			if err := tasks.Update(ctx, t); err != nil {
				return err
			}

			// The incoming link set replaces the stored one wholesale.
			if err := links.DeleteByTask(ctx, t.ID); err != nil {
				return err
			}
			for i := range t.Predecessors {
				t.Predecessors[i].TaskID = t.ID
				t.Predecessors[i].ProjectID = p.ID
				if err := links.Create(ctx, &t.Predecessors[i]); err != nil {
					return err
				}
			}

			snapshot, err := loadSnapshot(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			if errs := validate.Project(snapshot); len(errs) > 0 {
				return errs
			}

			return repository.NewSQLiteProjectRepo(tx).Touch(ctx, p.ID, now)
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return err
	}
	release := s.locks.LockProject(p.ID)
	defer release()

	now := nowUTC()

	return withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			tasks := repository.NewSQLiteTaskRepo(tx)
			links := repository.NewSQLitePredecessorRepo(tx)

			target, err := tasks.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if target.ProjectID != p.ID {
				return domain.NotFoundErr("task %s not in active project", id)
			}

			snapshot, err := loadSnapshot(ctx, tx, p.ID)
			if err != nil {
				return err
			}

			// The target's subtree goes with it; an orphaned outline under a
			// removed parent would never validate.
			removed := []*domain.Task{target}
			for _, t := range snapshot {
				if domain.IsOutlineDescendant(t.OutlineNumber, target.OutlineNumber) {
					removed = append(removed, t)
				}
			}
			for _, t := range removed {
				// Owned links cascade with the task row.
				if err := tasks.Delete(ctx, t.ID); err != nil {
					return err
				}
				if err := links.DeleteByOutlineRef(ctx, p.ID, t.OutlineNumber); err != nil {
					return err
				}
			}

			// Later siblings (and their subtrees) slide down to close the
			// gap, with back-references following each move. Snapshot order
			// is ascending, so 1.3 lands on the just-vacated 1.2 before 1.4
			// moves.
			depth := domain.OutlineDepth(target.OutlineNumber)
			for _, t := range snapshot {
				if t.ID == target.ID || domain.IsOutlineDescendant(t.OutlineNumber, target.OutlineNumber) {
					continue
				}
				if !outlineAfterSibling(t.OutlineNumber, target.OutlineNumber) {
					continue
				}
				moved := shiftOutlineDown(t.OutlineNumber, depth)
				if err := tasks.UpdateOutline(ctx, t.ID, moved, t.OutlineLevel); err != nil {
					return err
				}
				if err := links.RewriteOutlineRef(ctx, p.ID, t.OutlineNumber, moved); err != nil {
					return err
				}
			}

			return repository.NewSQLiteProjectRepo(tx).Touch(ctx, p.ID, now)
		})
	})
}

// nextUID returns one past the highest numeric UID in the snapshot. Non-numeric
// UIDs are ignored.
func nextUID(tasks []*domain.Task) string {
	max := 0
	for _, t := range tasks {
		if n, err := strconv.Atoi(t.UID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// outlineAfterSibling reports whether outline is a later sibling of deleted,
// or sits inside one: same parent prefix, with a greater segment at the
// deleted outline's depth.
func outlineAfterSibling(outline, deleted string) bool {
	ds := domain.OutlineSegments(deleted)
	os := domain.OutlineSegments(outline)
	if len(os) < len(ds) {
		return false
	}
	for i := 0; i < len(ds)-1; i++ {
		if os[i] != ds[i] {
			return false
		}
	}
	return os[len(ds)-1] > ds[len(ds)-1]
}

// shiftOutlineDown decrements the segment at the given 1-based depth.
func shiftOutlineDown(outline string, depth int) string {
	segs := domain.OutlineSegments(outline)
	segs[depth-1]--
	parts := make([]string, len(segs))
	for i, n := range segs {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
