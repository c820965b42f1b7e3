package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/repository"
)

type projectService struct {
	dbtx  db.DBTX
	uow   db.UnitOfWork
	locks *ProjectLocks
	obs   UseCaseObserver
}

func NewProjectService(dbtx db.DBTX, uow db.UnitOfWork, locks *ProjectLocks, observers ...UseCaseObserver) ProjectService {
	return &projectService{dbtx: dbtx, uow: uow, locks: locks, obs: useCaseObserverOrNoop(observers)}
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return repository.NewSQLiteProjectRepo(s.dbtx).List(ctx)
}

func (s *projectService) Create(ctx context.Context, name string, start *time.Time) (*domain.Project, error) {
	if name == "" {
		var errs domain.ValidationErrors
		return nil, errs.Violation("", "name", "project name is required")
	}

	now := nowUTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: start,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteProjectRepo(tx)
			if err := repo.Create(ctx, p); err != nil {
				return err
			}
			// The first project in the store becomes active.
			_, err := repo.GetActive(ctx)
			if domain.IsNotFound(err) {
				p.IsActive = true
				return repo.SetActive(ctx, p.ID)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Switch(ctx context.Context, id string) error {
	release := s.locks.LockStore()
	defer release()

	return withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteProjectRepo(tx)
			if _, err := repo.GetByID(ctx, id); err != nil {
				return err
			}
			return repo.SetActive(ctx, id)
		})
	})
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	release := s.locks.LockStore()
	defer release()

	return withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteProjectRepo(tx)
			p, err := repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			// Tasks and links go with the project via FK cascade.
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
			if !p.IsActive {
				return nil
			}
			fallback, err := repo.MostRecentlyUpdated(ctx)
			if err != nil {
				return err
			}
			if fallback == nil {
				return nil
			}
			return repo.SetActive(ctx, fallback.ID)
		})
	})
}

func (s *projectService) GetMetadata(ctx context.Context) (*contract.Metadata, error) {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	count, err := repository.NewSQLiteTaskRepo(s.dbtx).CountByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &contract.Metadata{
		ProjectID:  p.ID,
		Name:       p.Name,
		StartDate:  p.StartDate,
		StatusDate: p.StatusDate,
		TaskCount:  count,
	}, nil
}

func (s *projectService) UpdateMetadata(ctx context.Context, upd contract.MetadataUpdate) error {
	if upd.Name != nil && *upd.Name == "" {
		var errs domain.ValidationErrors
		return errs.Violation("", "name", "project name is required")
	}

	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return err
	}
	release := s.locks.LockProject(p.ID)
	defer release()

	return withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteProjectRepo(tx)
			cur, err := repo.GetByID(ctx, p.ID)
			if err != nil {
				return err
			}
			if upd.Name != nil {
				cur.Name = *upd.Name
			}
			if upd.StartDate != nil {
				cur.StartDate = upd.StartDate
			}
			if upd.StatusDate != nil {
				cur.StatusDate = upd.StatusDate
			}
			cur.UpdatedAt = nowUTC()
			return repo.Update(ctx, cur)
		})
	})
}
