package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/msxml"
	"github.com/alexanderramin/chronos/internal/repository"
	"github.com/alexanderramin/chronos/internal/validate"
)

type exchangeService struct {
	dbtx  db.DBTX
	uow   db.UnitOfWork
	locks *ProjectLocks
	obs   UseCaseObserver
}

func NewExchangeService(dbtx db.DBTX, uow db.UnitOfWork, locks *ProjectLocks, observers ...UseCaseObserver) ExchangeService {
	return &exchangeService{dbtx: dbtx, uow: uow, locks: locks, obs: useCaseObserverOrNoop(observers)}
}

func (s *exchangeService) Ingest(ctx context.Context, data []byte) (result *contract.IngestResult, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{"bytes": len(data)}
		if result != nil {
			fields["tasks"] = result.TaskCount
			fields["links"] = result.LinkCount
		}
		emit(ctx, s.obs, "ingest_xml", start, err, fields)
	}()

	doc, err := msxml.Decode(data)
	if err != nil {
		return nil, err
	}
	if errs := validate.Project(doc.Tasks); len(errs) > 0 {
		return nil, errs
	}

	now := nowUTC()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        doc.Name,
		StartDate:   doc.StartDate,
		StatusDate:  doc.StatusDate,
		XMLTemplate: doc.Template,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Name == "" {
		p.Name = p.DisplayID()
	}

	// Ingest births a project and repoints the active flag, so it holds the
	// store lock like a switch does.
	release := s.locks.LockStore()
	defer release()

	linkCount := 0
	err = withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			linkCount = 0
			projects := repository.NewSQLiteProjectRepo(tx)
			tasks := repository.NewSQLiteTaskRepo(tx)
			links := repository.NewSQLitePredecessorRepo(tx)

			if err := projects.Create(ctx, p); err != nil {
				return err
			}
			for _, t := range doc.Tasks {
				if err := ctx.Err(); err != nil {
					return domain.CancelledErr(err)
				}
				t.ID = uuid.New().String()
				t.ProjectID = p.ID
				t.CreatedAt = now
				t.UpdatedAt = now
				if err := tasks.Create(ctx, t); err != nil {
					return err
				}
				for i := range t.Predecessors {
					t.Predecessors[i].TaskID = t.ID
					t.Predecessors[i].ProjectID = p.ID
					if err := links.Create(ctx, &t.Predecessors[i]); err != nil {
						return err
					}
					linkCount++
				}
			}
			p.IsActive = true
			return projects.SetActive(ctx, p.ID)
		})
	})
	if err != nil {
		return nil, err
	}

	return &contract.IngestResult{
		Project:   p,
		TaskCount: len(doc.Tasks),
		LinkCount: linkCount,
	}, nil
}

func (s *exchangeService) Export(ctx context.Context) (out []byte, err error) {
	start := time.Now()
	defer func() {
		emit(ctx, s.obs, "export_xml", start, err, map[string]any{"bytes": len(out)})
	}()

	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	tasks, err := loadSnapshot(ctx, s.dbtx, p.ID)
	if err != nil {
		return nil, err
	}
	return msxml.Render(p, tasks)
}
