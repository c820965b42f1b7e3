package service

import (
	"context"
	"time"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/cpm"
	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/optimizer"
	"github.com/alexanderramin/chronos/internal/repository"
	"github.com/alexanderramin/chronos/internal/validate"
)

type optimizeService struct {
	dbtx  db.DBTX
	uow   db.UnitOfWork
	locks *ProjectLocks
	cfg   optimizer.Config
	obs   UseCaseObserver
}

func NewOptimizeService(dbtx db.DBTX, uow db.UnitOfWork, locks *ProjectLocks, cfg optimizer.Config, observers ...UseCaseObserver) OptimizeService {
	return &optimizeService{dbtx: dbtx, uow: uow, locks: locks, cfg: cfg, obs: useCaseObserverOrNoop(observers)}
}

func (s *optimizeService) Propose(ctx context.Context, targetDays float64) (proposal *contract.OptimizeProposal, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{"target_days": targetDays}
		if proposal != nil {
			fields["strategies"] = len(proposal.Strategies)
			fields["achievable"] = proposal.Achievable
		}
		emit(ctx, s.obs, "optimize_propose", start, err, fields)
	}()

	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	tasks, err := loadSnapshot(ctx, s.dbtx, p.ID)
	if err != nil {
		return nil, err
	}
	if errs := validate.Project(tasks); len(errs) > 0 {
		return nil, errs
	}
	result, err := cpm.Compute(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return optimizer.Propose(s.cfg, tasks, result, targetDays)
}

func (s *optimizeService) Apply(ctx context.Context, strategyID string, changes []contract.Change) (result *contract.ApplyResult, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{"strategy": strategyID, "changes": len(changes)}
		emit(ctx, s.obs, "optimize_apply", start, err, fields)
	}()

	if strategyID != optimizer.StrategyLagReduction && strategyID != optimizer.StrategyTaskCompression {
		return nil, domain.NotFoundErr("unknown strategy %q", strategyID)
	}

	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	release := s.locks.LockProject(p.ID)
	defer release()

	now := nowUTC()
	applied := 0
	err = withRetry(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			applied = 0
			tasks := repository.NewSQLiteTaskRepo(tx)
			links := repository.NewSQLitePredecessorRepo(tx)

			for _, c := range changes {
				if err := ctx.Err(); err != nil {
					return domain.CancelledErr(err)
				}
				t, err := tasks.GetByID(ctx, c.TaskID)
				if err != nil {
					return err
				}
				if t.ProjectID != p.ID {
					return domain.NotFoundErr("task %s not in active project", c.TaskID)
				}
				if c.IsLag() {
					if err := links.UpdateLag(ctx, c.TaskID, c.PredecessorOutline, c.LinkType, c.NewLag, c.LagFormat); err != nil {
						return err
					}
				} else {
					t.Duration = c.NewDuration
					t.UpdatedAt = now
					if err := tasks.Update(ctx, t); err != nil {
						return err
					}
				}
				applied++
			}

			// The whole batch stands or falls with the post-apply state.
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

	return &contract.ApplyResult{StrategyID: strategyID, Applied: applied}, nil
}
