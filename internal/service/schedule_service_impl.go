package service

import (
	"context"
	"time"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/cpm"
	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/repository"
	"github.com/alexanderramin/chronos/internal/validate"
)

type scheduleService struct {
	dbtx db.DBTX
	obs  UseCaseObserver
}

func NewScheduleService(dbtx db.DBTX, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{dbtx: dbtx, obs: useCaseObserverOrNoop(observers)}
}

func (s *scheduleService) Validate(ctx context.Context) (*contract.ValidationReport, error) {
	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	tasks, err := loadSnapshot(ctx, s.dbtx, p.ID)
	if err != nil {
		return nil, err
	}
	errs := validate.Project(tasks)
	return &contract.ValidationReport{Valid: len(errs) == 0, Errors: errs}, nil
}

func (s *scheduleService) ComputeCPM(ctx context.Context) (result *contract.ScheduleResult, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{}
		if result != nil {
			fields["tasks"] = len(result.Tasks)
			fields["duration_days"] = result.ProjectDurationDays
		}
		emit(ctx, s.obs, "compute_cpm", start, err, fields)
	}()

	p, err := activeProject(ctx, repository.NewSQLiteProjectRepo(s.dbtx))
	if err != nil {
		return nil, err
	}
	tasks, err := loadSnapshot(ctx, s.dbtx, p.ID)
	if err != nil {
		return nil, err
	}
	// An invalid project never schedules; the caller gets the full
	// violation set instead of a partial answer.
	if errs := validate.Project(tasks); len(errs) > 0 {
		return nil, errs
	}
	return cpm.Compute(ctx, tasks)
}
