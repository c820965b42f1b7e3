package service

import (
	"context"
	"time"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/domain"
)

// The engine facade. All task-scope operations resolve against the active
// project, re-read from the store on every call; callers needing a stable
// view across calls pass project IDs explicitly.

type ProjectService interface {
	List(ctx context.Context) ([]*domain.Project, error)
	// Create builds an empty project with a synthetic identity. The first
	// project in the store becomes active automatically.
	Create(ctx context.Context, name string, start *time.Time) (*domain.Project, error)
	Switch(ctx context.Context, id string) error
	// Delete removes a project and, through the store's cascades, all its
	// tasks and links. When the active project is deleted the pointer
	// falls back to the most-recently-updated survivor.
	Delete(ctx context.Context, id string) error
	GetMetadata(ctx context.Context) (*contract.Metadata, error)
	UpdateMetadata(ctx context.Context, upd contract.MetadataUpdate) error
}

type TaskService interface {
	List(ctx context.Context) ([]*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	// Delete removes a task, every link referencing it by outline, and
	// renumbers later siblings (and their subtrees) to close the gap —
	// all in one transaction.
	Delete(ctx context.Context, id string) error
}

type ExchangeService interface {
	// Ingest parses an MS Project document, validates it, persists it as a
	// new project, and makes that project active.
	Ingest(ctx context.Context, data []byte) (*contract.IngestResult, error)
	// Export renders the active project back to MS Project XML, splicing
	// current state into the retained source template.
	Export(ctx context.Context) ([]byte, error)
}

type ScheduleService interface {
	Validate(ctx context.Context) (*contract.ValidationReport, error)
	// ComputeCPM refuses to run on an invalid project and surfaces the
	// validator's error set instead.
	ComputeCPM(ctx context.Context) (*contract.ScheduleResult, error)
}

type OptimizeService interface {
	Propose(ctx context.Context, targetDays float64) (*contract.OptimizeProposal, error)
	// Apply commits an explicit change list in a single transaction,
	// re-validating before commit; any violation rolls the whole batch
	// back.
	Apply(ctx context.Context, strategyID string, changes []contract.Change) (*contract.ApplyResult, error)
}
