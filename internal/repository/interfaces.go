package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
)

// Repositories accept a db.DBTX at construction, so the same implementation
// serves both direct reads and tx-scoped writes inside a UnitOfWork.

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// GetActive returns the project carrying the active flag, or a
	// not-found error when the store is empty.
	GetActive(ctx context.Context) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	// SetActive clears the current active flag and sets it on id.
	// Must run inside a transaction; it touches two rows.
	SetActive(ctx context.Context, id string) error
	// MostRecentlyUpdated returns the project with the newest updated_at,
	// or nil when the store is empty. Used for active-pointer fallback.
	MostRecentlyUpdated(ctx context.Context) (*domain.Project, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetByOutline(ctx context.Context, projectID, outline string) (*domain.Task, error)
	// ListByProject returns the project's tasks ordered by outline number
	// (numeric segment order, so 1.2 < 1.10).
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	Update(ctx context.Context, t *domain.Task) error
	// UpdateOutline rewrites a task's outline number and level, used by
	// sibling renumbering after a structural delete.
	UpdateOutline(ctx context.Context, id, outline string, level int) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

type PredecessorRepo interface {
	Create(ctx context.Context, l *domain.PredecessorLink) error
	ListByTask(ctx context.Context, taskID string) ([]domain.PredecessorLink, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.PredecessorLink, error)
	// UpdateLag rewrites the lag of the link identified within its task by
	// (predecessor outline, type).
	UpdateLag(ctx context.Context, taskID, outline string, linkType domain.LinkType, lag int, format domain.LagFormat) error
	// RewriteOutlineRef repoints every back-reference in the project from
	// oldOutline to newOutline. Used by sibling renumbering.
	RewriteOutlineRef(ctx context.Context, projectID, oldOutline, newOutline string) error
	// DeleteByOutlineRef removes every link in the project whose
	// back-reference names the given outline.
	DeleteByOutlineRef(ctx context.Context, projectID, outline string) error
	Delete(ctx context.Context, taskID, outline string, linkType domain.LinkType) error
	DeleteByTask(ctx context.Context, taskID string) error
}
