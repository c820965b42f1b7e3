package testutil

import (
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/google/uuid"
)

// Project options
type ProjectOption func(*domain.Project)

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &d
	}
}

func WithActive() ProjectOption {
	return func(p *domain.Project) {
		p.IsActive = true
	}
}

func WithTemplate(xml string) ProjectOption {
	return func(p *domain.Project) {
		p.XMLTemplate = xml
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	start := now.AddDate(0, -1, 0)
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: &start,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithDuration(iso string) TaskOption {
	return func(t *domain.Task) {
		t.Duration = iso
	}
}

func WithMilestone() TaskOption {
	return func(t *domain.Task) {
		t.Milestone = true
		t.Duration = "PT0H0M0S"
	}
}

func WithSummary() TaskOption {
	return func(t *domain.Task) {
		t.Summary = true
	}
}

func WithUID(uid string) TaskOption {
	return func(t *domain.Task) {
		t.UID = uid
	}
}

func WithPercentDone(pct int) TaskOption {
	return func(t *domain.Task) {
		t.PercentDone = pct
	}
}

func NewTestTask(projectID, outline, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		UID:           outline,
		Name:          name,
		OutlineNumber: outline,
		OutlineLevel:  domain.OutlineDepth(outline),
		Duration:      "PT8H0M0S",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Link options
type LinkOption func(*domain.PredecessorLink)

func WithLinkType(lt domain.LinkType) LinkOption {
	return func(l *domain.PredecessorLink) {
		l.Type = lt
	}
}

func WithLag(lag int, format domain.LagFormat) LinkOption {
	return func(l *domain.PredecessorLink) {
		l.Lag = lag
		l.LagFormat = format
	}
}

// NewTestLink builds an FS link with zero lag in working days unless
// overridden by options.
func NewTestLink(taskID, projectID, predecessorOutline string, opts ...LinkOption) *domain.PredecessorLink {
	l := &domain.PredecessorLink{
		TaskID:             taskID,
		ProjectID:          projectID,
		PredecessorOutline: predecessorOutline,
		Type:               domain.LinkFS,
		Lag:                0,
		LagFormat:          domain.LagWorkingDays,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
