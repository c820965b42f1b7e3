package domain

import "time"

// Project is a single imported or hand-built schedule. XMLTemplate holds the
// original MS Project document verbatim; export re-emits it with the current
// task set spliced in so unrecognized elements survive the round trip.
type Project struct {
	ID          string
	Name        string
	StartDate   *time.Time
	StatusDate  *time.Time
	IsActive    bool
	XMLTemplate string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayID returns a short identifier for log and CLI output.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
