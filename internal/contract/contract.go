// Package contract defines the transport-agnostic request and response
// records of the engine API. Compute-heavy payloads alias the owning
// package's types so callers see one vocabulary.
package contract

import (
	"time"

	"github.com/alexanderramin/chronos/internal/cpm"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/optimizer"
)

// Metadata is the project-level summary returned by GetMetadata.
type Metadata struct {
	ProjectID  string
	Name       string
	StartDate  *time.Time
	StatusDate *time.Time
	TaskCount  int
}

// MetadataUpdate carries the mutable project fields; nil pointers leave the
// field unchanged.
type MetadataUpdate struct {
	Name       *string
	StartDate  *time.Time
	StatusDate *time.Time
}

// ValidationReport is the full validator output for a project.
type ValidationReport struct {
	Valid  bool
	Errors domain.ValidationErrors
}

// IngestResult summarizes a successful XML ingest.
type IngestResult struct {
	Project   *domain.Project
	TaskCount int
	LinkCount int
}

type TaskSchedule = cpm.TaskSchedule

type ScheduleResult = cpm.Result

type OptimizeProposal = optimizer.Proposal

type Strategy = optimizer.Strategy

type Change = optimizer.Change

// ApplyResult reports how many changes an optimize-apply committed.
type ApplyResult struct {
	StrategyID string
	Applied    int
}
