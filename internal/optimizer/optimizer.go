// Package optimizer synthesizes ranked schedule-compression strategies from
// a CPM result: lag reduction on critical-path links and duration
// compression of critical tasks. Proposals are concrete change lists; the
// engine applies a chosen list transactionally and re-validates.
package optimizer

import (
	"fmt"
	"math"

	"github.com/alexanderramin/chronos/internal/codec"
	"github.com/alexanderramin/chronos/internal/cpm"
	"github.com/alexanderramin/chronos/internal/domain"
)

// Risk is the qualitative risk class of a strategy.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

func riskRank(r Risk) int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

// Strategy identifiers, referenced by the apply operation.
const (
	StrategyLagReduction    = "lag-reduction"
	StrategyTaskCompression = "task-compression"
)

// Config carries the compression heuristics. The defaults mirror the
// historical behavior; callers may tune them.
type Config struct {
	// LagReductionPct is the fraction of each positive critical-path lag to
	// remove, truncated toward zero in native units.
	LagReductionPct float64
	// CompressionPct is the fraction of each critical task's duration to
	// remove.
	CompressionPct float64
	// MinCompressedHours is the floor a compressed duration never crosses.
	MinCompressedHours float64
	// CostPerDay prices one saved day of task compression.
	CostPerDay float64
}

// DefaultConfig returns the standard heuristics: 40 % lag cuts, 20 % task
// compression with a one-hour floor, at 500 per saved day.
func DefaultConfig() Config {
	return Config{
		LagReductionPct:    0.4,
		CompressionPct:     0.2,
		MinCompressedHours: 1,
		CostPerDay:         500,
	}
}

// Change is one concrete edit inside a strategy: either a new duration for a
// task or a new lag for one of its predecessor links.
type Change struct {
	TaskID  string
	Outline string

	// Duration compression.
	NewDuration string

	// Lag reduction. PredecessorOutline plus LinkType identify the link
	// within the task; NewLag is in the link's native unit.
	PredecessorOutline string
	LinkType           domain.LinkType
	NewLag             int
	LagFormat          domain.LagFormat

	SavingsDays float64
}

// IsLag reports whether the change edits a predecessor link rather than a
// task duration.
func (c Change) IsLag() bool {
	return c.PredecessorOutline != ""
}

// Strategy is a ranked list of changes of one kind.
type Strategy struct {
	ID               string
	Description      string
	Changes          []Change
	TotalSavingsDays float64
	Cost             float64
	Risk             Risk
	Recommended      bool
}

// Proposal is the full optimizer output for a target duration.
type Proposal struct {
	CurrentDurationDays float64
	TargetDurationDays  float64
	Achievable          bool
	Strategies          []Strategy
}

// Propose builds every applicable strategy for the given schedule and ranks
// them against the target. Exactly one strategy is marked recommended when
// any exist: the first that closes the gap to target, otherwise the one with
// the largest savings; ties break on lower cost, then lower risk.
func Propose(cfg Config, tasks []*domain.Task, result *cpm.Result, targetDays float64) (*Proposal, error) {
	critical := make(map[string]bool, len(result.CriticalPath))
	for _, outline := range result.CriticalPath {
		critical[outline] = true
	}

	proposal := &Proposal{
		CurrentDurationDays: result.ProjectDurationDays,
		TargetDurationDays:  targetDays,
	}

	if s := proposeLagReduction(cfg, tasks, critical); s != nil {
		proposal.Strategies = append(proposal.Strategies, *s)
	}
	if s, err := proposeCompression(cfg, tasks, critical); err != nil {
		return nil, err
	} else if s != nil {
		proposal.Strategies = append(proposal.Strategies, *s)
	}

	gap := result.ProjectDurationDays - targetDays
	if gap <= 0 {
		proposal.Achievable = true
	}

	best := -1
	for i := range proposal.Strategies {
		s := &proposal.Strategies[i]
		closes := s.TotalSavingsDays >= gap
		if closes {
			proposal.Achievable = true
		}
		if best < 0 {
			best = i
			continue
		}
		b := &proposal.Strategies[best]
		bCloses := b.TotalSavingsDays >= gap
		switch {
		case closes != bCloses:
			if closes {
				best = i
			}
		case s.TotalSavingsDays != b.TotalSavingsDays && !closes:
			if s.TotalSavingsDays > b.TotalSavingsDays {
				best = i
			}
		case s.Cost != b.Cost:
			if s.Cost < b.Cost {
				best = i
			}
		case riskRank(s.Risk) < riskRank(b.Risk):
			best = i
		}
	}
	if best >= 0 {
		proposal.Strategies[best].Recommended = true
	}

	return proposal, nil
}

// proposeLagReduction cuts every positive lag on a link whose successor is
// critical. Lag edits cost nothing and carry low risk.
func proposeLagReduction(cfg Config, tasks []*domain.Task, critical map[string]bool) *Strategy {
	s := &Strategy{
		ID:          StrategyLagReduction,
		Description: fmt.Sprintf("Reduce positive lags on critical-path links by %.0f%%", cfg.LagReductionPct*100),
		Cost:        0,
		Risk:        RiskLow,
	}

	for _, t := range tasks {
		if !critical[t.OutlineNumber] {
			continue
		}
		for _, l := range t.Predecessors {
			if codec.LagToDays(l.Lag, l.LagFormat) <= 0 {
				continue
			}
			// Truncate toward zero in native units so the reduction
			// re-encodes exactly.
			reduction := int(float64(l.Lag) * cfg.LagReductionPct)
			if reduction == 0 {
				continue
			}
			s.Changes = append(s.Changes, Change{
				TaskID:             t.ID,
				Outline:            t.OutlineNumber,
				PredecessorOutline: l.PredecessorOutline,
				LinkType:           l.Type,
				NewLag:             l.Lag - reduction,
				LagFormat:          l.LagFormat,
				SavingsDays:        codec.LagToDays(reduction, l.LagFormat),
			})
			s.TotalSavingsDays += codec.LagToDays(reduction, l.LagFormat)
		}
	}

	if len(s.Changes) == 0 {
		return nil
	}
	return s
}

// proposeCompression shortens every critical non-summary, non-milestone
// task, never below the configured floor.
func proposeCompression(cfg Config, tasks []*domain.Task, critical map[string]bool) (*Strategy, error) {
	s := &Strategy{
		ID:          StrategyTaskCompression,
		Description: fmt.Sprintf("Compress critical task durations by %.0f%%", cfg.CompressionPct*100),
		Risk:        RiskMedium,
	}

	for _, t := range tasks {
		if !critical[t.OutlineNumber] || t.Summary || t.Milestone {
			continue
		}
		hours, err := codec.ParseDuration(t.Duration)
		if err != nil {
			return nil, err
		}
		newHours := hours * (1 - cfg.CompressionPct)
		if newHours < cfg.MinCompressedHours {
			newHours = cfg.MinCompressedHours
		}
		if newHours >= hours {
			continue
		}
		saved := (hours - newHours) / codec.HoursPerDay
		s.Changes = append(s.Changes, Change{
			TaskID:      t.ID,
			Outline:     t.OutlineNumber,
			NewDuration: codec.FormatDuration(newHours),
			SavingsDays: saved,
		})
		s.TotalSavingsDays += saved
	}

	if len(s.Changes) == 0 {
		return nil, nil
	}
	s.Cost = math.Ceil(s.TotalSavingsDays) * cfg.CostPerDay
	return s, nil
}
