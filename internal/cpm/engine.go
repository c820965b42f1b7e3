// Package cpm implements the Critical Path Method over a project snapshot:
// forward and backward passes across the precedence graph, total float, and
// the critical task set. All arithmetic is in working days (8-hour days, no
// calendar skipping); lags are converted from their native units per edge.
package cpm

import (
	"context"
	"errors"
	"sort"

	"github.com/alexanderramin/chronos/internal/codec"
	"github.com/alexanderramin/chronos/internal/domain"
)

// CriticalTolerance is the float band, in days, within which a task counts
// as critical.
const CriticalTolerance = 0.01

// TaskSchedule is the per-task output of a CPM run. All values are in
// working days from project start.
type TaskSchedule struct {
	Outline      string
	Name         string
	DurationDays float64
	EarlyStart   float64
	EarlyFinish  float64
	LateStart    float64
	LateFinish   float64
	TotalFloat   float64
	Critical     bool
}

// Result is a full CPM run: every non-summary task's schedule in outline
// order, the project duration, and the critical path.
type Result struct {
	ProjectDurationDays float64
	Tasks               []TaskSchedule
	CriticalPath        []string
}

// node is one non-summary task in the precedence graph.
type node struct {
	task     *domain.Task
	duration float64
	incoming []edge
	outgoing []edge
	indegree int

	es, ef, ls, lf float64
}

// edge is a typed precedence relation with its lag already in days.
type edge struct {
	from    string
	to      string
	typ     domain.LinkType
	lagDays float64
}

// Compute runs the forward and backward passes over the given tasks. The
// caller must have validated the project: a cycle at this point is an
// internal error, not a validation result. Summary tasks are excluded from
// the node set; links whose outline does not resolve to a node are skipped.
func Compute(ctx context.Context, tasks []*domain.Task) (*Result, error) {
	nodes := make(map[string]*node)
	var order []string
	for _, t := range tasks {
		if t.Summary {
			continue
		}
		days, err := codec.DurationDays(t.Duration)
		if err != nil {
			return nil, err
		}
		nodes[t.OutlineNumber] = &node{task: t, duration: days}
		order = append(order, t.OutlineNumber)
	}
	sort.Slice(order, func(i, j int) bool { return domain.CompareOutlines(order[i], order[j]) < 0 })

	for _, t := range tasks {
		succ, ok := nodes[t.OutlineNumber]
		if !ok {
			continue
		}
		for _, l := range t.Predecessors {
			pred, ok := nodes[l.PredecessorOutline]
			if !ok {
				continue
			}
			e := edge{
				from:    l.PredecessorOutline,
				to:      t.OutlineNumber,
				typ:     l.Type,
				lagDays: codec.LagToDays(l.Lag, l.LagFormat),
			}
			succ.incoming = append(succ.incoming, e)
			pred.outgoing = append(pred.outgoing, e)
			succ.indegree++
		}
	}

	topo, err := topologicalOrder(nodes, order)
	if err != nil {
		return nil, err
	}

	// Forward pass.
	for i, outline := range topo {
		if err := checkCancelled(ctx, i); err != nil {
			return nil, err
		}
		n := nodes[outline]
		// Tasks without predecessors start at project day zero. For linked
		// tasks the max runs over the raw edge values: negative lag (lead
		// time) is arithmetic like any other, so no floor is applied.
		n.es = 0
		for i, e := range n.incoming {
			p := nodes[e.from]
			var start float64
			switch e.typ {
			case domain.LinkFS:
				start = p.ef + e.lagDays
			case domain.LinkSS:
				start = p.es + e.lagDays
			case domain.LinkFF:
				start = p.ef + e.lagDays - n.duration
			case domain.LinkSF:
				start = p.es + e.lagDays - n.duration
			}
			if i == 0 || start > n.es {
				n.es = start
			}
		}
		n.ef = n.es + n.duration
	}

	var projectDuration float64
	for _, n := range nodes {
		if n.ef > projectDuration {
			projectDuration = n.ef
		}
	}

	// Backward pass, in reverse topological order. Sinks seed at the
	// project finish.
	for i := len(topo) - 1; i >= 0; i-- {
		if err := checkCancelled(ctx, i); err != nil {
			return nil, err
		}
		n := nodes[topo[i]]
		n.lf = projectDuration
		for _, e := range n.outgoing {
			s := nodes[e.to]
			var end float64
			switch e.typ {
			case domain.LinkFS:
				end = s.ls - e.lagDays
			case domain.LinkFF:
				end = s.lf - e.lagDays
			case domain.LinkSS:
				end = s.ls - e.lagDays + n.duration
			case domain.LinkSF:
				end = s.lf - e.lagDays + n.duration
			}
			if end < n.lf {
				n.lf = end
			}
		}
		n.ls = n.lf - n.duration
	}

	result := &Result{ProjectDurationDays: projectDuration}
	for _, outline := range order {
		n := nodes[outline]
		tf := n.ls - n.es
		critical := tf > -CriticalTolerance && tf < CriticalTolerance
		result.Tasks = append(result.Tasks, TaskSchedule{
			Outline:      outline,
			Name:         n.task.Name,
			DurationDays: n.duration,
			EarlyStart:   n.es,
			EarlyFinish:  n.ef,
			LateStart:    n.ls,
			LateFinish:   n.lf,
			TotalFloat:   tf,
			Critical:     critical,
		})
		if critical {
			result.CriticalPath = append(result.CriticalPath, outline)
		}
	}
	return result, nil
}

// topologicalOrder runs Kahn's algorithm, breaking ties deterministically by
// outline order. The validator gates CPM, so a leftover cycle is internal.
func topologicalOrder(nodes map[string]*node, order []string) ([]string, error) {
	indegree := make(map[string]int, len(nodes))
	for outline, n := range nodes {
		indegree[outline] = n.indegree
	}

	var ready []string
	for _, outline := range order {
		if indegree[outline] == 0 {
			ready = append(ready, outline)
		}
	}

	topo := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		// order is outline-sorted and ready preserves insertion order, so
		// the head is always the smallest outline among ready nodes.
		outline := ready[0]
		ready = ready[1:]
		topo = append(topo, outline)

		next := make([]string, 0, 2)
		for _, e := range nodes[outline].outgoing {
			indegree[e.to]--
			if indegree[e.to] == 0 {
				next = append(next, e.to)
			}
		}
		sort.Slice(next, func(i, j int) bool { return domain.CompareOutlines(next[i], next[j]) < 0 })
		ready = mergeByOutline(ready, next)
	}

	if len(topo) != len(nodes) {
		return nil, domain.InternalErr(errCycle)
	}
	return topo, nil
}

// mergeByOutline merges two outline-sorted slices.
func mergeByOutline(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if domain.CompareOutlines(a[i], b[j]) <= 0 {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// checkCancelled observes the caller's context between tasks, not inside a
// single task's arithmetic.
func checkCancelled(ctx context.Context, _ int) error {
	select {
	case <-ctx.Done():
		return domain.CancelledErr(ctx.Err())
	default:
		return nil
	}
}

var errCycle = errors.New("precedence graph contains a cycle after validation")
