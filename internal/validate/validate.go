// Package validate enforces the schedule invariants: task-level field and
// format checks, project-level outline uniqueness, link resolvability, and
// acyclicity of the precedence graph. Checks collect every violation rather
// than short-circuiting; a project is valid iff the returned set is empty.
package validate

import (
	"sort"
	"strings"

	"github.com/alexanderramin/chronos/internal/codec"
	"github.com/alexanderramin/chronos/internal/domain"
)

// Task runs the task-level checks on a single task.
func Task(t *domain.Task) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if t.OutlineNumber == "" {
		errs = errs.Violation(t.OutlineNumber, "outline_number", "outline number is required")
	} else if !domain.ValidOutlineNumber(t.OutlineNumber) {
		errs = errs.Violation(t.OutlineNumber, "outline_number",
			"malformed outline number %q (expected dot-separated positive integers, e.g. 1.2.3)", t.OutlineNumber)
	} else if t.OutlineLevel != domain.OutlineDepth(t.OutlineNumber) {
		errs = errs.Violation(t.OutlineNumber, "outline_level",
			"outline level %d does not match outline number %q (depth %d)",
			t.OutlineLevel, t.OutlineNumber, domain.OutlineDepth(t.OutlineNumber))
	}

	if !codec.ValidDuration(t.Duration) {
		errs = errs.Violation(t.OutlineNumber, "duration",
			"invalid duration %q (expected PT<H>H<M>M<S>S)", t.Duration)
	} else if t.Milestone && !codec.IsZeroDuration(t.Duration) {
		errs = errs.Violation(t.OutlineNumber, "duration",
			"milestone task must have zero duration, got %q", t.Duration)
	}

	if t.Milestone && t.Summary {
		errs = errs.Violation(t.OutlineNumber, "milestone",
			"summary and milestone flags are mutually exclusive")
	}

	if t.PercentDone < 0 || t.PercentDone > 100 {
		errs = errs.Violation(t.OutlineNumber, "percent_complete",
			"percent complete %d out of range [0, 100]", t.PercentDone)
	}

	// Links are identified within their task by (predecessor outline, type).
	type linkKey struct {
		outline string
		linkTyp domain.LinkType
	}
	seen := make(map[linkKey]int, len(t.Predecessors))
	for _, l := range t.Predecessors {
		seen[linkKey{l.PredecessorOutline, l.Type}]++
	}
	for _, l := range t.Predecessors {
		key := linkKey{l.PredecessorOutline, l.Type}
		if seen[key] > 1 {
			errs = errs.Violation(t.OutlineNumber, "predecessor",
				"duplicate %s link to predecessor %q", l.Type, l.PredecessorOutline)
			seen[key] = 1
		}
	}

	return errs
}

// Project runs the full check set over a project snapshot: every task-level
// check plus outline uniqueness, predecessor resolvability, and cycle
// detection over the precedence graph.
func Project(tasks []*domain.Task) domain.ValidationErrors {
	var errs domain.ValidationErrors

	for _, t := range tasks {
		errs = append(errs, Task(t)...)
	}

	outlines := make(map[string]int, len(tasks))
	for _, t := range tasks {
		outlines[t.OutlineNumber]++
	}
	for _, t := range tasks {
		if outlines[t.OutlineNumber] > 1 {
			errs = errs.Violation(t.OutlineNumber, "outline_number",
				"duplicate outline number %q", t.OutlineNumber)
			// Report each duplicate value once.
			outlines[t.OutlineNumber] = 1
		}
	}

	for _, t := range tasks {
		for _, l := range t.Predecessors {
			if _, ok := outlines[l.PredecessorOutline]; !ok {
				errs = errs.Violation(t.OutlineNumber, "predecessor",
					"predecessor outline %q does not exist in the project", l.PredecessorOutline)
			}
			if !l.Type.Valid() {
				errs = errs.Violation(t.OutlineNumber, "predecessor",
					"unknown link type %d for predecessor %q", int(l.Type), l.PredecessorOutline)
			}
		}
	}

	errs = append(errs, detectCycles(tasks)...)

	return errs
}

// detectCycles walks the predecessor -> successor graph depth-first and
// reports each back-edge as a cycle error naming every outline on the cycle.
func detectCycles(tasks []*domain.Task) domain.ValidationErrors {
	graph := make(map[string][]string)
	exists := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		exists[t.OutlineNumber] = true
	}
	for _, t := range tasks {
		for _, l := range t.Predecessors {
			if exists[l.PredecessorOutline] {
				graph[l.PredecessorOutline] = append(graph[l.PredecessorOutline], t.OutlineNumber)
			}
		}
	}

	roots := make([]string, 0, len(exists))
	for outline := range exists {
		roots = append(roots, outline)
	}
	sort.Slice(roots, func(i, j int) bool { return domain.CompareOutlines(roots[i], roots[j]) < 0 })
	for _, succs := range graph {
		sort.Slice(succs, func(i, j int) bool { return domain.CompareOutlines(succs[i], succs[j]) < 0 })
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int, len(exists))
	var stack []string
	var errs domain.ValidationErrors

	// The walk never aborts: every entered node unwinds to black, so a
	// later root reaching an already-reported cycle does not re-report it.
	var visit func(node string)
	visit = func(node string) {
		color[node] = gray
		stack = append(stack, node)
		for _, succ := range graph[node] {
			switch color[succ] {
			case gray:
				errs = errs.Violation(succ, "predecessor",
					"circular dependency: %s", strings.Join(cyclePath(stack, succ), " -> "))
			case white:
				visit(succ)
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, node := range roots {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}

// cyclePath extracts the cycle from the DFS stack, starting at the gray node
// the back-edge points to and closing the loop with it.
func cyclePath(stack []string, start string) []string {
	for i, n := range stack {
		if n == start {
			path := append([]string{}, stack[i:]...)
			return append(path, start)
		}
	}
	return []string{start}
}
