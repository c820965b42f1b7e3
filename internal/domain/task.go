package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// outlinePattern matches well-formed outline numbers: dot-separated positive
// integers without leading zeros, e.g. "1", "2.10", "1.2.3".
var outlinePattern = regexp.MustCompile(`^[1-9][0-9]*(\.[1-9][0-9]*)*$`)

// Task is one row of a project schedule. UID is the secondary identifier
// carried from the source document; OutlineNumber positions the task in the
// hierarchy and is what predecessor links reference.
type Task struct {
	ID             string
	ProjectID      string
	UID            string
	Name           string
	OutlineNumber  string
	OutlineLevel   int
	Duration       string // ISO-8601 PT<H>H<M>M<S>S
	Value          string
	Milestone      bool
	Summary        bool
	PercentDone    int
	StartDate      *time.Time
	FinishDate     *time.Time
	ActualStart    *time.Time
	ActualFinish   *time.Time
	ActualDuration string
	CreateDate     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Predecessors holds the task's incoming links when loaded as part of a
	// full project snapshot. Repositories leave it nil unless asked.
	Predecessors []PredecessorLink
}

// ValidOutlineNumber reports whether s is a well-formed outline number.
func ValidOutlineNumber(s string) bool {
	return outlinePattern.MatchString(s)
}

// OutlineDepth returns the number of dot-separated segments in an outline
// number. The task's OutlineLevel must equal this value.
func OutlineDepth(outline string) int {
	if outline == "" {
		return 0
	}
	return strings.Count(outline, ".") + 1
}

// OutlineSegments parses an outline number into its integer segments.
// Malformed segments parse as 0; callers validate first.
func OutlineSegments(outline string) []int {
	parts := strings.Split(outline, ".")
	segs := make([]int, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		segs[i] = n
	}
	return segs
}

// CompareOutlines orders outline numbers by their integer segments, so that
// "1.2" < "1.10" and "2" < "10". Shorter prefixes sort first.
func CompareOutlines(a, b string) int {
	as, bs := OutlineSegments(a), OutlineSegments(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// OutlineParent returns the parent outline of a child ("1.2.3" -> "1.2"),
// or "" for a root outline.
func OutlineParent(outline string) string {
	idx := strings.LastIndex(outline, ".")
	if idx < 0 {
		return ""
	}
	return outline[:idx]
}

// IsOutlineDescendant reports whether outline sits under ancestor in the
// hierarchy (strictly below it).
func IsOutlineDescendant(outline, ancestor string) bool {
	return strings.HasPrefix(outline, ancestor+".")
}
