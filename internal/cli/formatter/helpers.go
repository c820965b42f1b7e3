package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/chronos/internal/codec"
)

// FormatDate renders an optional date, dash for unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return Dim("—")
	}
	return t.Format("2006-01-02")
}

// FormatDays renders a day count with two decimals, trimming ".00".
func FormatDays(days float64) string {
	s := fmt.Sprintf("%.2f", days)
	if s[len(s)-3:] == ".00" {
		s = s[:len(s)-3]
	}
	return s + "d"
}

// FormatDuration renders an ISO-8601 duration as working days. Unparseable
// durations fall back to the raw string.
func FormatDuration(iso string) string {
	days, err := codec.DurationDays(iso)
	if err != nil {
		return iso
	}
	return FormatDays(days)
}

// Flag renders a yes marker or a dim dash.
func Flag(set bool) string {
	if set {
		return StyleGreen.Render("✓")
	}
	return Dim("—")
}
