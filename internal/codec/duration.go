package codec

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/alexanderramin/chronos/internal/domain"
)

// HoursPerDay is the fixed working-day length. The engine performs no
// calendar arithmetic beyond this assumption.
const HoursPerDay = 8.0

var durationPattern = regexp.MustCompile(`^PT(\d+)H(\d+)M(\d+)S$`)

// ParseDuration parses an ISO-8601 task duration of shape PT<H>H<M>M<S>S
// into decimal hours. An empty string parses as zero hours, matching
// documents that write milestone durations as empty elements.
func ParseDuration(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, domain.ParseErr("invalid duration %q (expected PT<H>H<M>M<S>S)", s)
	}
	hours, hErr := strconv.Atoi(m[1])
	minutes, mErr := strconv.Atoi(m[2])
	seconds, sErr := strconv.Atoi(m[3])
	if hErr != nil || mErr != nil || sErr != nil {
		return 0, domain.ParseErr("duration %q has an out-of-range component", s)
	}
	return float64(hours) + float64(minutes)/60 + float64(seconds)/3600, nil
}

// DurationDays parses a duration string and converts it to working days.
func DurationDays(s string) (float64, error) {
	hours, err := ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return hours / HoursPerDay, nil
}

// FormatDuration renders decimal hours in the wire shape with all three
// components present. Seconds are always zero; sub-minute remainders round
// to the nearest minute.
func FormatDuration(hours float64) string {
	totalMinutes := int(math.Round(hours * 60))
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return fmt.Sprintf("PT%dH%dM0S", totalMinutes/60, totalMinutes%60)
}

// FormatDurationDays renders a working-day count in the wire shape.
func FormatDurationDays(days float64) string {
	return FormatDuration(days * HoursPerDay)
}

// ValidDuration reports whether s parses as a task duration.
func ValidDuration(s string) bool {
	_, err := ParseDuration(s)
	return err == nil
}

// ZeroDuration is the canonical zero value milestones must carry.
const ZeroDuration = "PT0H0M0S"

// IsZeroDuration reports whether s denotes a zero-length duration,
// including the empty-element form.
func IsZeroDuration(s string) bool {
	hours, err := ParseDuration(s)
	return err == nil && hours == 0
}
