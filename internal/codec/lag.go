// Package codec converts between the MS Project wire representations of lag
// and duration and the canonical day/hour values the engine computes with.
package codec

import (
	"math"

	"github.com/alexanderramin/chronos/internal/domain"
)

// daysPerUnit maps a lag format code to the length of one native unit in
// working days. Elapsed formats use calendar time (24h days, 7d weeks);
// working formats use the 8-hour day and 5-day week.
var daysPerUnit = map[domain.LagFormat]float64{
	domain.LagWorkingMinutes: 1.0 / 480,
	domain.LagElapsedMinutes: 1.0 / 1440,
	domain.LagWorkingHours:   1.0 / 8,
	domain.LagElapsedHours:   1.0 / 24,
	domain.LagWorkingDays:    1,
	domain.LagElapsedDays:    1,
	domain.LagWorkingWeeks:   5,
	domain.LagElapsedWeeks:   7,
	domain.LagWorkingMonths:  20,
	domain.LagElapsedMonths:  30,
}

// LagDaysPerUnit returns the day length of one native unit of the given
// format. Unknown codes default to days.
func LagDaysPerUnit(format domain.LagFormat) float64 {
	if d, ok := daysPerUnit[format]; ok {
		return d
	}
	return 1
}

// LagToDays converts a native-unit lag value to days. Pure and total: the
// sign is preserved (negative lag is lead time) and unknown formats are
// treated as days.
func LagToDays(lag int, format domain.LagFormat) float64 {
	return float64(lag) * LagDaysPerUnit(format)
}

// LagFromDays converts a day count back to the native unit of the given
// format, rounding to the nearest whole unit.
func LagFromDays(days float64, format domain.LagFormat) int {
	return int(math.Round(days / LagDaysPerUnit(format)))
}
