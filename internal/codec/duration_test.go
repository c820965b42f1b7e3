package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chronos/internal/domain"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in    string
		hours float64
	}{
		{"PT8H0M0S", 8},
		{"PT0H0M0S", 0},
		{"PT16H30M0S", 16.5},
		{"PT0H0M30S", 1.0 / 120},
		{"PT100H0M0S", 100},
		{"", 0},
	}
	for _, tt := range tests {
		hours, err := ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.hours, hours, 1e-9, tt.in)
	}
}

func TestParseDuration_Malformed(t *testing.T) {
	for _, in := range []string{"3 days", "PT8H", "P1DT8H0M0S", "PT-1H0M0S", "pt8h0m0s", "PT8H0M0S "} {
		_, err := ParseDuration(in)
		assert.Equal(t, domain.KindParse, domain.KindOf(err), "%q should not parse", in)
	}
}

func TestParseDuration_ComponentOutOfRange(t *testing.T) {
	// Digit runs that overflow int must fail, not saturate.
	for _, in := range []string{
		"PT99999999999999999999H0M0S",
		"PT0H99999999999999999999M0S",
		"PT0H0M99999999999999999999S",
	} {
		_, err := ParseDuration(in)
		assert.Equal(t, domain.KindParse, domain.KindOf(err), "%q should not parse", in)
	}
}

func TestDurationDays(t *testing.T) {
	days, err := DurationDays("PT8H0M0S")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, days, 1e-9)

	days, err = DurationDays("PT20H0M0S")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, days, 1e-9)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "PT8H0M0S", FormatDuration(8))
	assert.Equal(t, "PT6H24M0S", FormatDuration(6.4))
	assert.Equal(t, "PT0H0M0S", FormatDuration(0))
	assert.Equal(t, "PT0H0M0S", FormatDuration(-1), "negative clamps to zero")
	assert.Equal(t, "PT32H0M0S", FormatDurationDays(4))
}

func TestDurationRoundTrip(t *testing.T) {
	for _, iso := range []string{"PT0H0M0S", "PT8H0M0S", "PT13H45M0S", "PT100H1M0S"} {
		hours, err := ParseDuration(iso)
		require.NoError(t, err)
		assert.Equal(t, iso, FormatDuration(hours))
	}
}

func TestIsZeroDuration(t *testing.T) {
	assert.True(t, IsZeroDuration("PT0H0M0S"))
	assert.True(t, IsZeroDuration(""))
	assert.False(t, IsZeroDuration("PT1H0M0S"))
	assert.False(t, IsZeroDuration("garbage"))
}
