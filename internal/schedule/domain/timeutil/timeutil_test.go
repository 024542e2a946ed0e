package timeutil_test

import (
	"testing"

	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	m, err := timeutil.TimeToMinutes(7, 30)
	require.NoError(t, err)
	assert.Equal(t, 450, m)

	_, err = timeutil.TimeToMinutes(-1, 0)
	assert.ErrorIs(t, err, timeutil.ErrNegative)

	_, err = timeutil.TimeToMinutes(24, 0)
	assert.ErrorIs(t, err, timeutil.ErrOutOfRange)
}

func TestMinutesToTime(t *testing.T) {
	c, err := timeutil.MinutesToTime(450)
	require.NoError(t, err)
	assert.Equal(t, timeutil.Clock{Hour: 7, Minute: 30}, c)

	// 1440 is the end-of-day sentinel, mapping to 00:00.
	c, err = timeutil.MinutesToTime(1440)
	require.NoError(t, err)
	assert.Equal(t, timeutil.Clock{Hour: 0, Minute: 0}, c)

	_, err = timeutil.MinutesToTime(-1)
	assert.ErrorIs(t, err, timeutil.ErrNegative)

	_, err = timeutil.MinutesToTime(1441)
	assert.ErrorIs(t, err, timeutil.ErrOutOfRange)
}

// P10: round-trip of TimeUtils for every valid (h,m).
func TestRoundTripTimeToMinutes(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			minutes, err := timeutil.TimeToMinutes(h, m)
			require.NoError(t, err)
			clock, err := timeutil.MinutesToTime(minutes)
			require.NoError(t, err)
			assert.Equal(t, h, clock.Hour)
			assert.Equal(t, m, clock.Minute)
		}
	}
}

func TestParseHHMM(t *testing.T) {
	m, err := timeutil.ParseHHMM("07:30")
	require.NoError(t, err)
	assert.Equal(t, 450, m)

	m, err = timeutil.ParseHHMM("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, m)

	_, err = timeutil.ParseHHMM("not-a-time")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		warning bool
	}{
		{"1h", 60, false},
		{"45m", 45, false},
		{"1h 30m", 90, false},
		{"90", 90, false},
		{"1.5h", 90, false},
		{"1h 30m 10s", 90, true},
	}
	for _, tc := range cases {
		got, warning, err := timeutil.ParseDuration(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.warning, warning != "", tc.in)
	}
}

func TestParseDurationErrors(t *testing.T) {
	_, _, err := timeutil.ParseDuration("-5m")
	assert.Error(t, err)

	_, _, err = timeutil.ParseDuration("banana")
	assert.Error(t, err)

	_, _, err = timeutil.ParseDuration("")
	assert.Error(t, err)

	_, _, err = timeutil.ParseDuration("-30")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h 30m", timeutil.FormatDuration(90))
	assert.Equal(t, "45m", timeutil.FormatDuration(45))
	assert.Equal(t, "2h", timeutil.FormatDuration(120))
	assert.Equal(t, "0m", timeutil.FormatDuration(0))
	assert.Equal(t, "-30m", timeutil.FormatDuration(-30))
}

// P10: parse_duration(format_duration(d)) == d for all positive minute-aligned d.
func TestRoundTripDuration(t *testing.T) {
	for _, d := range []int{1, 5, 30, 59, 60, 61, 90, 125, 600} {
		formatted := timeutil.FormatDuration(d)
		got, _, err := timeutil.ParseDuration(formatted)
		require.NoError(t, err, formatted)
		assert.Equal(t, d, got, formatted)
	}
}
