package chronotype_test

import (
	"testing"
	"time"

	"github.com/auratyme/schedgen/internal/schedule/domain/chronotype"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMEQ(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())

	cases := []struct {
		score int
		want  chronotype.Category
	}{
		{16, chronotype.Late},
		{30, chronotype.Late},
		{31, chronotype.Late},
		{41, chronotype.Late},
		{42, chronotype.Intermediate},
		{58, chronotype.Intermediate},
		{59, chronotype.Early},
		{69, chronotype.Early},
		{70, chronotype.Early},
		{86, chronotype.Early},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, a.FromMEQ(tc.score), "score=%d", tc.score)
	}
}

func recordsWithMidSleepHour(loc *time.Location, hour float64, n int) []chronotype.SleepRecord {
	records := make([]chronotype.SleepRecord, 0, n)
	baseDate := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)
	for i := 0; i < n; i++ {
		day := baseDate.AddDate(0, 0, i)
		midSleep := day.Add(time.Duration(hour * float64(time.Hour)))
		start := midSleep.Add(-4 * time.Hour)
		end := midSleep.Add(4 * time.Hour)
		records = append(records, chronotype.SleepRecord{Start: start, End: end})
	}
	return records
}

func TestFromSleepRecords_Early(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	loc := time.UTC
	records := recordsWithMidSleepHour(loc, 3.0, 7)

	category, confidence, err := a.FromSleepRecords(records, loc)
	require.NoError(t, err)
	assert.Equal(t, chronotype.Early, category)
	assert.InDelta(t, 1.0, confidence, 0.01)
}

func TestFromSleepRecords_Late(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	loc := time.UTC
	records := recordsWithMidSleepHour(loc, 6.0, 7)

	category, _, err := a.FromSleepRecords(records, loc)
	require.NoError(t, err)
	assert.Equal(t, chronotype.Late, category)
}

func TestFromSleepRecords_InsufficientRecords(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	records := recordsWithMidSleepHour(time.UTC, 3.0, 3)

	_, _, err := a.FromSleepRecords(records, time.UTC)
	assert.ErrorIs(t, err, chronotype.ErrInsufficientRecords)
}

func TestFromSleepRecords_FiltersInvalidDurations(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	loc := time.UTC
	records := recordsWithMidSleepHour(loc, 3.0, 7)
	// Append records with out-of-range durations that must be filtered out
	// rather than skewing the mean.
	records = append(records,
		chronotype.SleepRecord{Start: time.Date(2026, 2, 1, 0, 0, 0, 0, loc), End: time.Date(2026, 2, 1, 1, 0, 0, 0, loc)},
		chronotype.SleepRecord{Start: time.Date(2026, 2, 2, 0, 0, 0, 0, loc), End: time.Date(2026, 2, 2, 16, 0, 0, 0, loc)},
	)

	category, _, err := a.FromSleepRecords(records, loc)
	require.NoError(t, err)
	assert.Equal(t, chronotype.Early, category)
}

func TestCreateProfile(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	userID := uuid.New()

	profile := a.CreateProfile(userID, chronotype.Early, "meq")
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, chronotype.Early, profile.Category)
	assert.Equal(t, 6*60, profile.NaturalWakeTime) // 07:30 - 1.5h = 06:00
	assert.Equal(t, 22*60, profile.NaturalBedtime)
	assert.NotEmpty(t, profile.ProductiveWindows)

	lateProfile := a.CreateProfile(userID, chronotype.Late, "meq")
	assert.Equal(t, 9*60, lateProfile.NaturalWakeTime) // 07:30 + 1.5h = 09:00
	assert.Equal(t, 60, lateProfile.NaturalBedtime)    // 01:00
}

func TestUpdateProfile_BelowThresholdLeavesProfileUnchanged(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	userID := uuid.New()
	original := a.CreateProfile(userID, chronotype.Intermediate, "meq")

	loc := time.UTC
	// Mid-sleep hours scattered from 00:30 to 23:30 produce low
	// confidence (high variance), so the update must be a no-op.
	records := []chronotype.SleepRecord{
		{Start: time.Date(2026, 3, 1, 23, 0, 0, 0, loc), End: time.Date(2026, 3, 2, 7, 0, 0, 0, loc)},
		{Start: time.Date(2026, 3, 2, 21, 0, 0, 0, loc), End: time.Date(2026, 3, 3, 9, 0, 0, 0, loc)},
		{Start: time.Date(2026, 3, 3, 23, 30, 0, 0, loc), End: time.Date(2026, 3, 4, 7, 30, 0, 0, loc)},
		{Start: time.Date(2026, 3, 4, 20, 0, 0, 0, loc), End: time.Date(2026, 3, 5, 5, 0, 0, 0, loc)},
		{Start: time.Date(2026, 3, 5, 22, 0, 0, 0, loc), End: time.Date(2026, 3, 6, 8, 0, 0, 0, loc)},
		{Start: time.Date(2026, 3, 6, 0, 0, 0, 0, loc), End: time.Date(2026, 3, 6, 9, 0, 0, 0, loc)},
		{Start: time.Date(2026, 3, 7, 19, 0, 0, 0, loc), End: time.Date(2026, 3, 8, 4, 0, 0, 0, loc)},
	}

	updated, err := a.UpdateProfile(original, records, loc)
	require.NoError(t, err)
	assert.Equal(t, original, updated)
}

func TestUpdateProfile_AboveThresholdBlendsConsistency(t *testing.T) {
	a := chronotype.NewAnalyzer(chronotype.DefaultConfig())
	userID := uuid.New()
	original := a.CreateProfile(userID, chronotype.Intermediate, "meq")
	original.Consistency = 0.5

	loc := time.UTC
	records := recordsWithMidSleepHour(loc, 3.0, 7)

	updated, err := a.UpdateProfile(original, records, loc)
	require.NoError(t, err)
	assert.Equal(t, chronotype.Early, updated.Category)
	assert.InDelta(t, 0.7*0.5+0.3*updated.Strength, updated.Consistency, 0.01)
}
