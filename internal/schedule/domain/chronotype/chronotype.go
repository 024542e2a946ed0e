// Package chronotype determines a user's natural timing preference from a
// questionnaire score or a history of sleep records, and exposes the
// productive-window/exercise-time defaults that the rest of the schedule
// pipeline reads. The 24-hour energy pattern is derived from the category
// in the prioritizer package.
package chronotype

import (
	"errors"
	"math"
	"time"

	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
	"github.com/google/uuid"
)

// Category is the user's natural timing preference.
type Category string

const (
	Early        Category = "early"
	Intermediate Category = "intermediate"
	Late         Category = "late"
	Flexible     Category = "flexible"
	Unknown      Category = "unknown"
)

// ErrInsufficientRecords is returned when fewer than MinSleepRecords valid
// records are available to determine a chronotype from sleep data.
var ErrInsufficientRecords = errors.New("chronotype: insufficient sleep records")

// Config tunes the thresholds used by Analyzer; the zero value is invalid,
// use DefaultConfig.
type Config struct {
	MinSleepRecords       int
	MidSleepEarlyHour      float64 // mean mid-sleep hour at/below this → Early
	MidSleepLateHour       float64 // mean mid-sleep hour at/above this → Late
	ConfidenceVarianceScale float64
	UpdateConfidenceThreshold float64
	ProductiveWindows     map[Category][]Window
	ExerciseTime          map[Category]int // minutes from midnight
}

// Window is a [Start,End) productive-hours interval, in minutes from midnight.
type Window struct {
	Start int
	End   int
}

// DefaultConfig mirrors the category tables the prior system shipped with.
func DefaultConfig() Config {
	return Config{
		MinSleepRecords:           7,
		MidSleepEarlyHour:         3.5,
		MidSleepLateHour:          5.5,
		ConfidenceVarianceScale:   4.0,
		UpdateConfidenceThreshold: 0.6,
		ProductiveWindows: map[Category][]Window{
			Early:        {{420, 720}, {900, 1020}},   // 07:00-12:00, 15:00-17:00
			Late:         {{600, 780}, {1020, 1320}},  // 10:00-13:00, 17:00-22:00
			Intermediate: {{540, 720}, {840, 1080}},   // 09:00-12:00, 14:00-18:00
			Flexible:     {{540, 780}, {900, 1140}},   // 09:00-13:00, 15:00-19:00
			Unknown:      {{540, 720}, {840, 1020}},   // 09:00-12:00, 14:00-17:00
		},
		ExerciseTime: map[Category]int{
			Early:        420,  // 07:00
			Late:         1080, // 18:00
			Intermediate: 1020, // 17:00
			Flexible:     960,  // 16:00
			Unknown:      1020, // 17:00
		},
	}
}

// Profile is a user's derived chronotype.
type Profile struct {
	UserID              uuid.UUID
	Category            Category
	Strength            float64 // [0,1]
	Consistency         float64 // [0,1]
	NaturalBedtime      int     // minutes from midnight
	NaturalWakeTime     int
	ProductiveWindows   []Window
	PreferredExercise   int // minutes from midnight
	SourceOfDetermination string
}

// SleepRecord is one night's sleep, as timezone-aware instants.
type SleepRecord struct {
	Start time.Time
	End   time.Time
}

// Analyzer determines and maintains chronotype profiles.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer builds an Analyzer with the given configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// meqBand is one inclusive range of the Morningness-Eveningness Questionnaire
// score mapped to a category.
type meqBand struct {
	low, high int
	category  Category
}

var meqBands = []meqBand{
	{16, 41, Late},
	{42, 58, Intermediate},
	{59, 86, Early},
}

// FromMEQ maps a MEQ score in [16,86] to a chronotype category by banded lookup.
func (a *Analyzer) FromMEQ(score int) Category {
	for _, b := range meqBands {
		if score >= b.low && score <= b.high {
			return b.category
		}
	}
	if score < 16 {
		return Late
	}
	return Early
}

// FromSleepRecords determines chronotype category and confidence from a
// history of sleep records, per §4.3(ii): requires at least MinSleepRecords
// valid records (tz-aware, end after start, duration in [3h,14h]); category
// is decided by the mean mid-sleep hour in the caller's local timezone.
func (a *Analyzer) FromSleepRecords(records []SleepRecord, loc *time.Location) (Category, float64, error) {
	midSleepHours := make([]float64, 0, len(records))

	for _, r := range records {
		if !r.End.After(r.Start) {
			continue
		}
		duration := r.End.Sub(r.Start)
		if duration < 3*time.Hour || duration > 14*time.Hour {
			continue
		}
		midSleep := r.Start.Add(duration / 2).In(loc)
		hour := float64(midSleep.Hour()) + float64(midSleep.Minute())/60.0 + float64(midSleep.Second())/3600.0
		midSleepHours = append(midSleepHours, hour)
	}

	if len(midSleepHours) < a.cfg.MinSleepRecords {
		return Unknown, 0, ErrInsufficientRecords
	}

	mean := meanOf(midSleepHours)
	stdev := stdevOf(midSleepHours, mean)

	var category Category
	switch {
	case mean <= a.cfg.MidSleepEarlyHour:
		category = Early
	case mean >= a.cfg.MidSleepLateHour:
		category = Late
	default:
		category = Intermediate
	}

	scale := a.cfg.ConfidenceVarianceScale
	if scale < 0.1 {
		scale = 0.1
	}
	confidence := clamp01(1.0 - stdev/scale)

	return category, confidence, nil
}

// CreateProfile builds a new Profile for a category, defaulting natural
// sleep times, productive windows, and exercise time from the category
// tables; callers may override bedtime/wake afterward.
func (a *Analyzer) CreateProfile(userID uuid.UUID, category Category, source string) Profile {
	wake, bed := a.inferSleepTimes(category)

	return Profile{
		UserID:                userID,
		Category:              category,
		Strength:              0.5,
		Consistency:           1.0,
		NaturalBedtime:        bed,
		NaturalWakeTime:       wake,
		ProductiveWindows:     a.cfg.ProductiveWindows[category],
		PreferredExercise:     a.cfg.ExerciseTime[category],
		SourceOfDetermination: source,
	}
}

func (a *Analyzer) inferSleepTimes(category Category) (wakeMinutes, bedMinutes int) {
	const baseWake = 7*60 + 30 // 07:30
	adjustment := map[Category]int{
		Early:        -90,
		Late:         90,
		Intermediate: 0,
		Flexible:     0,
		Unknown:      0,
	}[category]

	wake := baseWake + adjustment
	bed := wake - 8*60
	return mod1440(wake), mod1440(bed)
}

// UpdateProfile recomputes a profile from new sleep records, applying the
// update only if the new data's confidence clears UpdateConfidenceThreshold;
// the consistency score otherwise blends 0.7*old + 0.3*new per §4.3.
func (a *Analyzer) UpdateProfile(profile Profile, records []SleepRecord, loc *time.Location) (Profile, error) {
	category, confidence, err := a.FromSleepRecords(records, loc)
	if err != nil {
		return profile, err
	}
	if confidence < a.cfg.UpdateConfidenceThreshold {
		return profile, nil
	}

	updated := a.CreateProfile(profile.UserID, category, "sleep_records")
	updated.Strength = confidence
	updated.Consistency = clamp01(0.7*profile.Consistency + 0.3*confidence)
	return updated, nil
}

func mod1440(m int) int {
	m %= timeutil.MinutesPerDay
	if m < 0 {
		m += timeutil.MinutesPerDay
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdevOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
