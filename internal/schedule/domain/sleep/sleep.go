// Package sleep computes a user's target sleep window and scores historical
// sleep quality against that target.
package sleep

import (
	"errors"
	"fmt"

	"github.com/auratyme/schedgen/internal/schedule/domain/chronotype"
	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
)

// ErrInvalidAge is returned when age falls outside any known band.
var ErrInvalidAge = errors.New("sleep: invalid age")

// AgeBand is a baseline-sleep-duration bracket.
type AgeBand struct {
	MinAge, MaxAge int // inclusive; MaxAge -1 means unbounded
	BaselineHours  float64
}

// DefaultAgeBands mirrors the teen/young_adult-adult/senior baseline table.
var DefaultAgeBands = []AgeBand{
	{MinAge: 13, MaxAge: 17, BaselineHours: 9.0},
	{MinAge: 18, MaxAge: 64, BaselineHours: 8.0},
	{MinAge: 65, MaxAge: -1, BaselineHours: 7.5},
}

// Config tunes the adjustment magnitudes; zero value is invalid, use DefaultConfig.
type Config struct {
	AgeBands            []AgeBand
	MaxNeedAdjHours      float64
	MaxChronoAdjHours    float64
	MinDurationHours     float64
	MaxDurationHours     float64
	DefaultWakeByCategory map[chronotype.Category]int // minutes from midnight
	QualityWeights       QualityWeights
}

// QualityWeights are the sleep-quality scoring weights; they must sum to 1.0
// over whichever components are present (missing physiological data
// redistributes its weight across the remaining two).
type QualityWeights struct {
	Duration       float64
	Timing         float64
	Physiological  float64
}

// DefaultConfig mirrors the legacy defaults: 1h duration adjustment range,
// 1.5h chronotype wake-shift range, [4h,12h] clamp, 0.4/0.3/0.3 quality weights.
func DefaultConfig() Config {
	return Config{
		AgeBands:         DefaultAgeBands,
		MaxNeedAdjHours:  1.0,
		MaxChronoAdjHours: 1.5,
		MinDurationHours: 4.0,
		MaxDurationHours: 12.0,
		DefaultWakeByCategory: map[chronotype.Category]int{
			chronotype.Early:        6*60 + 30,
			chronotype.Intermediate: 7*60 + 30,
			chronotype.Late:         8*60 + 30,
			chronotype.Flexible:     7*60 + 30,
			chronotype.Unknown:      7*60 + 30,
		},
		QualityWeights: QualityWeights{Duration: 0.4, Timing: 0.3, Physiological: 0.3},
	}
}

// Window is a computed target sleep window, in minutes from midnight; Wake
// may be numerically "before" Bedtime within the day since sleep crosses
// midnight.
type Window struct {
	BedtimeMinutes     int
	WakeMinutes        int
	DurationMinutes    int
}

// Model computes sleep windows and quality scores for a configured population.
type Model struct {
	cfg Config
}

// NewModel builds a Model with the given configuration.
func NewModel(cfg Config) *Model {
	return &Model{cfg: cfg}
}

func (m *Model) baselineHoursForAge(age int) (float64, error) {
	for _, band := range m.cfg.AgeBands {
		if age < band.MinAge {
			continue
		}
		if band.MaxAge == -1 || age <= band.MaxAge {
			return band.BaselineHours, nil
		}
	}
	return 0, fmt.Errorf("%w: age=%d", ErrInvalidAge, age)
}

// clampScale clamps a [0,100] preference scale, returning a warning if the
// input was out of range (callers then substitute neutral, 50).
func clampScale(scale float64) (clamped float64, warning string) {
	if scale < 0 || scale > 100 {
		return 50, fmt.Sprintf("scale %.1f out of [0,100], using neutral", scale)
	}
	return scale, ""
}

// ComputeWindow derives a target sleep window for the given age, chronotype
// category, preference scales, and optional target wake time override (-1 if
// not supplied). sleepNeedScale/chronotypeScale are in [0,100], 50 = neutral.
func (m *Model) ComputeWindow(age int, category chronotype.Category, sleepNeedScale, chronotypeScale float64, targetWakeMinutes int) (Window, []string, error) {
	var warnings []string

	baseline, err := m.baselineHoursForAge(age)
	if err != nil {
		return Window{}, nil, err
	}

	needScale, needWarning := clampScale(sleepNeedScale)
	if needWarning != "" {
		warnings = append(warnings, needWarning)
	}
	needAdjustment := ((needScale - 50) / 50) * m.cfg.MaxNeedAdjHours
	durationHours := baseline + needAdjustment
	if durationHours < m.cfg.MinDurationHours {
		durationHours = m.cfg.MinDurationHours
	}
	if durationHours > m.cfg.MaxDurationHours {
		durationHours = m.cfg.MaxDurationHours
	}

	var wake int
	if targetWakeMinutes >= 0 {
		wake = targetWakeMinutes
	} else {
		wake = m.cfg.DefaultWakeByCategory[category]

		if chronotypeScale != 0 {
			chronoScale, chronoWarning := clampScale(chronotypeScale)
			if chronoWarning != "" {
				warnings = append(warnings, chronoWarning)
			}
			shift := ((chronoScale - 50) / 50) * m.cfg.MaxChronoAdjHours
			wake += int(shift * 60)
		} else {
			switch category {
			case chronotype.Early:
				wake -= 60
			case chronotype.Late:
				wake += 60
			}
		}
	}
	wake = mod1440(wake)

	durationMinutes := int(durationHours * 60)
	bedtime := mod1440(wake - durationMinutes)

	return Window{
		BedtimeMinutes:  bedtime,
		WakeMinutes:     wake,
		DurationMinutes: durationMinutes,
	}, warnings, nil
}

// PhysiologicalReading is optional biometric data for quality scoring.
type PhysiologicalReading struct {
	HasData     bool
	RestingHRmin float64
	HRVMean      float64
	TargetHRBandLow, TargetHRBandHigh float64
	TargetHRV    float64
}

// Quality scores an actual night of sleep against a target Window.
func (m *Model) Quality(actual Window, target Window, physio PhysiologicalReading) float64 {
	durationMatch := matchScore(float64(actual.DurationMinutes), float64(target.DurationMinutes), 120)
	timingMatch := matchScore(float64(circularDelta(actual.BedtimeMinutes, target.BedtimeMinutes)), 0, 120)

	weights := m.cfg.QualityWeights
	var total, weightSum float64
	total += durationMatch * weights.Duration
	weightSum += weights.Duration
	total += timingMatch * weights.Timing
	weightSum += weights.Timing

	if physio.HasData {
		hrScore := bandMatchScore(physio.RestingHRmin, physio.TargetHRBandLow, physio.TargetHRBandHigh)
		hrvScore := matchScore(physio.HRVMean, physio.TargetHRV, 30)
		physioScore := (hrScore + hrvScore) / 2
		total += physioScore * weights.Physiological
		weightSum += weights.Physiological
	}

	if weightSum == 0 {
		return 0
	}
	score := (total / weightSum) * 100
	return clamp(score, 0, 100)
}

// matchScore scores how close actual is to target, 1.0 at a perfect match
// decaying linearly to 0 at tolerance distance away.
func matchScore(actual, target, tolerance float64) float64 {
	if tolerance <= 0 {
		if actual == target {
			return 1
		}
		return 0
	}
	delta := actual - target
	if delta < 0 {
		delta = -delta
	}
	score := 1 - delta/tolerance
	return clamp(score, 0, 1)
}

// bandMatchScore is 1.0 when actual falls within [low,high], decaying
// outside it at the same rate as matchScore's tolerance.
func bandMatchScore(actual, low, high float64) float64 {
	if actual >= low && actual <= high {
		return 1
	}
	mid := (low + high) / 2
	halfRange := (high - low) / 2
	if halfRange <= 0 {
		halfRange = 1
	}
	return matchScore(actual, mid, halfRange*2)
}

func circularDelta(a, b int) int {
	d := a - b
	d = ((d % timeutil.MinutesPerDay) + timeutil.MinutesPerDay) % timeutil.MinutesPerDay
	if d > timeutil.MinutesPerDay/2 {
		d = timeutil.MinutesPerDay - d
	}
	return d
}

func mod1440(m int) int {
	m %= timeutil.MinutesPerDay
	if m < 0 {
		m += timeutil.MinutesPerDay
	}
	return m
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
