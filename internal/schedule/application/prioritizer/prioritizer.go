// Package prioritizer scores flexible tasks for scheduling order and
// derives the 24-hour energy pattern the solver's objective reads.
package prioritizer

import (
	"fmt"
	"sort"
	"time"

	"github.com/auratyme/schedgen/internal/schedule/domain/chronotype"
	"github.com/auratyme/schedgen/internal/schedule/domain/task"
	"github.com/google/uuid"
)

// Config tunes the weighted-sum score; the zero value is invalid, use DefaultConfig.
type Config struct {
	PriorityWeight   float64
	DeadlineWeight   float64
	DependencyWeight float64
	PostponedWeight  float64
	DependencyScale  float64
	PostponedScale   float64
}

// DefaultConfig mirrors the legacy 0.50/0.35/0.10/0.05 weighting.
func DefaultConfig() Config {
	return Config{
		PriorityWeight:   0.50,
		DeadlineWeight:   0.35,
		DependencyWeight: 0.10,
		PostponedWeight:  0.05,
		DependencyScale:  5,
		PostponedScale:   3,
	}
}

// Engine scores tasks and derives energy patterns from a chronotype profile.
type Engine struct {
	cfg Config
}

// NewEngine builds an Engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Scored pairs a task with its computed score and explanation.
type Scored struct {
	Task        *task.Task
	Score       float64
	Explanation string
}

// Score computes a task's priority score and a human-readable explanation,
// following this package's `(score, explanation)` convention rather than
// returning a bare float.
func (e *Engine) Score(t *task.Task, now, createdAt time.Time, dependentsCount int) (float64, string) {
	priorityFactor := float64(t.Priority()) / 5.0

	var deadlineFactor float64
	if deadline := t.DeadlineMinutes(); deadline != nil {
		deadlineFactor = urgency(now, createdAt, minutesToTimeOnDay(now, *deadline))
	}

	dependencyFactor := clamp01(float64(dependentsCount) / e.cfg.DependencyScale)
	postponedFactor := clamp01(float64(t.PostponedCount()) / e.cfg.PostponedScale)

	score := priorityFactor*e.cfg.PriorityWeight +
		deadlineFactor*e.cfg.DeadlineWeight +
		dependencyFactor*e.cfg.DependencyWeight +
		postponedFactor*e.cfg.PostponedWeight

	explanation := fmt.Sprintf(
		"priority=%.2f deadline=%.2f dependency=%.2f postponed=%.2f",
		priorityFactor*e.cfg.PriorityWeight,
		deadlineFactor*e.cfg.DeadlineWeight,
		dependencyFactor*e.cfg.DependencyWeight,
		postponedFactor*e.cfg.PostponedWeight,
	)

	return score, explanation
}

// minutesToTimeOnDay projects a minutes-from-midnight deadline onto the
// calendar day that `reference` falls on, for urgency's elapsed-time math.
func minutesToTimeOnDay(reference time.Time, minutes int) time.Time {
	dayStart := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
	return dayStart.Add(time.Duration(minutes) * time.Minute)
}

// urgency computes deadline pressure: 0 with no deadline (callers guard
// that), 1 once the deadline has passed, else clamp((now-createdAt)/
// (deadline-createdAt), 0, 1) squared so urgency accelerates near the deadline.
func urgency(now, createdAt, deadline time.Time) float64 {
	if !deadline.After(createdAt) {
		if !now.Before(deadline) {
			return 1
		}
		return 0
	}
	if !now.Before(deadline) {
		return 1
	}
	r := now.Sub(createdAt).Seconds() / deadline.Sub(createdAt).Seconds()
	r = clamp01(r)
	return r * r
}

// CountDependents returns, for each task id, how many other tasks in the
// batch list it as a prerequisite.
func CountDependents(tasks []*task.Task) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(tasks))
	for _, t := range tasks {
		for _, dep := range t.Dependencies() {
			counts[dep]++
		}
	}
	return counts
}

// RankAll scores every task and returns them sorted descending by score,
// ties broken by task id for determinism.
func (e *Engine) RankAll(tasks []*task.Task, now, createdAt time.Time) []Scored {
	dependents := CountDependents(tasks)

	scored := make([]Scored, 0, len(tasks))
	for _, t := range tasks {
		score, explanation := e.Score(t, now, createdAt, dependents[t.ID()])
		scored = append(scored, Scored{Task: t, Score: score, Explanation: explanation})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Task.ID().String() < scored[j].Task.ID().String()
	})
	return scored
}

// EnergyPattern is a 24-entry hour→energy table, each value in [0,1].
type EnergyPattern [24]float64

// DeriveEnergyPattern builds the 24-hour energy pattern from a chronotype
// category: EARLY boosts hours 6-10 by +0.1, LATE boosts 17-21 by +0.1,
// all other categories are neutral; values clamp to [0,1].
func DeriveEnergyPattern(category chronotype.Category) EnergyPattern {
	var pattern EnergyPattern
	for h := 0; h < 24; h++ {
		pattern[h] = baselineEnergy(h)
	}

	switch category {
	case chronotype.Early:
		for h := 6; h <= 10; h++ {
			pattern[h] = clamp01(pattern[h] + 0.1)
		}
	case chronotype.Late:
		for h := 17; h <= 21; h++ {
			pattern[h] = clamp01(pattern[h] + 0.1)
		}
	}
	return pattern
}

// baselineEnergy is a neutral circadian curve: low overnight, rising through
// the morning, peaking midday, easing into the evening.
func baselineEnergy(hour int) float64 {
	switch {
	case hour < 5:
		return 0.1
	case hour < 9:
		return 0.2 + 0.15*float64(hour-5)
	case hour < 14:
		return 0.8
	case hour < 18:
		return 0.6
	case hour < 22:
		return 0.4
	default:
		return 0.15
	}
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
