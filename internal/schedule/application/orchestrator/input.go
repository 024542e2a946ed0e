// Package orchestrator composes the Chronotype/Sleep model, TaskPrioritizer,
// and ConstraintSolver into the single generate() entry point: it builds the
// sleep/fixed-event skeleton, invokes the solver, fills remaining gaps with
// meals/routines/activities/breaks, and emits a continuous day with metrics.
package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// FixedEventInput is one caller-supplied calendar block, in "HH:MM" wall-clock form.
type FixedEventInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TaskInput is one caller-supplied flexible task, in the heterogeneous shape
// the external boundary accepts before TimeUtils normalizes it.
type TaskInput struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Duration        string      `json:"duration"` // parsed by timeutil.ParseDuration
	Priority        int         `json:"priority"` // 1..5
	Energy          int         `json:"energy"`   // 1..3
	EarliestStart   string      `json:"earliest_start,omitempty"`   // "HH:MM", empty if unconstrained
	DeadlineMinutes string      `json:"deadline,omitempty"`         // "HH:MM", empty if unconstrained
	Dependencies    []uuid.UUID `json:"dependencies,omitempty"`
	PostponedCount  int         `json:"postponed_count,omitempty"`
	Completed       bool        `json:"completed,omitempty"`
}

// MealPreferences configures canonical meal placement.
type MealPreferences struct {
	BreakfastTime            string `json:"breakfast_time,omitempty"`
	BreakfastDurationMinutes int    `json:"breakfast_duration_minutes,omitempty"`
	LunchTime                string `json:"lunch_time,omitempty"`
	LunchDurationMinutes     int    `json:"lunch_duration_minutes,omitempty"`
	DinnerTime               string `json:"dinner_time,omitempty"`
	DinnerDurationMinutes    int    `json:"dinner_duration_minutes,omitempty"`
}

// RoutinePreferences configures morning/evening routine duration.
type RoutinePreferences struct {
	MorningDurationMinutes int `json:"morning_duration_minutes,omitempty"`
	EveningDurationMinutes int `json:"evening_duration_minutes,omitempty"`
}

// ActivityGoalInput is one recurring non-task activity (exercise, hobby).
type ActivityGoalInput struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Frequency       string `json:"frequency"`      // daily|weekly|weekdays|weekends|custom
	PreferredTime   string `json:"preferred_time"` // morning|afternoon|evening|before_sleep
}

// Preferences bundles the recognized preference keys from the external
// boundary; unrecognized keys are the caller's concern to log before
// reaching this struct (see §6/§9 of the design notes).
//
// SleepNeedScale and ChronotypeScale are pointers because the keys are
// genuinely optional. An omitted sleep_need_scale defaults to neutral (50),
// not to Go's zero value, which sleep.Model would read as an extreme
// low-need request. An omitted chronotype_scale is passed to sleep.Model as
// 0, which it reads as "no scale given" and answers with the category wake
// delta.
type Preferences struct {
	PreferredWakeTime string              `json:"preferred_wake_time,omitempty"`
	SleepNeedScale    *float64            `json:"sleep_need_scale,omitempty"`
	ChronotypeScale   *float64            `json:"chronotype_scale,omitempty"`
	Meals             MealPreferences     `json:"meals,omitempty"`
	Routines          RoutinePreferences  `json:"routines,omitempty"`
	ActivityGoals     []ActivityGoalInput `json:"activity_goals,omitempty"`
}

// neutralScale is the default [0,100] preference scale used whenever a
// caller omits sleep_need_scale.
const neutralScale = 50.0

// resolveScale returns the pointed-to value, or the neutral default when
// the preference was omitted.
func resolveScale(scale *float64) float64 {
	if scale == nil {
		return neutralScale
	}
	return *scale
}

// UserProfile is the caller-supplied identity/biometric context.
type UserProfile struct {
	Age      int    `json:"age,omitempty"`       // 0 if unknown
	MEQScore int    `json:"meq_score,omitempty"` // 0 if unknown; valid range 16..86
	Name     string `json:"name,omitempty"`
}

// Input is everything one generate() call needs. WearableDataToday and
// HistoricalData are opaque and passed through only to an optional external
// LLM refinement pass (§6, §9); the core itself never reads their contents.
type Input struct {
	UserID             uuid.UUID         `json:"user_id"`
	TargetDate         time.Time         `json:"target_date"`
	Tasks              []TaskInput       `json:"tasks,omitempty"`
	FixedEvents        []FixedEventInput `json:"fixed_events,omitempty"`
	Preferences        Preferences       `json:"preferences,omitempty"`
	UserProfile        UserProfile       `json:"user_profile,omitempty"`
	WearableDataToday  map[string]any    `json:"wearable_data_today,omitempty"`
	HistoricalData     map[string]any    `json:"historical_data,omitempty"`
}
