// Package task holds the Task entity the rest of the schedule pipeline
// schedules: a flexible unit of work with a priority, an energy demand, and
// optional timing and dependency constraints.
package task

import (
	"errors"
	"fmt"

	shareddomain "github.com/auratyme/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// Priority is an explicit urgency rank, 1 (lowest) through 5 (highest).
type Priority int

const (
	PriorityLowest  Priority = 1
	PriorityLow     Priority = 2
	PriorityMedium  Priority = 3
	PriorityHigh    Priority = 4
	PriorityHighest Priority = 5
)

// EnergyLevel is the cognitive/physical demand a task places on the user, 1
// (low) through 3 (high).
type EnergyLevel int

const (
	EnergyLow    EnergyLevel = 1
	EnergyMedium EnergyLevel = 2
	EnergyHigh   EnergyLevel = 3
)

var (
	ErrInvalidDuration  = errors.New("task: duration must be positive")
	ErrInvalidPriority  = errors.New("task: priority must be in [1,5]")
	ErrInvalidEnergy    = errors.New("task: energy must be in [1,3]")
	ErrInvalidWindow    = errors.New("task: deadline must be at or after earliest_start + duration")
	ErrOutOfDayRange    = errors.New("task: time value outside [0,1440]")
)

// Task is a flexible unit of work considered by the scheduling pipeline.
// It is immutable for the lifetime of a single generate() run: callers
// build a fresh Task per run rather than mutating one across runs.
type Task struct {
	shareddomain.BaseEntity

	title            string
	durationMinutes  int
	priority         Priority
	energy           EnergyLevel
	earliestStart    *int // minutes from midnight, nil if unconstrained
	deadlineMinutes  *int // minutes from midnight, nil if unconstrained
	dependencies     []uuid.UUID
	postponedCount   int
	completed        bool
}

// New validates and constructs a Task. earliestStart and deadlineMinutes are
// nil when unconstrained.
func New(id uuid.UUID, title string, durationMinutes int, priority Priority, energy EnergyLevel, earliestStart, deadlineMinutes *int, dependencies []uuid.UUID, postponedCount int, completed bool) (*Task, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if priority < PriorityLowest || priority > PriorityHighest {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPriority, priority)
	}
	if energy < EnergyLow || energy > EnergyHigh {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEnergy, energy)
	}
	if earliestStart != nil && (*earliestStart < 0 || *earliestStart > 1440) {
		return nil, fmt.Errorf("%w: earliest_start=%d", ErrOutOfDayRange, *earliestStart)
	}
	if deadlineMinutes != nil && (*deadlineMinutes < 0 || *deadlineMinutes > 1440) {
		return nil, fmt.Errorf("%w: deadline=%d", ErrOutOfDayRange, *deadlineMinutes)
	}
	if earliestStart != nil && deadlineMinutes != nil {
		if *deadlineMinutes < *earliestStart+durationMinutes {
			return nil, ErrInvalidWindow
		}
	}

	deps := make([]uuid.UUID, len(dependencies))
	copy(deps, dependencies)

	return &Task{
		BaseEntity:      shareddomain.NewBaseEntityWithID(id),
		title:           title,
		durationMinutes: durationMinutes,
		priority:        priority,
		energy:          energy,
		earliestStart:   earliestStart,
		deadlineMinutes: deadlineMinutes,
		dependencies:    deps,
		postponedCount:  postponedCount,
		completed:       completed,
	}, nil
}

func (t *Task) Title() string              { return t.title }
func (t *Task) DurationMinutes() int       { return t.durationMinutes }
func (t *Task) Priority() Priority          { return t.priority }
func (t *Task) Energy() EnergyLevel         { return t.energy }
func (t *Task) EarliestStart() *int         { return t.earliestStart }
func (t *Task) DeadlineMinutes() *int       { return t.deadlineMinutes }
func (t *Task) Dependencies() []uuid.UUID {
	deps := make([]uuid.UUID, len(t.dependencies))
	copy(deps, t.dependencies)
	return deps
}
func (t *Task) PostponedCount() int { return t.postponedCount }
func (t *Task) Completed() bool     { return t.completed }

// DetectCycle reports whether the dependency graph formed by tasks contains
// a cycle, returning the offending task id chain if so.
func DetectCycle(tasks []*Task) (cycle []uuid.UUID, found bool) {
	byID := make(map[uuid.UUID]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID()] = t
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[uuid.UUID]int, len(tasks))
	var path []uuid.UUID

	var visit func(id uuid.UUID) bool
	visit = func(id uuid.UUID) bool {
		color[id] = gray
		path = append(path, id)
		t, ok := byID[id]
		if ok {
			for _, dep := range t.dependencies {
				if _, exists := byID[dep]; !exists {
					continue // out-of-batch dependency, not this function's concern
				}
				switch color[dep] {
				case white:
					if visit(dep) {
						return true
					}
				case gray:
					path = append(path, dep)
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, t := range tasks {
		if color[t.ID()] == white {
			if visit(t.ID()) {
				return path, true
			}
		}
	}
	return nil, false
}
