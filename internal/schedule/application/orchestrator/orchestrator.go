package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/auratyme/schedgen/internal/schedule/application/prioritizer"
	"github.com/auratyme/schedgen/internal/schedule/application/solver"
	"github.com/auratyme/schedgen/internal/schedule/domain/chronotype"
	"github.com/auratyme/schedgen/internal/schedule/domain/fixedevent"
	"github.com/auratyme/schedgen/internal/schedule/domain/scheduleitem"
	"github.com/auratyme/schedgen/internal/schedule/domain/sleep"
	"github.com/auratyme/schedgen/internal/schedule/domain/task"
	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
	"github.com/google/uuid"
)

// ErrNilDependency is returned for programmer errors only — e.g. a nil
// Orchestrator field — never for malformed caller data, which is absorbed
// into the returned schedule's warnings per the error-handling design.
var ErrNilDependency = errors.New("orchestrator: required dependency is nil")

// Config tunes the orchestrator's defaults.
type Config struct {
	ChronotypeConfig chronotype.Config
	SleepConfig      sleep.Config
	PrioritizerConfig prioritizer.Config
	SolverWeights    solver.Weights
	SolverTimeLimitSeconds int
	DefaultMeals     MealPreferences
	DefaultRoutines  RoutinePreferences

	// Refiner is an optional external collaborator; nil by default (see
	// refiner.go and DESIGN.md).
	Refiner Refiner
}

// DefaultConfig wires every sub-model's own defaults together, plus the
// canonical 07:30/12:30/19:00 meal times and 30m/45m routine durations.
func DefaultConfig() Config {
	return Config{
		ChronotypeConfig: chronotype.DefaultConfig(),
		SleepConfig:      sleep.DefaultConfig(),
		PrioritizerConfig: prioritizer.DefaultConfig(),
		SolverWeights:    solver.DefaultWeights(),
		SolverTimeLimitSeconds: 30,
		DefaultMeals: MealPreferences{
			BreakfastTime: "07:30", BreakfastDurationMinutes: 20,
			LunchTime: "12:30", LunchDurationMinutes: 45,
			DinnerTime: "19:00", DinnerDurationMinutes: 30,
		},
		DefaultRoutines: RoutinePreferences{MorningDurationMinutes: 30, EveningDurationMinutes: 45},
	}
}

// Orchestrator composes the sub-models into the generate() pipeline. It
// holds no mutable state across calls: every field is a stateless,
// configuration-only collaborator, so concurrent calls are independent.
type Orchestrator struct {
	cfg             Config
	chronotypeModel *chronotype.Analyzer
	sleepModel      *sleep.Model
	prioritizerEngine *prioritizer.Engine
	solverEngine    *solver.Solver
}

// New builds an Orchestrator from Config.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		cfg:             cfg,
		chronotypeModel: chronotype.NewAnalyzer(cfg.ChronotypeConfig),
		sleepModel:      sleep.NewModel(cfg.SleepConfig),
		prioritizerEngine: prioritizer.NewEngine(cfg.PrioritizerConfig),
		solverEngine:    solver.New(),
	}
}

// Generate runs the full pipeline for one day. Per §7's error-handling
// design, the returned error is reserved for programmer errors; every
// data- or engine-shaped failure is absorbed into the returned schedule's
// Warnings and Metrics["status"].
func (o *Orchestrator) Generate(ctx context.Context, input Input) (scheduleitem.GeneratedSchedule, error) {
	if o.chronotypeModel == nil || o.sleepModel == nil || o.prioritizerEngine == nil || o.solverEngine == nil {
		return scheduleitem.GeneratedSchedule{}, ErrNilDependency
	}

	var warnings []string

	// Step 1: Profile.
	category := chronotype.Unknown
	source := "default"
	if input.UserProfile.MEQScore > 0 {
		category = o.chronotypeModel.FromMEQ(input.UserProfile.MEQScore)
		source = "meq_score"
	}
	profile := o.chronotypeModel.CreateProfile(input.UserID, category, source)

	age := input.UserProfile.Age
	if age <= 0 {
		age = 30
		warnings = append(warnings, "user_profile.age missing, defaulting to 30")
	}

	// Step 2: Sleep.
	targetWake := -1
	if input.Preferences.PreferredWakeTime != "" {
		wakeMinutes, err := timeutil.ParseHHMM(input.Preferences.PreferredWakeTime)
		if err != nil {
			return o.emptySchedule(input, fmt.Sprintf("invalid preferred_wake_time: %v", err)), nil
		}
		targetWake = wakeMinutes
	}

	// An omitted chronotype_scale is passed as 0, which sleep.Model reads as
	// "no scale given" and answers with the category wake delta.
	chronotypeScale := 0.0
	if input.Preferences.ChronotypeScale != nil {
		chronotypeScale = *input.Preferences.ChronotypeScale
	}
	sleepWindow, sleepWarnings, err := o.sleepModel.ComputeWindow(age, profile.Category, resolveScale(input.Preferences.SleepNeedScale), chronotypeScale, targetWake)
	if err != nil {
		return o.emptySchedule(input, fmt.Sprintf("invalid age: %v", err)), nil
	}
	warnings = append(warnings, sleepWarnings...)

	// Step 3: FixedEvents, including sleep injection.
	fixedEvents, fixedWarnings, err := o.buildFixedEvents(input.FixedEvents, sleepWindow)
	if err != nil {
		return o.emptySchedule(input, err.Error()), nil
	}
	warnings = append(warnings, fixedWarnings...)

	// Step 4: SolverInput.
	tasks, taskWarnings, err := o.buildTasks(input.Tasks)
	if err != nil {
		return o.emptySchedule(input, err.Error()), nil
	}
	warnings = append(warnings, taskWarnings...)

	energyPattern := prioritizer.DeriveEnergyPattern(profile.Category)
	solverTasks, solverWarnings := o.buildSolverTasks(tasks, energyPattern)
	warnings = append(warnings, solverWarnings...)

	fixedIntervals := make([]solver.FixedInterval, 0, len(fixedEvents))
	for _, fe := range fixedEvents {
		fixedIntervals = append(fixedIntervals, solver.FixedInterval{StartMinutes: fe.StartMinutes, EndMinutes: fe.EndMinutes})
	}

	// Step 5: Solve.
	result, solveErr := o.solverEngine.Solve(ctx, solver.Input{
		DayStart:       0,
		DayEnd:         timeutil.MinutesPerDay,
		Tasks:          solverTasks,
		FixedIntervals: fixedIntervals,
		EnergyPattern:  energyPattern,
		TimeLimit:      o.cfg.SolverTimeLimitSeconds,
		Weights:        o.cfg.SolverWeights,
	})
	if solveErr != nil || ctx.Err() != nil {
		reason := "no feasible schedule found"
		if ctx.Err() != nil {
			reason = "timeout: " + ctx.Err().Error()
		}
		return o.emptySchedule(input, reason), nil
	}
	for _, d := range result.Dropped {
		warnings = append(warnings, fmt.Sprintf("task %s dropped: %s", d.TaskID, d.Reason))
	}

	taskByID := make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID()] = t
	}

	// Step 6: Compose skeleton.
	skeleton := buildSkeleton(fixedEvents, result.Tasks, taskByID)

	// Steps 7-9: GapFiller, with an optional Refiner pass (§6) that may
	// reorganize fillers but must preserve the skeleton exactly.
	items, gapWarnings := fillGaps(skeleton, sleepWindow, input.Preferences, o.cfg, weekdayOf(input.TargetDate))
	warnings = append(warnings, gapWarnings...)
	items = refineOrFallBack(ctx, o.cfg.Refiner, skeleton, items)

	if !scheduleitem.CoversFullDay(items) {
		// Internal invariant violation: fatal per §7, never surfaced as a
		// valid schedule.
		return o.emptySchedule(input, "internal: composed schedule failed to cover the full day"), nil
	}

	// Step 10: Metrics.
	uncompletedCount := 0
	for _, t := range tasks {
		if !t.Completed() {
			uncompletedCount++
		}
	}
	metrics := computeMetrics(items, uncompletedCount, len(result.Tasks))

	return scheduleitem.GeneratedSchedule{
		ScheduleID: uuid.New(),
		UserID:     input.UserID,
		TargetDate: input.TargetDate,
		Items:      items,
		Metrics:    metrics,
		Warnings:   warnings,
	}, nil
}

func (o *Orchestrator) emptySchedule(input Input, reason string) scheduleitem.GeneratedSchedule {
	return scheduleitem.GeneratedSchedule{
		ScheduleID: uuid.New(),
		UserID:     input.UserID,
		TargetDate: input.TargetDate,
		Items:      nil,
		Metrics:    map[string]any{"status": "failed"},
		Warnings:   []string{reason},
	}
}

func weekdayOf(t time.Time) time.Weekday {
	if t.IsZero() {
		return time.Monday
	}
	return t.Weekday()
}

// buildFixedEvents parses caller-supplied events and injects the sleep
// window as one or two FixedEvents, per §4.6 step 3.
func (o *Orchestrator) buildFixedEvents(inputs []FixedEventInput, window sleep.Window) ([]fixedevent.FixedEvent, []string, error) {
	var events []fixedevent.FixedEvent
	var warnings []string

	for _, in := range inputs {
		start, err := timeutil.ParseHHMM(in.StartTime)
		if err != nil {
			return nil, nil, fmt.Errorf("fixed_event %s: invalid start_time: %w", in.ID, err)
		}
		end, err := timeutil.ParseHHMM(in.EndTime)
		if err != nil {
			return nil, nil, fmt.Errorf("fixed_event %s: invalid end_time: %w", in.ID, err)
		}
		normalized, err := fixedevent.NormalizeMidnightCrossing(in.ID, in.Name, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("fixed_event %s: %w", in.ID, err)
		}
		events = append(events, normalized...)
	}

	if window.WakeMinutes > window.BedtimeMinutes {
		sleepEvent, err := fixedevent.New("sleep", "Sleep", window.BedtimeMinutes, window.WakeMinutes)
		if err != nil {
			return nil, nil, fmt.Errorf("sleep window: %w", err)
		}
		events = append(events, sleepEvent)
	} else {
		prev, err := fixedevent.New("sleep_prev", "Sleep", window.BedtimeMinutes, timeutil.MinutesPerDay)
		if err != nil {
			return nil, nil, fmt.Errorf("sleep window: %w", err)
		}
		events = append(events, prev)
		if window.WakeMinutes > 0 {
			next, err := fixedevent.New("sleep_next", "Sleep", 0, window.WakeMinutes)
			if err != nil {
				return nil, nil, fmt.Errorf("sleep window: %w", err)
			}
			events = append(events, next)
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].StartMinutes < events[j].StartMinutes })
	return events, warnings, nil
}

// buildTasks validates and constructs domain Tasks from the external input
// shape, parsing durations and HH:MM timing fields via TimeUtils.
func (o *Orchestrator) buildTasks(inputs []TaskInput) ([]*task.Task, []string, error) {
	var warnings []string
	tasks := make([]*task.Task, 0, len(inputs))

	for _, in := range inputs {
		durationMinutes, durationWarning, err := timeutil.ParseDuration(in.Duration)
		if err != nil {
			return nil, nil, fmt.Errorf("task %s: invalid duration: %w", in.ID, err)
		}
		if durationWarning != "" {
			warnings = append(warnings, fmt.Sprintf("task %s: %s", in.ID, durationWarning))
		}

		var earliestStart *int
		if in.EarliestStart != "" {
			v, err := timeutil.ParseHHMM(in.EarliestStart)
			if err != nil {
				return nil, nil, fmt.Errorf("task %s: invalid earliest_start: %w", in.ID, err)
			}
			earliestStart = &v
		}

		var deadline *int
		if in.DeadlineMinutes != "" {
			v, err := timeutil.ParseHHMM(in.DeadlineMinutes)
			if err != nil {
				return nil, nil, fmt.Errorf("task %s: invalid deadline: %w", in.ID, err)
			}
			deadline = &v
		}

		t, err := task.New(in.ID, in.Title, durationMinutes, task.Priority(in.Priority), task.EnergyLevel(in.Energy), earliestStart, deadline, in.Dependencies, in.PostponedCount, in.Completed)
		if err != nil {
			return nil, nil, fmt.Errorf("task %s: %w", in.ID, err)
		}
		if !t.Completed() {
			tasks = append(tasks, t)
		}
	}

	if _, cyclic := task.DetectCycle(tasks); cyclic {
		return nil, nil, errors.New("task dependency graph contains a cycle")
	}

	return tasks, warnings, nil
}

// buildSolverTasks converts domain Tasks into solver.Task, dropping
// dependencies that reference tasks outside the batch with a warning.
func (o *Orchestrator) buildSolverTasks(tasks []*task.Task, _ prioritizer.EnergyPattern) ([]solver.Task, []string) {
	byID := make(map[uuid.UUID]bool, len(tasks))
	for _, t := range tasks {
		byID[t.ID()] = true
	}

	var warnings []string
	solverTasks := make([]solver.Task, 0, len(tasks))
	for _, t := range tasks {
		earliest := 0
		if es := t.EarliestStart(); es != nil {
			earliest = *es
		}
		latest := 0
		if dl := t.DeadlineMinutes(); dl != nil {
			latest = *dl
		}

		var deps []uuid.UUID
		for _, dep := range t.Dependencies() {
			if byID[dep] {
				deps = append(deps, dep)
			} else {
				warnings = append(warnings, fmt.Sprintf("task %s: dependency %s is outside this batch, ignored", t.ID(), dep))
			}
		}

		solverTasks = append(solverTasks, solver.Task{
			ID:              t.ID(),
			DurationMinutes: t.DurationMinutes(),
			Priority:        int(t.Priority()),
			Energy:          int(t.Energy()),
			EarliestStart:   earliest,
			LatestEnd:       latest,
			Dependencies:    deps,
		})
	}
	return solverTasks, warnings
}

// skeletonItem is one placed block before gap filling, carrying its
// overlap-resolution priority per §4.6 step 8.
type skeletonItem struct {
	item     scheduleitem.ScheduledItem
	priority int
}

var priorityOrder = map[scheduleitem.Type]int{
	scheduleitem.Fixed: 5,
	scheduleitem.Task:  4,
	scheduleitem.Meal:  3,
	scheduleitem.Routine: 2,
	scheduleitem.Activity: 1,
	scheduleitem.Break: 0,
}

func buildSkeleton(fixedEvents []fixedevent.FixedEvent, scheduledTasks []solver.ScheduledTask, taskByID map[uuid.UUID]*task.Task) []skeletonItem {
	skeleton := make([]skeletonItem, 0, len(fixedEvents)+len(scheduledTasks))

	for _, fe := range fixedEvents {
		itemType := scheduleitem.Fixed
		if fe.ID == "sleep" || fe.ID == "sleep_prev" || fe.ID == "sleep_next" {
			itemType = scheduleitem.Sleep
		}
		skeleton = append(skeleton, skeletonItem{
			item: scheduleitem.ScheduledItem{
				Type: itemType, Name: fe.Name, StartMinutes: fe.StartMinutes, EndMinutes: fe.EndMinutes,
			},
			priority: priorityOrder[scheduleitem.Fixed],
		})
	}

	for _, st := range scheduledTasks {
		t := taskByID[st.TaskID]
		name := "Task"
		if t != nil {
			name = t.Title()
		}
		taskID := st.TaskID
		skeleton = append(skeleton, skeletonItem{
			item: scheduleitem.ScheduledItem{
				Type: scheduleitem.Task, Name: name, StartMinutes: st.StartMinutes, EndMinutes: st.EndMinutes, TaskID: &taskID,
			},
			priority: priorityOrder[scheduleitem.Task],
		})
	}

	sort.Slice(skeleton, func(i, j int) bool { return skeleton[i].item.StartMinutes < skeleton[j].item.StartMinutes })
	return skeleton
}
