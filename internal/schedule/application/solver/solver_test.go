package solver_test

import (
	"context"
	"testing"

	"github.com/auratyme/schedgen/internal/schedule/application/solver"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralEnergyPattern() [24]float64 {
	var p [24]float64
	for i := range p {
		p[i] = 0.5
	}
	return p
}

func TestSolve_SingleTaskNoConflicts(t *testing.T) {
	s := solver.New()
	taskID := uuid.New()

	result, err := s.Solve(context.Background(), solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{ID: taskID, DurationMinutes: 60, Priority: 3, Energy: 2, EarliestStart: 540, LatestEnd: 1020},
		},
		EnergyPattern: neutralEnergyPattern(),
		Weights:       solver.DefaultWeights(),
	})

	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, taskID, result.Tasks[0].TaskID)
	assert.GreaterOrEqual(t, result.Tasks[0].StartMinutes, 540)
	assert.Empty(t, result.Dropped)
}

func TestSolve_DropsTaskWithEmptyDomain(t *testing.T) {
	s := solver.New()
	taskID := uuid.New()

	result, err := s.Solve(context.Background(), solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{ID: taskID, DurationMinutes: 120, Priority: 3, Energy: 2, EarliestStart: 600, LatestEnd: 650},
		},
		EnergyPattern: neutralEnergyPattern(),
		Weights:       solver.DefaultWeights(),
	})

	require.NoError(t, err)
	assert.Empty(t, result.Tasks)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, taskID, result.Dropped[0].TaskID)
}

func TestSolve_RespectsFixedIntervals(t *testing.T) {
	s := solver.New()
	taskID := uuid.New()

	result, err := s.Solve(context.Background(), solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{ID: taskID, DurationMinutes: 60, Priority: 3, Energy: 2, EarliestStart: 540, LatestEnd: 720},
		},
		FixedIntervals: []solver.FixedInterval{{StartMinutes: 540, EndMinutes: 660}},
		EnergyPattern:  neutralEnergyPattern(),
		Weights:        solver.DefaultWeights(),
	})

	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.GreaterOrEqual(t, result.Tasks[0].StartMinutes, 660)
}

func TestSolve_DependencyOrdering(t *testing.T) {
	s := solver.New()
	// Pinned so idB sorts lexicographically before idA: with equal
	// priority/energy, prepareTasks' tie-break would otherwise place the
	// dependent (B) at an earlier taskIndex than its dependency (A), which
	// the forward-only branch-and-bound search can never satisfy unless
	// prepareTasks first linearizes dependencies before dependents.
	idA := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	idB := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	result, err := s.Solve(context.Background(), solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{ID: idA, DurationMinutes: 60, Priority: 3, Energy: 2, EarliestStart: 540, LatestEnd: 900},
			{ID: idB, DurationMinutes: 60, Priority: 3, Energy: 2, EarliestStart: 540, LatestEnd: 900, Dependencies: []uuid.UUID{idA}},
		},
		EnergyPattern: neutralEnergyPattern(),
		Weights:       solver.DefaultWeights(),
	})

	require.NoError(t, err)
	require.Len(t, result.Tasks, 2)

	var startA, endA, startB int
	for _, ts := range result.Tasks {
		if ts.TaskID == idA {
			startA, endA = ts.StartMinutes, ts.EndMinutes
		}
		if ts.TaskID == idB {
			startB = ts.StartMinutes
		}
	}
	assert.GreaterOrEqual(t, startB, endA)
	_ = startA
}

func TestSolve_NoOverlapBetweenScheduledTasks(t *testing.T) {
	s := solver.New()
	idA := uuid.New()
	idB := uuid.New()

	result, err := s.Solve(context.Background(), solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{ID: idA, DurationMinutes: 90, Priority: 5, Energy: 3, EarliestStart: 540, LatestEnd: 780},
			{ID: idB, DurationMinutes: 90, Priority: 4, Energy: 2, EarliestStart: 540, LatestEnd: 780},
		},
		EnergyPattern: neutralEnergyPattern(),
		Weights:       solver.DefaultWeights(),
	})

	require.NoError(t, err)
	if len(result.Tasks) == 2 {
		a, b := result.Tasks[0], result.Tasks[1]
		assert.True(t, a.EndMinutes <= b.StartMinutes || b.EndMinutes <= a.StartMinutes)
	}
}

func TestSolve_Determinism(t *testing.T) {
	buildInput := func() solver.Input {
		return solver.Input{
			DayStart: 0,
			DayEnd:   1440,
			Tasks: []solver.Task{
				{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), DurationMinutes: 60, Priority: 3, Energy: 2, EarliestStart: 540, LatestEnd: 900},
				{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), DurationMinutes: 30, Priority: 3, Energy: 1, EarliestStart: 540, LatestEnd: 900},
			},
			EnergyPattern: neutralEnergyPattern(),
			Weights:       solver.DefaultWeights(),
		}
	}

	s := solver.New()
	result1, err1 := s.Solve(context.Background(), buildInput())
	result2, err2 := s.Solve(context.Background(), buildInput())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, result1.Tasks, result2.Tasks)
	assert.Equal(t, result1.Objective, result2.Objective)
}

func TestSolve_NoTasksReturnsOptimalEmpty(t *testing.T) {
	s := solver.New()

	result, err := s.Solve(context.Background(), solver.Input{
		DayStart:      0,
		DayEnd:        1440,
		EnergyPattern: neutralEnergyPattern(),
		Weights:       solver.DefaultWeights(),
	})

	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, result.Status)
	assert.Empty(t, result.Tasks)
}

func TestSolve_ContextCancellationDoesNotPanic(t *testing.T) {
	s := solver.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Solve(ctx, solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{ID: uuid.New(), DurationMinutes: 60, Priority: 3, Energy: 2, EarliestStart: 540, LatestEnd: 900},
		},
		EnergyPattern: neutralEnergyPattern(),
		Weights:       solver.DefaultWeights(),
	})
	// A cancelled context with at least one task yields no feasible
	// assignment found before cancellation; err may or may not be set
	// depending on whether the zero-node fallback counts as "found none",
	// but the call must not panic or hang.
	_ = err
}
