package task_test

import (
	"testing"

	"github.com/auratyme/schedgen/internal/schedule/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNew_Valid(t *testing.T) {
	tk, err := task.New(uuid.New(), "Write report", 60, task.PriorityHigh, task.EnergyMedium, nil, nil, nil, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "Write report", tk.Title())
	assert.Equal(t, 60, tk.DurationMinutes())
	assert.False(t, tk.Completed())
}

func TestNew_InvalidDuration(t *testing.T) {
	_, err := task.New(uuid.New(), "x", 0, task.PriorityHigh, task.EnergyMedium, nil, nil, nil, 0, false)
	assert.ErrorIs(t, err, task.ErrInvalidDuration)
}

func TestNew_InvalidPriority(t *testing.T) {
	_, err := task.New(uuid.New(), "x", 30, 6, task.EnergyMedium, nil, nil, nil, 0, false)
	assert.ErrorIs(t, err, task.ErrInvalidPriority)
}

func TestNew_InvalidEnergy(t *testing.T) {
	_, err := task.New(uuid.New(), "x", 30, task.PriorityHigh, 4, nil, nil, nil, 0, false)
	assert.ErrorIs(t, err, task.ErrInvalidEnergy)
}

func TestNew_DeadlineBeforeEarliestPlusDuration(t *testing.T) {
	earliest := 600
	deadline := 620
	_, err := task.New(uuid.New(), "x", 60, task.PriorityHigh, task.EnergyMedium, &earliest, &deadline, nil, 0, false)
	assert.ErrorIs(t, err, task.ErrInvalidWindow)
}

func TestNew_DeadlineExactlyAtBoundaryIsValid(t *testing.T) {
	earliest := 600
	deadline := 660
	_, err := task.New(uuid.New(), "x", 60, task.PriorityHigh, task.EnergyMedium, &earliest, &deadline, nil, 0, false)
	require.NoError(t, err)
}

func TestNew_OutOfDayRange(t *testing.T) {
	bad := 1500
	_, err := task.New(uuid.New(), "x", 30, task.PriorityHigh, task.EnergyMedium, &bad, nil, nil, 0, false)
	assert.ErrorIs(t, err, task.ErrOutOfDayRange)
}

func TestDependencies_ReturnsCopy(t *testing.T) {
	dep := uuid.New()
	tk, err := task.New(uuid.New(), "x", 30, task.PriorityHigh, task.EnergyMedium, nil, nil, []uuid.UUID{dep}, 0, false)
	require.NoError(t, err)

	deps := tk.Dependencies()
	deps[0] = uuid.New()
	assert.Equal(t, dep, tk.Dependencies()[0])
}

func TestDetectCycle_NoCycle(t *testing.T) {
	a, _ := task.New(uuid.New(), "a", 30, task.PriorityHigh, task.EnergyMedium, nil, nil, nil, 0, false)
	b, _ := task.New(uuid.New(), "b", 30, task.PriorityHigh, task.EnergyMedium, nil, nil, []uuid.UUID{a.ID()}, 0, false)

	_, found := task.DetectCycle([]*task.Task{a, b})
	assert.False(t, found)
}

func TestDetectCycle_DirectCycle(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()
	a, _ := task.New(idA, "a", 30, task.PriorityHigh, task.EnergyMedium, nil, nil, []uuid.UUID{idB}, 0, false)
	b, _ := task.New(idB, "b", 30, task.PriorityHigh, task.EnergyMedium, nil, nil, []uuid.UUID{idA}, 0, false)

	_, found := task.DetectCycle([]*task.Task{a, b})
	assert.True(t, found)
}

func TestDetectCycle_IgnoresOutOfBatchDependency(t *testing.T) {
	unknownDep := uuid.New()
	a, _ := task.New(uuid.New(), "a", 30, task.PriorityHigh, task.EnergyMedium, nil, nil, []uuid.UUID{unknownDep}, 0, false)

	_, found := task.DetectCycle([]*task.Task{a})
	assert.False(t, found)
}
