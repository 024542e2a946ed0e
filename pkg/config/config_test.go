package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars() {
	envVars := []string{
		"SCHEDGEN_ENV", "SCHEDGEN_LOG_LEVEL",
		"SCHEDGEN_SOLVER_TIME_LIMIT", "SCHEDGEN_PRIORITY_WEIGHT",
		"SCHEDGEN_ENERGY_WEIGHT", "SCHEDGEN_START_PENALTY_WEIGHT",
		"SCHEDGEN_BREAKFAST_TIME", "SCHEDGEN_BREAKFAST_DURATION",
		"SCHEDGEN_LUNCH_TIME", "SCHEDGEN_LUNCH_DURATION",
		"SCHEDGEN_DINNER_TIME", "SCHEDGEN_DINNER_DURATION",
		"SCHEDGEN_MORNING_ROUTINE_DURATION", "SCHEDGEN_EVENING_ROUTINE_DURATION",
		"SCHEDGEN_HEALTH_ADDR",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, 30, cfg.SolverTimeLimitSeconds)
	assert.Equal(t, 10, cfg.SolverPriorityWeight)
	assert.Equal(t, 5, cfg.SolverEnergyWeight)
	assert.Equal(t, 1, cfg.SolverStartPenaltyWeight)

	assert.Equal(t, "07:30", cfg.DefaultBreakfastTime)
	assert.Equal(t, 20, cfg.DefaultBreakfastDurationMinutes)
	assert.Equal(t, "12:30", cfg.DefaultLunchTime)
	assert.Equal(t, 45, cfg.DefaultLunchDurationMinutes)
	assert.Equal(t, "19:00", cfg.DefaultDinnerTime)
	assert.Equal(t, 30, cfg.DefaultDinnerDurationMinutes)
	assert.Equal(t, 30, cfg.DefaultMorningRoutineMinutes)
	assert.Equal(t, 45, cfg.DefaultEveningRoutineMinutes)

	assert.Equal(t, "0.0.0.0:8080", cfg.HealthAddr)
}

func TestLoad_WithCustomEnvVars(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("SCHEDGEN_ENV", "production")
	os.Setenv("SCHEDGEN_LOG_LEVEL", "debug")
	os.Setenv("SCHEDGEN_SOLVER_TIME_LIMIT", "60")
	os.Setenv("SCHEDGEN_PRIORITY_WEIGHT", "20")
	os.Setenv("SCHEDGEN_ENERGY_WEIGHT", "8")
	os.Setenv("SCHEDGEN_START_PENALTY_WEIGHT", "2")
	os.Setenv("SCHEDGEN_BREAKFAST_TIME", "06:45")
	os.Setenv("SCHEDGEN_BREAKFAST_DURATION", "15")
	os.Setenv("SCHEDGEN_LUNCH_TIME", "13:00")
	os.Setenv("SCHEDGEN_LUNCH_DURATION", "30")
	os.Setenv("SCHEDGEN_DINNER_TIME", "18:30")
	os.Setenv("SCHEDGEN_DINNER_DURATION", "40")
	os.Setenv("SCHEDGEN_MORNING_ROUTINE_DURATION", "20")
	os.Setenv("SCHEDGEN_EVENING_ROUTINE_DURATION", "60")
	os.Setenv("SCHEDGEN_HEALTH_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, 60, cfg.SolverTimeLimitSeconds)
	assert.Equal(t, 20, cfg.SolverPriorityWeight)
	assert.Equal(t, 8, cfg.SolverEnergyWeight)
	assert.Equal(t, 2, cfg.SolverStartPenaltyWeight)

	assert.Equal(t, "06:45", cfg.DefaultBreakfastTime)
	assert.Equal(t, 15, cfg.DefaultBreakfastDurationMinutes)
	assert.Equal(t, "13:00", cfg.DefaultLunchTime)
	assert.Equal(t, 30, cfg.DefaultLunchDurationMinutes)
	assert.Equal(t, "18:30", cfg.DefaultDinnerTime)
	assert.Equal(t, 40, cfg.DefaultDinnerDurationMinutes)
	assert.Equal(t, 20, cfg.DefaultMorningRoutineMinutes)
	assert.Equal(t, 60, cfg.DefaultEveningRoutineMinutes)

	assert.Equal(t, "127.0.0.1:9090", cfg.HealthAddr)
}

func TestLoad_InvalidIntEnvFallsBackToDefault(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("SCHEDGEN_SOLVER_TIME_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.SolverTimeLimitSeconds)
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
