package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration for the schedule-generation service.
type Config struct {
	AppEnv   string
	LogLevel string

	SolverTimeLimitSeconds int
	SolverPriorityWeight   int
	SolverEnergyWeight     int
	SolverStartPenaltyWeight int

	DefaultBreakfastTime            string
	DefaultBreakfastDurationMinutes int
	DefaultLunchTime                string
	DefaultLunchDurationMinutes     int
	DefaultDinnerTime               string
	DefaultDinnerDurationMinutes    int
	DefaultMorningRoutineMinutes    int
	DefaultEveningRoutineMinutes    int

	HealthAddr string
}

// Load loads configuration from environment variables, falling back to a
// `.env` file in the working directory if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("SCHEDGEN_ENV", "development"),
		LogLevel: getEnv("SCHEDGEN_LOG_LEVEL", "info"),

		SolverTimeLimitSeconds:   getIntEnv("SCHEDGEN_SOLVER_TIME_LIMIT", 30),
		SolverPriorityWeight:     getIntEnv("SCHEDGEN_PRIORITY_WEIGHT", 10),
		SolverEnergyWeight:       getIntEnv("SCHEDGEN_ENERGY_WEIGHT", 5),
		SolverStartPenaltyWeight: getIntEnv("SCHEDGEN_START_PENALTY_WEIGHT", 1),

		DefaultBreakfastTime:            getEnv("SCHEDGEN_BREAKFAST_TIME", "07:30"),
		DefaultBreakfastDurationMinutes: getIntEnv("SCHEDGEN_BREAKFAST_DURATION", 20),
		DefaultLunchTime:                getEnv("SCHEDGEN_LUNCH_TIME", "12:30"),
		DefaultLunchDurationMinutes:     getIntEnv("SCHEDGEN_LUNCH_DURATION", 45),
		DefaultDinnerTime:               getEnv("SCHEDGEN_DINNER_TIME", "19:00"),
		DefaultDinnerDurationMinutes:    getIntEnv("SCHEDGEN_DINNER_DURATION", 30),
		DefaultMorningRoutineMinutes:    getIntEnv("SCHEDGEN_MORNING_ROUTINE_DURATION", 30),
		DefaultEveningRoutineMinutes:    getIntEnv("SCHEDGEN_EVENING_ROUTINE_DURATION", 45),

		HealthAddr: getEnv("SCHEDGEN_HEALTH_ADDR", "0.0.0.0:8080"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
