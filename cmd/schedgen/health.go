package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/auratyme/schedgen/internal/schedule/application/solver"
	"github.com/auratyme/schedgen/pkg/config"
	"github.com/auratyme/schedgen/pkg/observability"
	"github.com/spf13/cobra"
)

func newHealthCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run a liveness smoke test against the solver and print its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := observability.NewHealthRegistry()
			registry.Register("solver", observability.SolverHealthChecker(solverProbe))

			health := registry.GetOverallHealth(cmd.Context())
			out, err := json.MarshalIndent(health, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal health: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))

			if health.Status != observability.HealthStatusHealthy {
				return fmt.Errorf("unhealthy: %s", health.Status)
			}
			return nil
		},
	}
}

// solverProbe runs a trivial single-task solve with a generous time limit
// and reports an error if the solver fails to reach OPTIMAL/FEASIBLE.
func solverProbe(ctx context.Context) error {
	eng := solver.New()
	result, err := eng.Solve(ctx, solver.Input{
		DayStart: 0,
		DayEnd:   1440,
		Tasks: []solver.Task{
			{DurationMinutes: 30, Priority: 3, Energy: 2, EarliestStart: 0, LatestEnd: 1440},
		},
		EnergyPattern: [24]float64{},
		TimeLimit:     5,
		Weights:       solver.DefaultWeights(),
	})
	if err != nil {
		return err
	}
	if result.Status == solver.NoResult {
		return fmt.Errorf("solver probe produced no result")
	}
	return nil
}
