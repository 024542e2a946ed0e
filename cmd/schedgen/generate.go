package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/auratyme/schedgen/internal/schedule/application/orchestrator"
	"github.com/auratyme/schedgen/internal/schedule/application/solver"
	"github.com/auratyme/schedgen/internal/schedule/domain/scheduleitem"
	"github.com/auratyme/schedgen/pkg/config"
	"github.com/auratyme/schedgen/pkg/observability"
	"github.com/spf13/cobra"
)

func newGenerateCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var inputPath string
	var legacy bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule from a ScheduleInputData JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				r = f
			}

			var input orchestrator.Input
			if err := json.NewDecoder(r).Decode(&input); err != nil {
				return fmt.Errorf("decode input: %w", err)
			}

			orch := orchestrator.New(orchestratorConfigFrom(cfg))
			metrics := observability.NewInMemoryMetrics()

			schedule, err := observability.TimeOperationResult(cmd.Context(), logger, metrics, "generate",
				func() (scheduleitem.GeneratedSchedule, error) {
					return orch.Generate(cmd.Context(), input)
				})
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			if timings := metrics.GetTimings(observability.MetricGenerateDuration, observability.T("operation", "generate")); len(timings) > 0 {
				logger.Debug("generate timing", "duration_ms", timings[0].Milliseconds())
			}

			for _, w := range schedule.Warnings {
				logger.Warn("schedule warning", "warning", w)
			}

			if legacy {
				out, err := schedule.LegacyTaskView()
				if err != nil {
					return fmt.Errorf("render legacy view: %w", err)
				}
				_, err = os.Stdout.Write(append(out, '\n'))
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(schedule)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to ScheduleInputData JSON (defaults to stdin)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "emit the legacy {tasks:[{start_time,end_time,task}]} projection")
	return cmd
}

// orchestratorConfigFrom maps the ambient, operator-tunable Config onto the
// orchestrator's own defaults, overriding only the solver weights/time limit
// and default meal/routine timings an operator is expected to tune.
func orchestratorConfigFrom(cfg *config.Config) orchestrator.Config {
	oc := orchestrator.DefaultConfig()

	oc.SolverTimeLimitSeconds = cfg.SolverTimeLimitSeconds
	oc.SolverWeights = solver.Weights{
		Priority:     cfg.SolverPriorityWeight,
		Energy:       cfg.SolverEnergyWeight,
		StartPenalty: cfg.SolverStartPenaltyWeight,
	}

	oc.DefaultMeals = orchestrator.MealPreferences{
		BreakfastTime:            cfg.DefaultBreakfastTime,
		BreakfastDurationMinutes: cfg.DefaultBreakfastDurationMinutes,
		LunchTime:                cfg.DefaultLunchTime,
		LunchDurationMinutes:     cfg.DefaultLunchDurationMinutes,
		DinnerTime:               cfg.DefaultDinnerTime,
		DinnerDurationMinutes:    cfg.DefaultDinnerDurationMinutes,
	}
	oc.DefaultRoutines = orchestrator.RoutinePreferences{
		MorningDurationMinutes: cfg.DefaultMorningRoutineMinutes,
		EveningDurationMinutes: cfg.DefaultEveningRoutineMinutes,
	}

	return oc
}
