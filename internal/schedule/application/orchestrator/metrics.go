package orchestrator

import (
	"github.com/auratyme/schedgen/internal/schedule/domain/scheduleitem"
)

// computeMetrics implements §4.6 step 10: per-type totals, derived
// productive/personal/rest rollups, and completion/balance ratios. Every
// metric is a pure function of items, per P9.
func computeMetrics(items []scheduleitem.ScheduledItem, uncompletedTaskCount, scheduledTaskCount int) map[string]any {
	totals := map[scheduleitem.Type]int{}
	for _, item := range items {
		totals[item.Type] += item.DurationMinutes()
	}

	taskMinutes := totals[scheduleitem.Task]
	breakMinutes := totals[scheduleitem.Break] + totals[scheduleitem.Free]
	fixedMinutes := totals[scheduleitem.Fixed]
	sleepMinutes := totals[scheduleitem.Sleep]
	mealMinutes := totals[scheduleitem.Meal]
	routineMinutes := totals[scheduleitem.Routine]
	activityMinutes := totals[scheduleitem.Activity]

	productiveMinutes := taskMinutes + activityMinutes
	personalMinutes := mealMinutes + routineMinutes
	restMinutes := breakMinutes + sleepMinutes

	unscheduledTasks := uncompletedTaskCount - scheduledTaskCount
	if unscheduledTasks < 0 {
		unscheduledTasks = 0
	}

	completionPct := 100.0
	if uncompletedTaskCount > 0 {
		completionPct = round1(float64(scheduledTaskCount) / float64(uncompletedTaskCount) * 100)
	}

	denominator := productiveMinutes
	if denominator < 1 {
		denominator = 1
	}
	workLifeBalance := round1(float64(personalMinutes) / float64(denominator) * 100)

	return map[string]any{
		"total_task_minutes":     taskMinutes,
		"total_break_minutes":    breakMinutes,
		"total_fixed_minutes":    fixedMinutes,
		"total_sleep_minutes":    sleepMinutes,
		"total_meal_minutes":     mealMinutes,
		"total_routine_minutes":  routineMinutes,
		"total_activity_minutes": activityMinutes,
		"total_productive_minutes": productiveMinutes,
		"total_personal_minutes":   personalMinutes,
		"total_rest_minutes":       restMinutes,
		"unscheduled_tasks":        unscheduledTasks,
		"task_completion_pct":      completionPct,
		"work_life_balance":        workLifeBalance,
		"status":                   "success",
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
