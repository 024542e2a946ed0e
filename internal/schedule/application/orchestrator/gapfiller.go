package orchestrator

import (
	"fmt"
	"sort"
	"time"

	"github.com/auratyme/schedgen/internal/schedule/domain/scheduleitem"
	"github.com/auratyme/schedgen/internal/schedule/domain/sleep"
	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
)

// timeWindow is a [Start,End) minutes-from-midnight interval used for
// preferred-time-of-day matching.
type timeWindow struct{ start, end int }

var preferredTimeWindows = map[string]timeWindow{
	"morning":   {6 * 60, 12 * 60},
	"afternoon": {12 * 60, 17 * 60},
	"evening":   {17 * 60, 21 * 60},
}

// fillGaps implements §4.6 steps 6-9: it merges meal/routine/activity
// candidates into the skeleton, dropping any that collide with a
// higher-priority item, then bands every remaining sub-gap as a BREAK by
// duration so the result tiles [0,1440] exactly.
func fillGaps(skeleton []skeletonItem, window sleep.Window, prefs Preferences, cfg Config, weekday time.Weekday) ([]scheduleitem.ScheduledItem, []string) {
	var warnings []string

	candidates := buildMealCandidates(prefs.Meals, cfg.DefaultMeals)
	candidates = append(candidates, buildRoutineCandidates(window, prefs.Routines, cfg.DefaultRoutines)...)
	candidates = append(candidates, buildActivityCandidates(prefs.ActivityGoals, window, weekday)...)

	// Higher priority first so ties resolve toward FIXED>TASK>MEAL>ROUTINE>
	// ACTIVITY>BREAK, though at this stage only MEAL/ROUTINE/ACTIVITY
	// candidates compete with each other and with the skeleton.
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].priority > candidates[j].priority })

	accepted := make([]skeletonItem, len(skeleton))
	copy(accepted, skeleton)

	for _, c := range candidates {
		if overlapsAnyItem(c.item, accepted) {
			continue
		}
		accepted = append(accepted, c)
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].item.StartMinutes < accepted[j].item.StartMinutes })

	items := make([]scheduleitem.ScheduledItem, 0, len(accepted)*2)
	cursor := 0
	for _, a := range accepted {
		if a.item.StartMinutes > cursor {
			items = append(items, breakItemsFor(cursor, a.item.StartMinutes)...)
		}
		items = append(items, a.item)
		if a.item.EndMinutes > cursor {
			cursor = a.item.EndMinutes
		}
	}
	if cursor < timeutil.MinutesPerDay {
		items = append(items, breakItemsFor(cursor, timeutil.MinutesPerDay)...)
	}

	return items, warnings
}

func overlapsAnyItem(item scheduleitem.ScheduledItem, existing []skeletonItem) bool {
	for _, e := range existing {
		if item.StartMinutes < e.item.EndMinutes && e.item.StartMinutes < item.EndMinutes {
			return true
		}
	}
	return false
}

// breakLabel bands a sub-gap's duration into the BREAK/FREE/RELAXATION
// naming from §4.6 step 7/9.
func breakLabel(durationMinutes int) string {
	switch {
	case durationMinutes >= 120:
		return "Free Time"
	case durationMinutes >= 45:
		return "Relaxation"
	case durationMinutes >= 15:
		return "Short Break"
	default:
		return "Quick Break"
	}
}

func breakItemsFor(start, end int) []scheduleitem.ScheduledItem {
	itemType := scheduleitem.Break
	name := breakLabel(end - start)
	if name == "Free Time" {
		itemType = scheduleitem.Free
	}
	return []scheduleitem.ScheduledItem{{Type: itemType, Name: name, StartMinutes: start, EndMinutes: end}}
}

func buildMealCandidates(prefs, defaults MealPreferences) []skeletonItem {
	merged := mergeMealPreferences(prefs, defaults)
	var candidates []skeletonItem

	add := func(name, startStr string, duration int) {
		if startStr == "" || duration <= 0 {
			return
		}
		start, err := timeutil.ParseHHMM(startStr)
		if err != nil {
			return
		}
		end := start + duration
		if end > timeutil.MinutesPerDay {
			end = timeutil.MinutesPerDay
		}
		candidates = append(candidates, skeletonItem{
			item:     scheduleitem.ScheduledItem{Type: scheduleitem.Meal, Name: name, StartMinutes: start, EndMinutes: end},
			priority: priorityOrder[scheduleitem.Meal],
		})
	}

	add("Breakfast", merged.BreakfastTime, merged.BreakfastDurationMinutes)
	add("Lunch", merged.LunchTime, merged.LunchDurationMinutes)
	add("Dinner", merged.DinnerTime, merged.DinnerDurationMinutes)
	return candidates
}

func mergeMealPreferences(prefs, defaults MealPreferences) MealPreferences {
	merged := defaults
	if prefs.BreakfastTime != "" {
		merged.BreakfastTime = prefs.BreakfastTime
	}
	if prefs.BreakfastDurationMinutes > 0 {
		merged.BreakfastDurationMinutes = prefs.BreakfastDurationMinutes
	}
	if prefs.LunchTime != "" {
		merged.LunchTime = prefs.LunchTime
	}
	if prefs.LunchDurationMinutes > 0 {
		merged.LunchDurationMinutes = prefs.LunchDurationMinutes
	}
	if prefs.DinnerTime != "" {
		merged.DinnerTime = prefs.DinnerTime
	}
	if prefs.DinnerDurationMinutes > 0 {
		merged.DinnerDurationMinutes = prefs.DinnerDurationMinutes
	}
	return merged
}

func buildRoutineCandidates(window sleep.Window, prefs, defaults RoutinePreferences) []skeletonItem {
	morningDuration := defaults.MorningDurationMinutes
	if prefs.MorningDurationMinutes > 0 {
		morningDuration = prefs.MorningDurationMinutes
	}
	eveningDuration := defaults.EveningDurationMinutes
	if prefs.EveningDurationMinutes > 0 {
		eveningDuration = prefs.EveningDurationMinutes
	}

	var candidates []skeletonItem

	morningEnd := window.WakeMinutes + morningDuration
	if morningEnd <= timeutil.MinutesPerDay {
		candidates = append(candidates, skeletonItem{
			item:     scheduleitem.ScheduledItem{Type: scheduleitem.Routine, Name: "Morning Routine", StartMinutes: window.WakeMinutes, EndMinutes: morningEnd},
			priority: priorityOrder[scheduleitem.Routine],
		})
	}

	eveningStart := window.BedtimeMinutes - eveningDuration
	if eveningStart >= 0 {
		candidates = append(candidates, skeletonItem{
			item:     scheduleitem.ScheduledItem{Type: scheduleitem.Routine, Name: "Evening Routine", StartMinutes: eveningStart, EndMinutes: window.BedtimeMinutes},
			priority: priorityOrder[scheduleitem.Routine],
		})
	}

	return candidates
}

func buildActivityCandidates(goals []ActivityGoalInput, window sleep.Window, weekday time.Weekday) []skeletonItem {
	var candidates []skeletonItem

	for i, g := range goals {
		if !frequencyDue(g.Frequency, weekday) || g.DurationMinutes <= 0 {
			continue
		}

		var win timeWindow
		if g.PreferredTime == "before_sleep" {
			win = timeWindow{start: maxInt(0, window.BedtimeMinutes-120), end: window.BedtimeMinutes}
		} else if w, ok := preferredTimeWindows[g.PreferredTime]; ok {
			win = w
		} else {
			win = timeWindow{start: 9 * 60, end: 17 * 60}
		}

		start := win.start
		end := start + g.DurationMinutes
		if end > win.end {
			end = win.end
			start = end - g.DurationMinutes
		}
		if start < 0 || end > timeutil.MinutesPerDay || start >= end {
			continue
		}

		name := g.Name
		if name == "" {
			name = fmt.Sprintf("Activity %d", i+1)
		}
		candidates = append(candidates, skeletonItem{
			item:     scheduleitem.ScheduledItem{Type: scheduleitem.Activity, Name: name, StartMinutes: start, EndMinutes: end},
			priority: priorityOrder[scheduleitem.Activity],
		})
	}

	return candidates
}

// frequencyDue mirrors this codebase's habit-frequency matching: daily and
// custom goals are considered due every day absent further per-occurrence
// state (generate() is a stateless, single-day function); weekdays/weekends
// match their calendar bucket; weekly anchors to Monday for determinism.
func frequencyDue(frequency string, weekday time.Weekday) bool {
	switch frequency {
	case "daily", "custom", "":
		return true
	case "weekdays":
		return weekday >= time.Monday && weekday <= time.Friday
	case "weekends":
		return weekday == time.Saturday || weekday == time.Sunday
	case "weekly":
		return weekday == time.Monday
	default:
		return true
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
