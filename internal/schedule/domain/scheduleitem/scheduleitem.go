// Package scheduleitem holds the output shape of a generated day: the
// ScheduledItem blocks that tile the day and the GeneratedSchedule aggregate
// that carries them alongside metrics and warnings.
package scheduleitem

import (
	"encoding/json"
	"time"

	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
	"github.com/google/uuid"
)

// Type is the category of a scheduled block.
type Type string

const (
	Task     Type = "TASK"
	Fixed    Type = "FIXED"
	Sleep    Type = "SLEEP"
	Meal     Type = "MEAL"
	Routine  Type = "ROUTINE"
	Activity Type = "ACTIVITY"
	Break    Type = "BREAK"
	Free     Type = "FREE"
)

// ScheduledItem is one [Start,End) block of a generated day.
type ScheduledItem struct {
	Type          Type
	Name          string
	StartMinutes  int
	EndMinutes    int
	TaskID        *uuid.UUID
}

// DurationMinutes returns the block's length.
func (s ScheduledItem) DurationMinutes() int {
	return s.EndMinutes - s.StartMinutes
}

type scheduledItemJSON struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	TaskID    *string `json:"task_id,omitempty"`
}

// MarshalJSON renders an item using "HH:MM" wall-clock times, matching the
// full structured projection described for GeneratedSchedule.
func (s ScheduledItem) MarshalJSON() ([]byte, error) {
	start, err := timeutil.MinutesToHHMM(s.StartMinutes)
	if err != nil {
		return nil, err
	}
	end, err := timeutil.MinutesToHHMM(s.EndMinutes)
	if err != nil {
		return nil, err
	}

	var taskID *string
	if s.TaskID != nil {
		id := s.TaskID.String()
		taskID = &id
	}

	return json.Marshal(scheduledItemJSON{
		Type:      string(s.Type),
		Name:      s.Name,
		StartTime: start,
		EndTime:   end,
		TaskID:    taskID,
	})
}

// GeneratedSchedule is the complete output of one generate() call.
type GeneratedSchedule struct {
	ScheduleID  uuid.UUID
	UserID      uuid.UUID
	TargetDate  time.Time
	Items       []ScheduledItem
	Metrics     map[string]any
	Warnings    []string
}

type generatedScheduleJSON struct {
	ScheduleID    string           `json:"schedule_id"`
	UserID        string           `json:"user_id"`
	TargetDate    string           `json:"target_date"`
	ScheduledItems []ScheduledItem `json:"scheduled_items"`
	Metrics       map[string]any   `json:"metrics"`
	Warnings      []string         `json:"warnings"`
}

// MarshalJSON renders the full structured form new clients consume.
func (g GeneratedSchedule) MarshalJSON() ([]byte, error) {
	warnings := g.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	metrics := g.Metrics
	if metrics == nil {
		metrics = map[string]any{}
	}
	return json.Marshal(generatedScheduleJSON{
		ScheduleID:     g.ScheduleID.String(),
		UserID:         g.UserID.String(),
		TargetDate:     g.TargetDate.Format("2006-01-02"),
		ScheduledItems: g.Items,
		Metrics:        metrics,
		Warnings:       warnings,
	})
}

type legacyTaskEntry struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Task      string `json:"task"`
}

type legacyTaskView struct {
	Tasks []legacyTaskEntry `json:"tasks"`
}

// LegacyTaskView projects the schedule into the `{tasks:[{start_time,
// end_time, task}]}` shape older clients expect, restricted to TASK-type
// items only.
func (g GeneratedSchedule) LegacyTaskView() ([]byte, error) {
	entries := make([]legacyTaskEntry, 0, len(g.Items))
	for _, item := range g.Items {
		if item.Type != Task {
			continue
		}
		start, err := timeutil.MinutesToHHMM(item.StartMinutes)
		if err != nil {
			return nil, err
		}
		end, err := timeutil.MinutesToHHMM(item.EndMinutes)
		if err != nil {
			return nil, err
		}
		entries = append(entries, legacyTaskEntry{StartTime: start, EndTime: end, Task: item.Name})
	}
	return json.Marshal(legacyTaskView{Tasks: entries})
}

// CoversFullDay reports whether items, sorted by start, tile [0,1440) with
// no gaps and no overlaps — the coverage invariant every generate() result
// must satisfy.
func CoversFullDay(items []ScheduledItem) bool {
	if len(items) == 0 {
		return false
	}
	if items[0].StartMinutes != 0 {
		return false
	}
	for i := 1; i < len(items); i++ {
		if items[i].StartMinutes != items[i-1].EndMinutes {
			return false
		}
	}
	return items[len(items)-1].EndMinutes == timeutil.MinutesPerDay
}
