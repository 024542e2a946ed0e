// Package fixedevent holds immovable calendar blocks — meetings,
// appointments, anything the user has already committed to — that the
// solver and gap filler must route around without questioning.
package fixedevent

import (
	"errors"
	"fmt"

	"github.com/auratyme/schedgen/internal/schedule/domain/timeutil"
)

// ErrInvalidInterval is returned when start >= end, or either falls outside [0,1440].
var ErrInvalidInterval = errors.New("fixedevent: invalid interval")

// FixedEvent is a named, immovable block of time.
type FixedEvent struct {
	ID          string
	Name        string
	StartMinutes int
	EndMinutes   int
}

// New validates and constructs a FixedEvent; start/end must satisfy
// 0<=start<end<=1440.
func New(id, name string, startMinutes, endMinutes int) (FixedEvent, error) {
	if startMinutes < 0 || endMinutes > timeutil.MinutesPerDay || startMinutes >= endMinutes {
		return FixedEvent{}, fmt.Errorf("%w: start=%d end=%d", ErrInvalidInterval, startMinutes, endMinutes)
	}
	return FixedEvent{ID: id, Name: name, StartMinutes: startMinutes, EndMinutes: endMinutes}, nil
}

// NormalizeMidnightCrossing splits a wall-clock event whose end time is
// numerically before its start time (i.e. it crosses midnight) into two
// FixedEvents: one ending at the end-of-day sentinel (1440) and one starting
// at 0. Events that do not cross midnight are returned unchanged, as a
// single-element slice.
func NormalizeMidnightCrossing(id, name string, startMinutes, endMinutes int) ([]FixedEvent, error) {
	if startMinutes < 0 || startMinutes > timeutil.MinutesPerDay || endMinutes < 0 || endMinutes > timeutil.MinutesPerDay {
		return nil, fmt.Errorf("%w: start=%d end=%d", ErrInvalidInterval, startMinutes, endMinutes)
	}

	if endMinutes == 0 {
		endMinutes = timeutil.MinutesPerDay
	}

	if endMinutes == startMinutes {
		return nil, fmt.Errorf("%w: zero-duration interval start=%d end=%d", ErrInvalidInterval, startMinutes, endMinutes)
	}

	if endMinutes > startMinutes {
		ev, err := New(id, name, startMinutes, endMinutes)
		if err != nil {
			return nil, err
		}
		return []FixedEvent{ev}, nil
	}

	prev, err := New(id+"_prev", name, startMinutes, timeutil.MinutesPerDay)
	if err != nil {
		return nil, err
	}
	next, err := New(id+"_next", name, 0, endMinutes)
	if err != nil {
		return nil, err
	}
	return []FixedEvent{prev, next}, nil
}

// Overlaps reports whether two [start,end) intervals intersect.
func (e FixedEvent) Overlaps(other FixedEvent) bool {
	return e.StartMinutes < other.EndMinutes && other.StartMinutes < e.EndMinutes
}
