// Package timeutil provides the minutes-from-midnight primitives every other
// schedule package builds on: a schedule day is [0,1440) minutes, with 1440
// itself used as the "end of day" sentinel (see MinutesToTime).
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of wall-clock minutes in a day; 1440 is also
// used as the end-of-day sentinel by MinutesToTime.
const MinutesPerDay = 1440

var (
	// ErrNegative is returned for any minute/hour/component value below zero.
	ErrNegative = errors.New("timeutil: negative value not allowed")
	// ErrOutOfRange is returned when an hour/minute component cannot form a valid time.
	ErrOutOfRange = errors.New("timeutil: value out of range")
	// ErrInvalidDuration is returned when a duration string cannot be parsed.
	ErrInvalidDuration = errors.New("timeutil: invalid duration string")
)

// Clock is a wall-clock hour/minute pair, always in [0,23]x[0,59].
type Clock struct {
	Hour   int
	Minute int
}

// TimeToMinutes converts an hour/minute pair into minutes from midnight (0..1439).
func TimeToMinutes(hour, minute int) (int, error) {
	if hour < 0 || minute < 0 {
		return 0, ErrNegative
	}
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("%w: hour=%d minute=%d", ErrOutOfRange, hour, minute)
	}
	return hour*60 + minute, nil
}

// MinutesToTime converts minutes from midnight back into an hour/minute pair.
// 1440 is the end-of-day sentinel and maps to 00:00 of the following day.
// Negative input is rejected; values above 1440 are rejected as out of range
// rather than silently clamped, so callers catch composition bugs early.
func MinutesToTime(minutes int) (Clock, error) {
	if minutes < 0 {
		return Clock{}, ErrNegative
	}
	if minutes > MinutesPerDay {
		return Clock{}, fmt.Errorf("%w: minutes=%d", ErrOutOfRange, minutes)
	}
	if minutes == MinutesPerDay {
		return Clock{Hour: 0, Minute: 0}, nil
	}
	return Clock{Hour: minutes / 60, Minute: minutes % 60}, nil
}

// String renders a Clock as "HH:MM". A Clock never holds the end-of-day
// sentinel (MinutesToTime maps 1440 to 00:00); MinutesToHHMM renders 1440
// as "24:00".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MinutesToHHMM formats minutes-from-midnight as "HH:MM", rendering the
// end-of-day sentinel 1440 as "24:00" per the fixed-event convention in §4.6.
func MinutesToHHMM(minutes int) (string, error) {
	if minutes == MinutesPerDay {
		return "24:00", nil
	}
	c, err := MinutesToTime(minutes)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// ParseHHMM parses a "HH:MM" wall-clock string into minutes from midnight.
// "24:00" is accepted as the end-of-day sentinel (1440).
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return MinutesPerDay, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return TimeToMinutes(hour, minute)
}

var durationComponent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(h|m|s)?`)

// ParseDurationWarning is returned alongside a successfully parsed duration
// when the input contained a component worth flagging (currently: seconds,
// which are accepted but discarded).
type ParseDurationWarning string

// ParseDuration recognizes "Nh", "Nm", "Nh Mm", a bare integer (minutes), and
// decimal hours ("1.5h"). Seconds components are parsed but discarded, and a
// non-empty warning is returned alongside the result. Negative or
// unrecognized input is an error.
func ParseDuration(s string) (minutes int, warning string, err error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, "", ErrInvalidDuration
	}

	matches := durationComponent.FindAllStringSubmatch(trimmed, -1)
	var total float64
	var consumed strings.Builder
	var sawSeconds bool

	if len(matches) == 0 {
		total, err = strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
	} else {
		for _, m := range matches {
			value, convErr := strconv.ParseFloat(m[1], 64)
			if convErr != nil {
				return 0, "", fmt.Errorf("%w: %q", ErrInvalidDuration, s)
			}
			unit := m[2]
			consumed.WriteString(m[1])
			consumed.WriteString(unit)
			switch unit {
			case "h":
				total += value * 60
			case "m", "":
				total += value
			case "s":
				sawSeconds = true
			}
		}
		// Reject strings with unrecognized content, unless the whole string
		// parses as a non-negative plain number (e.g. "+5").
		strippedInput := strings.ReplaceAll(trimmed, " ", "")
		strippedConsumed := strings.ReplaceAll(consumed.String(), " ", "")
		if strippedConsumed != strippedInput {
			numVal, numErr := strconv.ParseFloat(trimmed, 64)
			if numErr != nil || numVal < 0 {
				return 0, "", fmt.Errorf("%w: %q", ErrInvalidDuration, s)
			}
		}
	}

	rounded := int(total + 0.5)
	if total < 0 {
		rounded = -int(-total + 0.5)
	}
	if rounded < 0 {
		return 0, "", fmt.Errorf("%w: negative duration %q", ErrInvalidDuration, s)
	}
	if sawSeconds {
		warning = "seconds component discarded"
	}
	return rounded, warning, nil
}

// FormatDuration renders a minute count as "Xh Ym", "Xh" (whole hours),
// "Ym", or "0m" for zero, with a leading minus for negative deltas.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	sign := ""
	abs := minutes
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	hours := abs / 60
	mins := abs % 60

	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%s%dh %dm", sign, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%s%dh", sign, hours)
	case mins > 0:
		return fmt.Sprintf("%s%dm", sign, mins)
	default:
		return sign + "<1m"
	}
}
