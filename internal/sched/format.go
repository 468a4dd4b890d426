package sched

import (
	"fmt"
	"strconv"
	"time"
)

// Literal fallbacks rendered when a configuration carries an enum value the
// formatter does not recognise. Formatting never fails; it degrades to these.
const (
	nameStyleError  = "Name Style Error"
	hourFormatError = "Hour Format Error"
)

// FormatName renders an employee's display name under a last-name style.
//
// FirstInitial takes the first letter of the last name followed by a single
// period; an empty last name still yields the period ("Jeff .").
func FormatName(e Employee, style LastNameStyle) string {
	switch style {
	case FullName:
		return e.First + " " + e.Last
	case FirstInitial:
		initial := ""
		if runes := []rune(e.Last); len(runes) > 0 {
			initial = string(runes[0])
		}
		return e.First + " " + initial + "."
	case Hidden:
		return e.First
	}
	return nameStyleError
}

// FormatTime renders an instant's local wall-clock time. The base pattern is
// hour-only; minutes are appended only when showMinutes is set. Twelve-hour
// mode appends a lowercase "a" or "p" suffix; 24-hour mode has no suffix.
func FormatTime(t time.Time, format HourFormat, showMinutes bool) string {
	switch format {
	case Hour12:
		hour := t.Hour() % 12
		if hour == 0 {
			hour = 12
		}
		suffix := "a"
		if t.Hour() >= 12 {
			suffix = "p"
		}
		out := strconv.Itoa(hour)
		if showMinutes {
			out += fmt.Sprintf(":%02d", t.Minute())
		}
		return out + suffix
	case Hour24:
		out := strconv.Itoa(t.Hour())
		if showMinutes {
			out += fmt.Sprintf(":%02d", t.Minute())
		}
		return out
	}
	return hourFormatError
}
