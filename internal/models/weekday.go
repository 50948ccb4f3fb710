package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the symbolic day-of-week used by availability slots
// ("MONDAY".."SUNDAY" on the wire).
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayByTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func WeekdayOf(day time.Weekday) Weekday {
	return weekdayByTime[day]
}

func ParseWeekday(raw string) (Weekday, error) {
	w := Weekday(strings.ToUpper(strings.TrimSpace(raw)))
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return w, nil
	}
	return "", fmt.Errorf("invalid weekday %q", raw)
}

func (w Weekday) Valid() bool {
	_, err := ParseWeekday(string(w))
	return err == nil
}

// Matches reports whether date falls on this weekday.
func (w Weekday) Matches(date Date) bool {
	return !date.IsZero() && WeekdayOf(date.Weekday()) == w
}
