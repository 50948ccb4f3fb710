package models

import (
	"fmt"
	"strings"
)

// MatchStatus is the lifecycle state of a match. Transitions exposed by the
// admin panel: SCHEDULED -> IN_PROGRESS -> FINAL, and SCHEDULED -> POSTPONED
// or CANCELLED. FINAL, CANCELLED, and POSTPONED are terminal here; the
// upstream API may allow more, but no control in this app exposes it.
type MatchStatus string

const (
	StatusScheduled  MatchStatus = "SCHEDULED"
	StatusInProgress MatchStatus = "IN_PROGRESS"
	StatusFinal      MatchStatus = "FINAL"
	StatusCancelled  MatchStatus = "CANCELLED"
	StatusPostponed  MatchStatus = "POSTPONED"
)

func ParseMatchStatus(raw string) (MatchStatus, error) {
	s := MatchStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusScheduled, StatusInProgress, StatusFinal, StatusCancelled, StatusPostponed:
		return s, nil
	}
	return "", fmt.Errorf("invalid match status %q", raw)
}

func (s MatchStatus) Valid() bool {
	_, err := ParseMatchStatus(string(s))
	return err == nil
}

// Terminal reports whether no admin control can move the match out of s.
func (s MatchStatus) Terminal() bool {
	switch s {
	case StatusFinal, StatusCancelled, StatusPostponed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the admin panel allows moving from s to
// target. Staying in the same state is always allowed so that result saves
// which do not touch the status round-trip cleanly.
func (s MatchStatus) CanTransitionTo(target MatchStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case StatusScheduled:
		return target == StatusInProgress || target == StatusFinal ||
			target == StatusPostponed || target == StatusCancelled
	case StatusInProgress:
		return target == StatusFinal
	}
	return false
}
