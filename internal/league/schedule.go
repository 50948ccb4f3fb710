package league

import (
	"errors"
	"fmt"
	"sort"

	"github.com/golazoapp/golazo/internal/models"
)

var (
	ErrSameTeam          = errors.New("home and away team cannot be the same")
	ErrMissingDate       = errors.New("match date is required; pick an availability slot")
	ErrMissingTime       = errors.New("match time is required; pick an availability slot")
	ErrMissingVenue      = errors.New("match venue is required; pick an availability slot")
	ErrNotEnoughTeams    = errors.New("at least two eligible teams are required")
	ErrNotEnoughSlots    = errors.New("not enough availability slots for the eligible teams")
	ErrMatchDayStarted   = errors.New("match day has progress; regeneration is blocked")
	ErrSlotOccupied      = errors.New("the chosen slot is already taken by another match")
	ErrNoMatchingWeekday = errors.New("no date in the match-day range falls on the slot's weekday")
)

// ConflictError reports that a team is already booked in the match-day. The
// message names the conflicting opponent, as the scheduling form displays it.
type ConflictError struct {
	Team     models.Ref
	Opponent models.Ref
	MatchID  int64
}

func (e ConflictError) Error() string {
	team := e.Team.Name
	if team == "" {
		team = fmt.Sprintf("team %d", e.Team.ID)
	}
	opponent := e.Opponent.Name
	if opponent == "" {
		opponent = fmt.Sprintf("team %d", e.Opponent.ID)
	}
	return fmt.Sprintf("%s already plays against %s in this match day", team, opponent)
}

// CurrentMatchDay picks the "current" match-day for today: the one whose
// range contains today, else the earliest one starting on or after today,
// else the last of the list. Returns false only for an empty list.
func CurrentMatchDay(today models.Date, days []models.MatchDay) (models.MatchDay, bool) {
	if len(days) == 0 {
		return models.MatchDay{}, false
	}
	for _, day := range days {
		if day.Contains(today) {
			return day, true
		}
	}
	var next models.MatchDay
	found := false
	for _, day := range days {
		if day.StartDate.IsZero() || day.StartDate.Before(today) {
			continue
		}
		if !found || day.StartDate.Before(next.StartDate) {
			next = day
			found = true
		}
	}
	if found {
		return next, true
	}
	return days[len(days)-1], true
}

// ResolveSlotDate resolves a slot's symbolic weekday to a concrete date: the
// first date in the match-day's [StartDate, EndDate] range falling on that
// weekday. A zero date means the weekday never occurs in the range.
func ResolveSlotDate(day models.MatchDay, weekday models.Weekday) (models.Date, bool) {
	if day.StartDate.IsZero() || day.EndDate.IsZero() {
		return models.Date{}, false
	}
	for date := day.StartDate; !date.After(day.EndDate); date = date.AddDays(1) {
		if weekday.Matches(date) {
			return date, true
		}
	}
	return models.Date{}, false
}

// WeekdayOptions lists the weekdays that actually occur inside the
// match-day's date range, in calendar order from the start date. Only these
// are offered when creating an availability slot.
func WeekdayOptions(day models.MatchDay) []models.Weekday {
	if day.StartDate.IsZero() || day.EndDate.IsZero() {
		return nil
	}
	seen := make(map[models.Weekday]struct{}, 7)
	var options []models.Weekday
	for date := day.StartDate; !date.After(day.EndDate); date = date.AddDays(1) {
		w := models.WeekdayOf(date.Weekday())
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		options = append(options, w)
		if len(options) == 7 {
			break
		}
	}
	return options
}

// FindTeamConflict returns the first match, other than excludeMatchID, in
// which either candidate team already appears as home or away.
func FindTeamConflict(matches []models.Match, homeTeamID, awayTeamID, excludeMatchID int64) (models.Match, bool) {
	for _, m := range matches {
		if m.ID == excludeMatchID {
			continue
		}
		if m.Involves(homeTeamID) || m.Involves(awayTeamID) {
			return m, true
		}
	}
	return models.Match{}, false
}

// SlotOccupied reports whether another match, excluding excludeMatchID,
// already claims the slot's (weekday, start time, field) triple. The match
// side of the comparison uses the weekday derived from its concrete date.
func SlotOccupied(matches []models.Match, slot models.AvailabilitySlot, excludeMatchID int64) bool {
	for _, m := range matches {
		if m.ID == excludeMatchID || m.Date.IsZero() {
			continue
		}
		if models.WeekdayOf(m.Date.Weekday()) == slot.DayOfWeek &&
			m.ScheduledTime == slot.StartTime &&
			m.Venue == slot.Field {
			return true
		}
	}
	return false
}

// FreeSlots filters slots down to those not occupied by any match other than
// the one being edited.
func FreeSlots(slots []models.AvailabilitySlot, matches []models.Match, excludeMatchID int64) []models.AvailabilitySlot {
	free := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if !SlotOccupied(matches, slot, excludeMatchID) {
			free = append(free, slot)
		}
	}
	return free
}

// EligibleTeams returns the active, unbanned teams.
func EligibleTeams(teams []models.Team) []models.Team {
	eligible := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if t.Eligible() {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

// RestingTeams returns the eligible teams with no match in the match-day
// (the "bye" set), preserving the input team order.
func RestingTeams(teams []models.Team, matches []models.Match) []models.Team {
	booked := make(map[int64]struct{}, len(matches)*2)
	for _, m := range matches {
		booked[m.HomeTeam.ID] = struct{}{}
		booked[m.AwayTeam.ID] = struct{}{}
	}
	var resting []models.Team
	for _, t := range teams {
		if !t.Eligible() {
			continue
		}
		if _, ok := booked[t.ID]; !ok {
			resting = append(resting, t)
		}
	}
	return resting
}

// SortMatches returns the matches ordered by date then time, with
// postponed-and-unscheduled matches filtered out of the primary list.
func SortMatches(matches []models.Match) []models.Match {
	sorted := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status == models.StatusPostponed && !m.Scheduled() {
			continue
		}
		sorted = append(sorted, m)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ScheduledTime < sorted[j].ScheduledTime
	})
	return sorted
}

// CanRegenerate reports whether the random draw may be re-run: every match
// must still be SCHEDULED with a zero score. A single match with progress
// blocks regeneration for the whole match-day.
func CanRegenerate(matches []models.Match) bool {
	for _, m := range matches {
		if m.Status != models.StatusScheduled || m.HasScore() {
			return false
		}
	}
	return true
}

// CheckGenerationPreconditions verifies a draw can be requested at all:
// at least two eligible teams, and enough slots to host floor(eligible/2)
// matches.
func CheckGenerationPreconditions(teams []models.Team, slots []models.AvailabilitySlot) error {
	eligible := EligibleTeams(teams)
	if len(eligible) < 2 {
		return ErrNotEnoughTeams
	}
	if len(slots) < len(eligible)/2 {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughSlots, len(eligible)/2, len(slots))
	}
	return nil
}

// DeriveScore recomputes a match's score from its goals list. The goals list
// is the source of truth on the result page; stored scores are only a cached
// copy of this count.
func DeriveScore(match models.Match, goals []models.Goal) (home, away int) {
	for _, g := range goals {
		switch g.Team.ID {
		case match.HomeTeam.ID:
			home++
		case match.AwayTeam.ID:
			away++
		}
	}
	return home, away
}

// Submission is a candidate match as the scheduling form produces it. Date,
// Time, and Venue always originate from a selected availability slot; the
// form never accepts them as free text.
type Submission struct {
	TournamentID   int64
	MatchDayID     int64
	HomeTeamID     int64
	AwayTeamID     int64
	Date           models.Date
	Time           string
	Venue          string
	ExcludeMatchID int64
}

// Validate runs every client-side check the scheduling form enforces before
// any network call: distinct teams, a fully resolved slot, and no team
// double-booked within the match-day.
func (s Submission) Validate(existing []models.Match, teams []models.Team) error {
	if s.HomeTeamID == s.AwayTeamID {
		return ErrSameTeam
	}
	if s.Date.IsZero() {
		return ErrMissingDate
	}
	if s.Time == "" {
		return ErrMissingTime
	}
	if s.Venue == "" {
		return ErrMissingVenue
	}
	if conflict, ok := FindTeamConflict(existing, s.HomeTeamID, s.AwayTeamID, s.ExcludeMatchID); ok {
		team, opponent := conflictSides(conflict, s.HomeTeamID, s.AwayTeamID)
		return ConflictError{
			Team:     namedRef(teams, team),
			Opponent: namedRef(teams, opponent),
			MatchID:  conflict.ID,
		}
	}
	for _, m := range existing {
		if m.ID == s.ExcludeMatchID || m.Date.IsZero() {
			continue
		}
		if m.Date.Equal(s.Date) && m.ScheduledTime == s.Time && m.Venue == s.Venue {
			return ErrSlotOccupied
		}
	}
	return nil
}

// conflictSides picks which candidate team is in the conflicting match and
// who it already plays against.
func conflictSides(conflict models.Match, homeTeamID, awayTeamID int64) (team, opponent int64) {
	booked := homeTeamID
	if !conflict.Involves(homeTeamID) {
		booked = awayTeamID
	}
	if conflict.HomeTeam.ID == booked {
		return booked, conflict.AwayTeam.ID
	}
	return booked, conflict.HomeTeam.ID
}

func namedRef(teams []models.Team, id int64) models.Ref {
	for _, t := range teams {
		if t.ID == id {
			return models.Ref{ID: id, Name: t.Name}
		}
	}
	return models.Ref{ID: id}
}
