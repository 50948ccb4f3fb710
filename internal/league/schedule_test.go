package league

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golazoapp/golazo/internal/models"
)

func date(year int, month time.Month, day int) models.Date {
	return models.NewDate(year, month, day)
}

func testMatchDay() models.MatchDay {
	// 2026-01-19 is a Monday.
	return models.MatchDay{
		ID:        7,
		Label:     "Jornada 3",
		StartDate: date(2026, time.January, 19),
		EndDate:   date(2026, time.January, 25),
	}
}

func TestCurrentMatchDayContainsToday(t *testing.T) {
	days := []models.MatchDay{
		{ID: 1, StartDate: date(2026, time.January, 5), EndDate: date(2026, time.January, 11)},
		{ID: 2, StartDate: date(2026, time.January, 12), EndDate: date(2026, time.January, 18)},
		{ID: 3, StartDate: date(2026, time.January, 19), EndDate: date(2026, time.January, 25)},
	}

	current, ok := CurrentMatchDay(date(2026, time.January, 14), days)
	if !ok {
		t.Fatal("expected a current match day")
	}
	if current.ID != 2 {
		t.Errorf("expected match day 2, got %d", current.ID)
	}
}

func TestCurrentMatchDayPicksNextUpcoming(t *testing.T) {
	// Today falls in a gap between rounds; the earliest future round wins
	// even when listed out of order.
	days := []models.MatchDay{
		{ID: 3, StartDate: date(2026, time.February, 9), EndDate: date(2026, time.February, 15)},
		{ID: 1, StartDate: date(2026, time.January, 5), EndDate: date(2026, time.January, 11)},
		{ID: 2, StartDate: date(2026, time.January, 26), EndDate: date(2026, time.February, 1)},
	}

	current, ok := CurrentMatchDay(date(2026, time.January, 14), days)
	if !ok {
		t.Fatal("expected a current match day")
	}
	if current.ID != 2 {
		t.Errorf("expected match day 2, got %d", current.ID)
	}
}

func TestCurrentMatchDayFallsBackToLast(t *testing.T) {
	days := []models.MatchDay{
		{ID: 1, StartDate: date(2026, time.January, 5), EndDate: date(2026, time.January, 11)},
		{ID: 2, StartDate: date(2026, time.January, 12), EndDate: date(2026, time.January, 18)},
	}

	current, ok := CurrentMatchDay(date(2026, time.March, 1), days)
	if !ok {
		t.Fatal("expected a current match day")
	}
	if current.ID != 2 {
		t.Errorf("expected last match day, got %d", current.ID)
	}

	if _, ok := CurrentMatchDay(date(2026, time.March, 1), nil); ok {
		t.Error("expected no current match day for empty list")
	}
}

func TestResolveSlotDate(t *testing.T) {
	day := testMatchDay()

	resolved, ok := ResolveSlotDate(day, models.Tuesday)
	if !ok {
		t.Fatal("expected Tuesday to resolve")
	}
	if got := resolved.String(); got != "2026-01-20" {
		t.Errorf("expected 2026-01-20, got %s", got)
	}

	// A two-day round never reaches Sunday.
	short := models.MatchDay{
		StartDate: date(2026, time.January, 19),
		EndDate:   date(2026, time.January, 20),
	}
	if _, ok := ResolveSlotDate(short, models.Sunday); ok {
		t.Error("expected Sunday to be unresolvable in a Mon-Tue range")
	}
}

func TestWeekdayOptions(t *testing.T) {
	day := models.MatchDay{
		StartDate: date(2026, time.January, 23), // Friday
		EndDate:   date(2026, time.January, 25), // Sunday
	}

	options := WeekdayOptions(day)
	want := []models.Weekday{models.Friday, models.Saturday, models.Sunday}
	if len(options) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(options))
	}
	for i, w := range want {
		if options[i] != w {
			t.Errorf("option %d: expected %s, got %s", i, w, options[i])
		}
	}
}

func TestSubmissionValidateSameTeam(t *testing.T) {
	s := Submission{
		HomeTeamID: 1,
		AwayTeamID: 1,
		Date:       date(2026, time.January, 20),
		Time:       "19:00",
		Venue:      "Cancha 1",
	}
	if err := s.Validate(nil, nil); !errors.Is(err, ErrSameTeam) {
		t.Errorf("expected ErrSameTeam, got %v", err)
	}
}

func TestSubmissionValidateRequiresSlot(t *testing.T) {
	s := Submission{HomeTeamID: 1, AwayTeamID: 2}
	if err := s.Validate(nil, nil); !errors.Is(err, ErrMissingDate) {
		t.Errorf("expected ErrMissingDate, got %v", err)
	}

	s.Date = date(2026, time.January, 20)
	if err := s.Validate(nil, nil); !errors.Is(err, ErrMissingTime) {
		t.Errorf("expected ErrMissingTime, got %v", err)
	}

	s.Time = "19:00"
	if err := s.Validate(nil, nil); !errors.Is(err, ErrMissingVenue) {
		t.Errorf("expected ErrMissingVenue, got %v", err)
	}
}

func TestSubmissionValidateTeamConflict(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Tigres", Active: true},
		{ID: 2, Name: "Leones", Active: true},
		{ID: 3, Name: "Pumas", Active: true},
	}
	existing := []models.Match{
		{ID: 10, HomeTeam: models.Ref{ID: 1, Name: "Tigres"}, AwayTeam: models.Ref{ID: 3, Name: "Pumas"}},
	}

	s := Submission{
		HomeTeamID: 1,
		AwayTeamID: 2,
		Date:       date(2026, time.January, 20),
		Time:       "19:00",
		Venue:      "Cancha 1",
	}
	err := s.Validate(existing, teams)

	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Team.Name != "Tigres" || conflict.Opponent.Name != "Pumas" {
		t.Errorf("unexpected conflict sides: %+v", conflict)
	}
	if !strings.Contains(conflict.Error(), "Tigres") || !strings.Contains(conflict.Error(), "Pumas") {
		t.Errorf("conflict message should name both teams: %s", conflict.Error())
	}
}

func TestSubmissionValidateExcludesEditedMatch(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Tigres", Active: true},
		{ID: 2, Name: "Leones", Active: true},
	}
	existing := []models.Match{
		{
			ID:            10,
			HomeTeam:      models.Ref{ID: 1, Name: "Tigres"},
			AwayTeam:      models.Ref{ID: 2, Name: "Leones"},
			Date:          date(2026, time.January, 20),
			ScheduledTime: "19:00",
			Venue:         "Cancha 1",
		},
	}

	// Re-saving the same match in its own slot must pass.
	s := Submission{
		HomeTeamID:     1,
		AwayTeamID:     2,
		Date:           date(2026, time.January, 20),
		Time:           "19:00",
		Venue:          "Cancha 1",
		ExcludeMatchID: 10,
	}
	if err := s.Validate(existing, teams); err != nil {
		t.Errorf("expected edited match to validate, got %v", err)
	}

	// A different match claiming the same slot must not.
	s.ExcludeMatchID = 0
	s.HomeTeamID, s.AwayTeamID = 3, 4
	if err := s.Validate(existing, teams); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected ErrSlotOccupied, got %v", err)
	}
}

func TestSlotOccupied(t *testing.T) {
	slot := models.AvailabilitySlot{
		ID:        1,
		DayOfWeek: models.Tuesday,
		StartTime: "19:00",
		Field:     "Cancha 1",
	}
	matches := []models.Match{
		{
			ID:            10,
			Date:          date(2026, time.January, 20), // Tuesday
			ScheduledTime: "19:00",
			Venue:         "Cancha 1",
		},
	}

	if !SlotOccupied(matches, slot, 0) {
		t.Error("expected slot to be occupied")
	}
	if SlotOccupied(matches, slot, 10) {
		t.Error("expected slot to be free when its own match is excluded")
	}

	free := FreeSlots([]models.AvailabilitySlot{slot}, matches, 0)
	if len(free) != 0 {
		t.Errorf("expected no free slots, got %d", len(free))
	}
	free = FreeSlots([]models.AvailabilitySlot{slot}, matches, 10)
	if len(free) != 1 {
		t.Errorf("expected the edited match's slot to be offered, got %d", len(free))
	}
}

func TestRestingTeams(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "A", Active: true},
		{ID: 2, Name: "B", Active: true},
		{ID: 3, Name: "C", Active: true},
		{ID: 4, Name: "D", Active: true},
		{ID: 5, Name: "E", Active: true},
		{ID: 6, Name: "F", Active: true},
		{ID: 7, Name: "Banned", Active: true, Banned: true},
	}
	matches := []models.Match{
		{HomeTeam: models.Ref{ID: 1}, AwayTeam: models.Ref{ID: 2}},
		{HomeTeam: models.Ref{ID: 3}, AwayTeam: models.Ref{ID: 4}},
	}

	resting := RestingTeams(teams, matches)
	if len(resting) != 2 {
		t.Fatalf("expected 2 resting teams, got %d", len(resting))
	}
	if resting[0].ID != 5 || resting[1].ID != 6 {
		t.Errorf("expected teams 5 and 6 resting, got %d and %d", resting[0].ID, resting[1].ID)
	}
}

func TestSortMatchesFiltersAndOrders(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Date: date(2026, time.January, 21), ScheduledTime: "20:00"},
		{ID: 2, Date: date(2026, time.January, 20), ScheduledTime: "19:00"},
		{ID: 3, Status: models.StatusPostponed}, // unscheduled, hidden
		{ID: 4, Date: date(2026, time.January, 20), ScheduledTime: "17:00"},
	}

	sorted := SortMatches(matches)
	if len(sorted) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(sorted))
	}
	wantOrder := []int64{4, 2, 1}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("position %d: expected match %d, got %d", i, id, sorted[i].ID)
		}
	}
}

func TestCanRegenerate(t *testing.T) {
	clean := []models.Match{
		{Status: models.StatusScheduled},
		{Status: models.StatusScheduled},
	}
	if !CanRegenerate(clean) {
		t.Error("expected regeneration to be allowed for untouched matches")
	}

	started := []models.Match{
		{Status: models.StatusScheduled},
		{Status: models.StatusInProgress},
	}
	if CanRegenerate(started) {
		t.Error("expected regeneration to be blocked once a match started")
	}

	scored := []models.Match{
		{Status: models.StatusScheduled, HomeScore: 1},
	}
	if CanRegenerate(scored) {
		t.Error("expected regeneration to be blocked once a score exists")
	}
}

func TestCheckGenerationPreconditions(t *testing.T) {
	slots := func(n int) []models.AvailabilitySlot {
		s := make([]models.AvailabilitySlot, n)
		return s
	}
	eligible := func(n int) []models.Team {
		teams := make([]models.Team, n)
		for i := range teams {
			teams[i] = models.Team{ID: int64(i + 1), Active: true}
		}
		return teams
	}

	if err := CheckGenerationPreconditions(eligible(1), slots(5)); !errors.Is(err, ErrNotEnoughTeams) {
		t.Errorf("expected ErrNotEnoughTeams, got %v", err)
	}
	if err := CheckGenerationPreconditions(eligible(6), slots(2)); !errors.Is(err, ErrNotEnoughSlots) {
		t.Errorf("expected ErrNotEnoughSlots, got %v", err)
	}
	if err := CheckGenerationPreconditions(eligible(6), slots(3)); err != nil {
		t.Errorf("expected preconditions to pass, got %v", err)
	}
	// An odd team count leaves one team resting; floor(n/2) slots suffice.
	if err := CheckGenerationPreconditions(eligible(7), slots(3)); err != nil {
		t.Errorf("expected preconditions to pass with a bye, got %v", err)
	}
}

func TestDeriveScore(t *testing.T) {
	match := models.Match{
		HomeTeam: models.Ref{ID: 1},
		AwayTeam: models.Ref{ID: 2},
	}
	goals := []models.Goal{
		{Team: models.Ref{ID: 1}},
		{Team: models.Ref{ID: 1}},
		{Team: models.Ref{ID: 2}},
		{Team: models.Ref{ID: 99}}, // stray goal from neither side is ignored
	}

	home, away := DeriveScore(match, goals)
	if home != 2 || away != 1 {
		t.Errorf("expected 2-1, got %d-%d", home, away)
	}
}
