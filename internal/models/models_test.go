package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRefUnmarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Ref
	}{
		{"null", `null`, Ref{}},
		{"bare id", `7`, Ref{ID: 7}},
		{"object", `{"id":7,"name":"Tigres"}`, Ref{ID: 7, Name: "Tigres"}},
		{"object without name", `{"id":7}`, Ref{ID: 7}},
	}
	for _, tc := range cases {
		var ref Ref
		if err := json.Unmarshal([]byte(tc.raw), &ref); err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if ref != tc.want {
			t.Errorf("%s: expected %+v, got %+v", tc.name, tc.want, ref)
		}
	}

	var ref Ref
	if err := json.Unmarshal([]byte(`"tigres"`), &ref); err == nil {
		t.Error("expected an error for a string reference")
	}
}

func TestMatchUnmarshalMixedRefs(t *testing.T) {
	raw := `{
		"id": 5,
		"homeTeam": {"id": 1, "name": "Tigres"},
		"awayTeam": 2,
		"matchDay": null,
		"date": "2026-01-20",
		"scheduledTime": "19:00",
		"status": "SCHEDULED"
	}`

	var m Match
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.HomeTeam.ID != 1 || m.HomeTeam.Name != "Tigres" {
		t.Errorf("unexpected home team %+v", m.HomeTeam)
	}
	if m.AwayTeam.ID != 2 {
		t.Errorf("unexpected away team %+v", m.AwayTeam)
	}
	if !m.MatchDay.IsZero() {
		t.Errorf("expected zero match-day ref, got %+v", m.MatchDay)
	}
	if m.Date.String() != "2026-01-20" {
		t.Errorf("unexpected date %s", m.Date)
	}
	if !m.Scheduled() {
		t.Error("expected match to count as scheduled")
	}
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-01-20")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Weekday() != time.Tuesday {
		t.Errorf("expected Tuesday, got %s", d.Weekday())
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2026-01-20"` {
		t.Errorf("unexpected JSON %s", out)
	}

	empty, err := ParseDate("")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if !empty.IsZero() {
		t.Error("expected empty string to parse as zero date")
	}

	if _, err := ParseDate("20/01/2026"); err == nil {
		t.Error("expected an error for a non-ISO date")
	}
}

func TestMatchDayContains(t *testing.T) {
	day := MatchDay{
		StartDate: NewDate(2026, time.January, 19),
		EndDate:   NewDate(2026, time.January, 25),
	}

	if !day.Contains(NewDate(2026, time.January, 19)) {
		t.Error("start boundary should be inside")
	}
	if !day.Contains(NewDate(2026, time.January, 25)) {
		t.Error("end boundary should be inside")
	}
	if day.Contains(NewDate(2026, time.January, 26)) {
		t.Error("day after the range should be outside")
	}
	if day.Contains(Date{}) {
		t.Error("zero date is never contained")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to MatchStatus
		want     bool
	}{
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusFinal, true},
		{StatusScheduled, StatusPostponed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusInProgress, StatusFinal, true},
		{StatusInProgress, StatusPostponed, false},
		{StatusFinal, StatusInProgress, false},
		{StatusFinal, StatusScheduled, false},
		{StatusCancelled, StatusFinal, false},
		{StatusFinal, StatusFinal, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}

	if !StatusFinal.Terminal() || !StatusCancelled.Terminal() || !StatusPostponed.Terminal() {
		t.Error("FINAL, CANCELLED, and POSTPONED are terminal")
	}
	if StatusScheduled.Terminal() || StatusInProgress.Terminal() {
		t.Error("SCHEDULED and IN_PROGRESS are not terminal")
	}
}

func TestParseWeekday(t *testing.T) {
	w, err := ParseWeekday(" tuesday ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w != Tuesday {
		t.Errorf("expected TUESDAY, got %s", w)
	}
	if !w.Matches(NewDate(2026, time.January, 20)) {
		t.Error("2026-01-20 is a Tuesday")
	}
	if _, err := ParseWeekday("someday"); err == nil {
		t.Error("expected an error for an unknown weekday")
	}
}

func TestTeamEligible(t *testing.T) {
	if (Team{Active: true, Banned: true}).Eligible() {
		t.Error("banned teams are not eligible")
	}
	if (Team{Active: false}).Eligible() {
		t.Error("inactive teams are not eligible")
	}
	if !(Team{Active: true}).Eligible() {
		t.Error("active unbanned teams are eligible")
	}
}
