package models

import "time"

// Entities mirror the upstream API's data model, normalized at the boundary.
// All of them are owned by the upstream; this app only holds refreshable
// copies.

type Tournament struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Season      string `json:"season"`
	DoubleRound bool   `json:"doubleRound"`
}

// MatchDay (jornada) is a named round spanning a date range.
type MatchDay struct {
	ID           int64 `json:"id"`
	TournamentID int64 `json:"tournamentId"`
	Label        string `json:"label"`
	StartDate    Date   `json:"startDate"`
	EndDate      Date   `json:"endDate"`
}

// Contains reports whether date falls inside the match-day's range,
// boundaries included.
func (d MatchDay) Contains(date Date) bool {
	if d.StartDate.IsZero() || d.EndDate.IsZero() || date.IsZero() {
		return false
	}
	return !date.Before(d.StartDate) && !date.After(d.EndDate)
}

// AvailabilitySlot is a (weekday, time range, field) combination an admin has
// opened for scheduling within a match-day.
type AvailabilitySlot struct {
	ID         int64   `json:"id"`
	MatchDayID int64   `json:"matchDayId"`
	DayOfWeek  Weekday `json:"dayOfWeek"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Field      string  `json:"field"`
}

type Team struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ShortName       string `json:"shortName"`
	Active          bool   `json:"active"`
	Banned          bool   `json:"banned"`
	PermissionsUsed int    `json:"permissionsUsed"`
	LogoURL         string `json:"logoUrl"`
}

// Eligible reports whether the team can be scheduled: active and not banned.
func (t Team) Eligible() bool {
	return t.Active && !t.Banned
}

type Player struct {
	ID       int64  `json:"id"`
	TeamID   int64  `json:"teamId"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

type Match struct {
	ID            int64       `json:"id"`
	Tournament    Ref         `json:"tournament"`
	MatchDay      Ref         `json:"matchDay"`
	HomeTeam      Ref         `json:"homeTeam"`
	AwayTeam      Ref         `json:"awayTeam"`
	Date          Date        `json:"date"`
	ScheduledTime string      `json:"scheduledTime"`
	Venue         string      `json:"venue"`
	Status        MatchStatus `json:"status"`
	HomeScore     int         `json:"homeScore"`
	AwayScore     int         `json:"awayScore"`
}

// Involves reports whether teamID plays in the match on either side.
func (m Match) Involves(teamID int64) bool {
	return m.HomeTeam.ID == teamID || m.AwayTeam.ID == teamID
}

// HasScore reports whether either side has a nonzero score.
func (m Match) HasScore() bool {
	return m.HomeScore != 0 || m.AwayScore != 0
}

// Scheduled reports whether the match has a concrete date and time.
func (m Match) Scheduled() bool {
	return !m.Date.IsZero() && m.ScheduledTime != ""
}

type Goal struct {
	ID      int64 `json:"id"`
	MatchID int64 `json:"matchId"`
	Team    Ref   `json:"team"`
	Player  Ref   `json:"player"`
	Minute  int   `json:"minute"`
}

// MaxPermissionsPerTeam is the per-season cap on absence permissions. The
// upstream API enforces it; this app only surfaces it as a warning.
const MaxPermissionsPerTeam = 2

// Permission is an absence justification for a team on a match-day. Creating
// one increments the team's used-permission counter upstream; deleting it
// decrements. The 0-2 cap is enforced server-side and only displayed here.
type Permission struct {
	ID        int64     `json:"id"`
	Team      Ref       `json:"team"`
	MatchDay  Ref       `json:"matchDay"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// Standing is one row of the table as computed upstream.
type Standing struct {
	Position     int    `json:"position"`
	TeamID       int64  `json:"teamId"`
	TeamName     string `json:"teamName"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	GoalDiff     int    `json:"goalDiff"`
	Points       int    `json:"points"`
}

// Scorer is one row of the top-scorers table as aggregated upstream.
type Scorer struct {
	Rank       int    `json:"rank"`
	PlayerID   int64  `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName"`
	Goals      int    `json:"goals"`
}
