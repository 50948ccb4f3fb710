package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golazoapp/golazo/internal/models"
)

// LoginResult is the /auth/login reply: the bearer token plus the username
// it was issued for.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// GET /tournaments
func (c *Client) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	if err := c.get(ctx, "/tournaments", &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

// GET /tournaments/{id}/matchdays
func (c *Client) ListMatchDays(ctx context.Context, tournamentID int64) ([]models.MatchDay, error) {
	var days []models.MatchDay
	if err := c.get(ctx, fmt.Sprintf("/tournaments/%d/matchdays", tournamentID), &days); err != nil {
		return nil, err
	}
	return days, nil
}

// MatchDayPayload creates a match-day. Duplicate date ranges come back as
// 409 or 500 depending on the deployment; see IsConflict.
type MatchDayPayload struct {
	TournamentID int64       `json:"tournamentId"`
	Label        string      `json:"label"`
	StartDate    models.Date `json:"startDate"`
	EndDate      models.Date `json:"endDate"`
}

// POST /matchdays
func (c *Client) CreateMatchDay(ctx context.Context, payload MatchDayPayload) (models.MatchDay, error) {
	var day models.MatchDay
	if err := c.do(ctx, http.MethodPost, "/matchdays", payload, &day); err != nil {
		return models.MatchDay{}, err
	}
	return day, nil
}

// GET /tournaments/{id}/teams
func (c *Client) ListTeams(ctx context.Context, tournamentID int64) ([]models.Team, error) {
	var teams []models.Team
	if err := c.get(ctx, fmt.Sprintf("/tournaments/%d/teams", tournamentID), &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GET /teams/{id}
func (c *Client) GetTeam(ctx context.Context, teamID int64) (models.Team, error) {
	var team models.Team
	if err := c.get(ctx, fmt.Sprintf("/teams/%d", teamID), &team); err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// TeamPayload creates or updates a team.
type TeamPayload struct {
	TournamentID int64  `json:"tournamentId"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName"`
	Active       bool   `json:"active"`
	Banned       bool   `json:"banned"`
}

// POST /teams
func (c *Client) CreateTeam(ctx context.Context, payload TeamPayload) (models.Team, error) {
	var team models.Team
	if err := c.do(ctx, http.MethodPost, "/teams", payload, &team); err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// PUT /teams/{id}
func (c *Client) UpdateTeam(ctx context.Context, teamID int64, payload TeamPayload) (models.Team, error) {
	var team models.Team
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/teams/%d", teamID), payload, &team); err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// DELETE /teams/{id}
func (c *Client) DeleteTeam(ctx context.Context, teamID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/teams/%d", teamID), nil, nil)
}

// GET /teams/{id}/players
func (c *Client) ListPlayers(ctx context.Context, teamID int64) ([]models.Player, error) {
	var players []models.Player
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/players", teamID), &players); err != nil {
		return nil, err
	}
	return players, nil
}

// PlayerPayload creates or updates a roster entry.
type PlayerPayload struct {
	TeamID   int64  `json:"teamId"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

// POST /players
func (c *Client) CreatePlayer(ctx context.Context, payload PlayerPayload) (models.Player, error) {
	var player models.Player
	if err := c.do(ctx, http.MethodPost, "/players", payload, &player); err != nil {
		return models.Player{}, err
	}
	return player, nil
}

// PUT /players/{id}
func (c *Client) UpdatePlayer(ctx context.Context, playerID int64, payload PlayerPayload) (models.Player, error) {
	var player models.Player
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/players/%d", playerID), payload, &player); err != nil {
		return models.Player{}, err
	}
	return player, nil
}

// DELETE /players/{id}
func (c *Client) DeletePlayer(ctx context.Context, playerID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/players/%d", playerID), nil, nil)
}

// GET /matchdays/{id}/matches
func (c *Client) ListMatches(ctx context.Context, matchDayID int64) ([]models.Match, error) {
	var matches []models.Match
	if err := c.get(ctx, fmt.Sprintf("/matchdays/%d/matches", matchDayID), &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// GET /matches/{id}
func (c *Client) GetMatch(ctx context.Context, matchID int64) (models.Match, error) {
	var match models.Match
	if err := c.get(ctx, fmt.Sprintf("/matches/%d", matchID), &match); err != nil {
		return models.Match{}, err
	}
	return match, nil
}

// MatchPayload is the flat scheduling payload: ids plus the slot-resolved
// date, time, and venue.
type MatchPayload struct {
	TournamentID  int64              `json:"tournamentId"`
	MatchDayID    int64              `json:"matchDayId"`
	HomeTeamID    int64              `json:"homeTeamId"`
	AwayTeamID    int64              `json:"awayTeamId"`
	Date          models.Date        `json:"date"`
	ScheduledTime string             `json:"scheduledTime"`
	Venue         string             `json:"venue"`
	Status        models.MatchStatus `json:"status"`
}

// POST /matches
func (c *Client) CreateMatch(ctx context.Context, payload MatchPayload) (models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPost, "/matches", payload, &match); err != nil {
		return models.Match{}, err
	}
	return match, nil
}

// PUT /matches/{id}
func (c *Client) UpdateMatch(ctx context.Context, matchID int64, payload MatchPayload) (models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/matches/%d", matchID), payload, &match); err != nil {
		return models.Match{}, err
	}
	return match, nil
}

// DELETE /matches/{id}
func (c *Client) DeleteMatch(ctx context.Context, matchID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/matches/%d", matchID), nil, nil)
}

// ResultPayload saves a captured result. Scores here are the cached copy of
// the per-side goal counts; the goals list remains the source of truth.
type ResultPayload struct {
	HomeScore int                `json:"homeScore"`
	AwayScore int                `json:"awayScore"`
	Status    models.MatchStatus `json:"status"`
}

// PUT /matches/{id}/result
func (c *Client) SaveResult(ctx context.Context, matchID int64, payload ResultPayload) (models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/matches/%d/result", matchID), payload, &match); err != nil {
		return models.Match{}, err
	}
	return match, nil
}

// POST /matchdays/{id}/generate[?force=true] — the server-side random draw.
// The reply replaces the whole local match list.
func (c *Client) GenerateMatches(ctx context.Context, matchDayID int64, force bool) ([]models.Match, error) {
	path := fmt.Sprintf("/matchdays/%d/generate", matchDayID)
	if force {
		path += "?force=true"
	}
	var matches []models.Match
	if err := c.do(ctx, http.MethodPost, path, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// GET /matchdays/{id}/availability
func (c *Client) ListAvailability(ctx context.Context, matchDayID int64) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	if err := c.get(ctx, fmt.Sprintf("/matchdays/%d/availability", matchDayID), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// SlotPayload declares a new availability slot within a match-day.
type SlotPayload struct {
	DayOfWeek models.Weekday `json:"dayOfWeek"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Field     string         `json:"field"`
}

// POST /matchdays/{id}/availability
func (c *Client) CreateAvailability(ctx context.Context, matchDayID int64, payload SlotPayload) (models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/matchdays/%d/availability", matchDayID), payload, &slot); err != nil {
		return models.AvailabilitySlot{}, err
	}
	return slot, nil
}

// DELETE /availability/{id}
func (c *Client) DeleteAvailability(ctx context.Context, slotID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/availability/%d", slotID), nil, nil)
}

// GET /matches/{id}/goals
func (c *Client) ListGoals(ctx context.Context, matchID int64) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.get(ctx, fmt.Sprintf("/matches/%d/goals", matchID), &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// GoalPayload records a goal for a player of one of the match's teams.
type GoalPayload struct {
	MatchID  int64 `json:"matchId"`
	TeamID   int64 `json:"teamId"`
	PlayerID int64 `json:"playerId"`
	Minute   int   `json:"minute"`
}

// POST /goals
func (c *Client) CreateGoal(ctx context.Context, payload GoalPayload) (models.Goal, error) {
	var goal models.Goal
	if err := c.do(ctx, http.MethodPost, "/goals", payload, &goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// DELETE /goals/{id}
func (c *Client) DeleteGoal(ctx context.Context, goalID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/goals/%d", goalID), nil, nil)
}

// GET /permissions
func (c *Client) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	if err := c.get(ctx, "/permissions", &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

// PermissionPayload registers an absence justification.
type PermissionPayload struct {
	TeamID     int64  `json:"teamId"`
	MatchDayID int64  `json:"matchDayId"`
	Reason     string `json:"reason"`
}

// POST /permissions
func (c *Client) CreatePermission(ctx context.Context, payload PermissionPayload) (models.Permission, error) {
	var permission models.Permission
	if err := c.do(ctx, http.MethodPost, "/permissions", payload, &permission); err != nil {
		return models.Permission{}, err
	}
	return permission, nil
}

// DELETE /permissions/{id}
func (c *Client) DeletePermission(ctx context.Context, permissionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/permissions/%d", permissionID), nil, nil)
}

// GET /tournaments/{id}/standings
func (c *Client) Standings(ctx context.Context, tournamentID int64) ([]models.Standing, error) {
	var standings []models.Standing
	if err := c.get(ctx, fmt.Sprintf("/tournaments/%d/standings", tournamentID), &standings); err != nil {
		return nil, err
	}
	return standings, nil
}

// GET /tournaments/{id}/scorers
func (c *Client) Scorers(ctx context.Context, tournamentID int64) ([]models.Scorer, error) {
	var scorers []models.Scorer
	if err := c.get(ctx, fmt.Sprintf("/tournaments/%d/scorers", tournamentID), &scorers); err != nil {
		return nil, err
	}
	return scorers, nil
}
