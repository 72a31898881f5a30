// Package wire defines the JSON request and response bodies shared by the
// gRPC and HTTP surfaces of the game service.
package wire

import (
	"time"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/service"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

// PutPlayerRequest creates or replaces a player.
type PutPlayerRequest struct {
	Player roster.Player `json:"player"`
}

// PlayerResponse carries one player.
type PlayerResponse struct {
	Player roster.Player `json:"player"`
}

// GetPlayerRequest names a player.
type GetPlayerRequest struct {
	PlayerID string `json:"player_id"`
}

// ListPlayersResponse carries every player.
type ListPlayersResponse struct {
	Players []roster.Player `json:"players"`
}

// CreateGameRequest schedules a game.
type CreateGameRequest struct {
	GameID     string         `json:"game_id,omitempty"`
	Home       game.TeamSetup `json:"home"`
	Away       game.TeamSetup `json:"away"`
	Seed       *uint32        `json:"seed,omitempty"`
	SeedText   string         `json:"seed_text,omitempty"`
	Handedness *bool          `json:"handedness,omitempty"`
}

// Input converts the request for the service.
func (r CreateGameRequest) Input() service.CreateGameInput {
	return service.CreateGameInput{
		ID:         r.GameID,
		Home:       r.Home,
		Away:       r.Away,
		Seed:       r.Seed,
		SeedText:   r.SeedText,
		Handedness: r.Handedness,
	}
}

// Game is a stored game.
type Game struct {
	ID        string                  `json:"id"`
	Winner    string                  `json:"winner,omitempty"`
	State     game.State              `json:"state"`
	HomeStaff []pitching.PitcherState `json:"home_staff"`
	AwayStaff []pitching.PitcherState `json:"away_staff"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// FromRecord converts a stored game.
func FromRecord(rec storage.GameRecord) Game {
	return Game{
		ID:        rec.ID,
		Winner:    rec.State.Winner(),
		State:     rec.State,
		HomeStaff: rec.HomeStaff,
		AwayStaff: rec.AwayStaff,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// GetGameRequest names a game.
type GetGameRequest struct {
	GameID string `json:"game_id"`
}

// GameResponse carries a game and the players it plays at league average.
type GameResponse struct {
	Game      Game     `json:"game"`
	Defaulted []string `json:"defaulted,omitempty"`
}

// FromView converts a service game view.
func FromView(v service.GameView) GameResponse {
	return GameResponse{Game: FromRecord(v.Game), Defaulted: v.Defaulted}
}

// SimulateRequest advances a game. Mode is play, inning or game.
type SimulateRequest struct {
	GameID string `json:"game_id"`
	Mode   string `json:"mode,omitempty"`
}

// SimulateResponse carries the new game state and the plays just made.
type SimulateResponse struct {
	Game  Game                 `json:"game"`
	Plays []storage.PlayRecord `json:"plays"`
}

// FromSimulate converts a simulate result.
func FromSimulate(r service.SimulateResult) SimulateResponse {
	return SimulateResponse{Game: FromRecord(r.Game), Plays: r.Plays}
}

// ListPlaysRequest pages through a game's plays.
type ListPlaysRequest struct {
	GameID    string `json:"game_id"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// ListPlaysResponse is one page of plays.
type ListPlaysResponse struct {
	Plays         []storage.PlayRecord `json:"plays"`
	Total         int                  `json:"total"`
	NextPageToken string               `json:"next_page_token,omitempty"`
}

// FromPage converts a service play page.
func FromPage(p service.PlayPage) ListPlaysResponse {
	return ListPlaysResponse{Plays: p.Plays, Total: p.Total, NextPageToken: p.NextPageToken}
}

// ListStandingsResponse carries every team's record, best first.
type ListStandingsResponse struct {
	Standings []storage.StandingRecord `json:"standings"`
}

// Empty is a request without fields.
type Empty struct{}
