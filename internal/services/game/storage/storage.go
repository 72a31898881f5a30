package storage

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/domain/sim"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a create for an id already stored.
	ErrAlreadyExists = errors.New("record already exists")
)

// GameRecord is a game as persisted between simulate requests.
type GameRecord struct {
	ID    string
	State game.State
	// HomeStaff and AwayStaff are the pitching manager snapshots.
	HomeStaff []pitching.PitcherState
	AwayStaff []pitching.PitcherState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayRecord is one stored plate appearance.
type PlayRecord struct {
	GameID string      `json:"game_id"`
	Play   game.Play   `json:"play"`
	Change *sim.Change `json:"change,omitempty"`
}

// GameResult is a completed game's final score.
type GameResult struct {
	GameID     string
	HomeTeamID string
	AwayTeamID string
	HomeRuns   int
	AwayRuns   int
}

// StandingRecord is a team's season record.
type StandingRecord struct {
	TeamID      string `json:"team_id"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	RunsFor     int    `json:"runs_for"`
	RunsAgainst int    `json:"runs_against"`
	GamesPlayed int    `json:"games_played"`
}

// Apply adds one result from the team's point of view.
func (r StandingRecord) Apply(runsFor, runsAgainst int) StandingRecord {
	r.GamesPlayed++
	r.RunsFor += runsFor
	r.RunsAgainst += runsAgainst
	switch {
	case runsFor > runsAgainst:
		r.Wins++
	case runsFor < runsAgainst:
		r.Losses++
	}
	return r
}

// PlayerStore persists players and their stat lines.
type PlayerStore interface {
	PutPlayer(ctx context.Context, p roster.Player) error
	GetPlayer(ctx context.Context, id string) (roster.Player, error)
	ListPlayers(ctx context.Context) ([]roster.Player, error)
}

// GameStore persists game state.
type GameStore interface {
	CreateGame(ctx context.Context, g GameRecord) error
	GetGame(ctx context.Context, id string) (GameRecord, error)
	UpdateGame(ctx context.Context, g GameRecord) error
}

// PlayStore persists the play log. ListPlays returns plays in order along
// with the total number stored for the game.
type PlayStore interface {
	AppendPlays(ctx context.Context, gameID string, plays []PlayRecord) error
	ListPlays(ctx context.Context, gameID string, offset, limit int) ([]PlayRecord, int, error)
}

// StandingStore tracks team records across completed games.
type StandingStore interface {
	RecordResult(ctx context.Context, result GameResult) error
	ListStandings(ctx context.Context) ([]StandingRecord, error)
}

// Store is every store plus a transaction boundary. Calls made with the
// context passed to fn join the transaction.
type Store interface {
	PlayerStore
	GameStore
	PlayStore
	StandingStore
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SortStandings orders records by wins, then fewest losses, then team id.
func SortStandings(records []StandingRecord) {
	slices.SortFunc(records, func(a, b StandingRecord) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Losses, b.Losses); c != 0 {
			return c
		}
		return strings.Compare(a.TeamID, b.TeamID)
	})
}
