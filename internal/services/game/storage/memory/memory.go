// Package memory implements the game stores in process memory.
package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

// ErrIDRequired indicates a record without an id.
var ErrIDRequired = errors.New("id is required")

// Store keeps every record in maps guarded by one mutex. Records are copied
// in and out so callers never share state with the store.
//
// WithTx runs fn directly and does not roll back on error.
type Store struct {
	mu        sync.Mutex
	players   map[string]roster.Player
	games     map[string]storage.GameRecord
	plays     map[string][]storage.PlayRecord
	standings map[string]storage.StandingRecord
}

var _ storage.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		players:   make(map[string]roster.Player),
		games:     make(map[string]storage.GameRecord),
		plays:     make(map[string][]storage.PlayRecord),
		standings: make(map[string]storage.StandingRecord),
	}
}

// WithTx runs fn with ctx.
func (m *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// PutPlayer creates or replaces a player.
func (m *Store) PutPlayer(ctx context.Context, p roster.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return ErrIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = clonePlayer(p)
	return nil
}

// GetPlayer returns the player with id.
func (m *Store) GetPlayer(ctx context.Context, id string) (roster.Player, error) {
	if err := ctx.Err(); err != nil {
		return roster.Player{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return roster.Player{}, storage.ErrNotFound
	}
	return clonePlayer(p), nil
}

// ListPlayers returns every player ordered by id.
func (m *Store) ListPlayers(ctx context.Context) ([]roster.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]roster.Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, clonePlayer(p))
	}
	sortPlayers(out)
	return out, nil
}

// CreateGame stores a new game.
func (m *Store) CreateGame(ctx context.Context, g storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(g.ID) == "" {
		return ErrIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; ok {
		return storage.ErrAlreadyExists
	}
	m.games[g.ID] = cloneGame(g)
	return nil
}

// GetGame returns the game with id.
func (m *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	return cloneGame(g), nil
}

// UpdateGame replaces a stored game.
func (m *Store) UpdateGame(ctx context.Context, g storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.games[g.ID]
	if !ok {
		return storage.ErrNotFound
	}
	g.CreatedAt = prev.CreatedAt
	m.games[g.ID] = cloneGame(g)
	return nil
}

// AppendPlays adds plays to the end of a game's log.
func (m *Store) AppendPlays(ctx context.Context, gameID string, plays []storage.PlayRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range plays {
		p.GameID = gameID
		m.plays[gameID] = append(m.plays[gameID], p)
	}
	return nil
}

// ListPlays returns up to limit plays starting at offset.
func (m *Store) ListPlays(ctx context.Context, gameID string, offset, limit int) ([]storage.PlayRecord, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.plays[gameID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := total
	if limit > 0 {
		end = min(total, offset+limit)
	}
	return append([]storage.PlayRecord(nil), all[offset:end]...), total, nil
}

// RecordResult credits both teams with a completed game.
func (m *Store) RecordResult(ctx context.Context, r storage.GameResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	home := m.standings[r.HomeTeamID]
	home.TeamID = r.HomeTeamID
	m.standings[r.HomeTeamID] = home.Apply(r.HomeRuns, r.AwayRuns)
	away := m.standings[r.AwayTeamID]
	away.TeamID = r.AwayTeamID
	m.standings[r.AwayTeamID] = away.Apply(r.AwayRuns, r.HomeRuns)
	return nil
}

// ListStandings returns every team's record, best first.
func (m *Store) ListStandings(ctx context.Context) ([]storage.StandingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storage.StandingRecord, 0, len(m.standings))
	for _, r := range m.standings {
		out = append(out, r)
	}
	storage.SortStandings(out)
	return out, nil
}

func clonePlayer(p roster.Player) roster.Player {
	if p.Batting != nil {
		b := *p.Batting
		p.Batting = &b
	}
	if p.Pitching != nil {
		s := *p.Pitching
		p.Pitching = &s
	}
	return p
}

func cloneGame(g storage.GameRecord) storage.GameRecord {
	g.State = g.State.Clone()
	g.HomeStaff = append([]pitching.PitcherState(nil), g.HomeStaff...)
	g.AwayStaff = append([]pitching.PitcherState(nil), g.AwayStaff...)
	return g
}

func sortPlayers(players []roster.Player) {
	slices.SortFunc(players, func(a, b roster.Player) int { return strings.Compare(a.ID, b.ID) })
}
