package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

const (
	tablePlayers   = "players"
	tableGames     = "games"
	tablePlays     = "plays"
	tableStandings = "standings"
)

// PutPlayer creates or replaces a player.
func (s *Store) PutPlayer(ctx context.Context, p roster.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode player %s: %w", p.ID, err)
	}
	_, err = s.exec(ctx, s.sb.Insert(tablePlayers).
		Columns("id", "name", "data", "updated_at").
		Values(p.ID, p.Name, string(data), toMillis(s.now())).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at"))
	if err != nil {
		return fmt.Errorf("put player %s: %w", p.ID, err)
	}
	return nil
}

// GetPlayer returns the player with id.
func (s *Store) GetPlayer(ctx context.Context, id string) (roster.Player, error) {
	row, err := s.queryRow(ctx, s.sb.Select("data").From(tablePlayers).Where(sq.Eq{"id": id}))
	if err != nil {
		return roster.Player{}, err
	}
	var data string
	if err := row.Scan(&data); err != nil {
		return roster.Player{}, notFound(err)
	}
	var p roster.Player
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return roster.Player{}, fmt.Errorf("decode player %s: %w", id, err)
	}
	return p, nil
}

// ListPlayers returns every player ordered by id.
func (s *Store) ListPlayers(ctx context.Context) ([]roster.Player, error) {
	rows, err := s.query(ctx, s.sb.Select("data").From(tablePlayers).OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()
	var out []roster.Player
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		var p roster.Player
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decode player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// gameRow is the encoded form of a GameRecord.
type gameRow struct {
	state, home, away string
}

func encodeGame(g storage.GameRecord) (gameRow, error) {
	state, err := json.Marshal(g.State)
	if err != nil {
		return gameRow{}, fmt.Errorf("encode game %s state: %w", g.ID, err)
	}
	home, err := json.Marshal(g.HomeStaff)
	if err != nil {
		return gameRow{}, fmt.Errorf("encode game %s home staff: %w", g.ID, err)
	}
	away, err := json.Marshal(g.AwayStaff)
	if err != nil {
		return gameRow{}, fmt.Errorf("encode game %s away staff: %w", g.ID, err)
	}
	return gameRow{state: string(state), home: string(home), away: string(away)}, nil
}

// CreateGame stores a new game.
func (s *Store) CreateGame(ctx context.Context, g storage.GameRecord) error {
	row, err := encodeGame(g)
	if err != nil {
		return err
	}
	now := s.now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	res, err := s.exec(ctx, s.sb.Insert(tableGames).
		Columns("id", "status", "home_team_id", "away_team_id", "state", "home_staff", "away_staff", "created_at", "updated_at").
		Values(g.ID, string(g.State.Status), g.State.Home.TeamID, g.State.Away.TeamID, row.state, row.home, row.away, toMillis(g.CreatedAt), toMillis(now)).
		Suffix("ON CONFLICT (id) DO NOTHING"))
	if err != nil {
		return fmt.Errorf("create game %s: %w", g.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrAlreadyExists
	}
	return nil
}

// GetGame returns the game with id.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	row, err := s.queryRow(ctx, s.sb.Select("state", "home_staff", "away_staff", "created_at", "updated_at").
		From(tableGames).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return storage.GameRecord{}, err
	}
	var (
		state, home, away string
		created, updated  int64
	)
	if err := row.Scan(&state, &home, &away, &created, &updated); err != nil {
		return storage.GameRecord{}, notFound(err)
	}
	g := storage.GameRecord{ID: id, CreatedAt: fromMillis(created), UpdatedAt: fromMillis(updated)}
	if err := json.Unmarshal([]byte(state), &g.State); err != nil {
		return storage.GameRecord{}, fmt.Errorf("decode game %s state: %w", id, err)
	}
	if err := json.Unmarshal([]byte(home), &g.HomeStaff); err != nil {
		return storage.GameRecord{}, fmt.Errorf("decode game %s home staff: %w", id, err)
	}
	if err := json.Unmarshal([]byte(away), &g.AwayStaff); err != nil {
		return storage.GameRecord{}, fmt.Errorf("decode game %s away staff: %w", id, err)
	}
	return g, nil
}

// UpdateGame replaces a stored game's state and staffs.
func (s *Store) UpdateGame(ctx context.Context, g storage.GameRecord) error {
	row, err := encodeGame(g)
	if err != nil {
		return err
	}
	res, err := s.exec(ctx, s.sb.Update(tableGames).
		Set("status", string(g.State.Status)).
		Set("state", row.state).
		Set("home_staff", row.home).
		Set("away_staff", row.away).
		Set("updated_at", toMillis(s.now())).
		Where(sq.Eq{"id": g.ID}))
	if err != nil {
		return fmt.Errorf("update game %s: %w", g.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendPlays adds plays to a game's log, keyed by play number.
func (s *Store) AppendPlays(ctx context.Context, gameID string, plays []storage.PlayRecord) error {
	if len(plays) == 0 {
		return nil
	}
	insert := s.sb.Insert(tablePlays).Columns("game_id", "number", "data")
	for _, p := range plays {
		p.GameID = gameID
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode play %d: %w", p.Play.Number, err)
		}
		insert = insert.Values(gameID, p.Play.Number, string(data))
	}
	if _, err := s.exec(ctx, insert); err != nil {
		return fmt.Errorf("append plays for %s: %w", gameID, err)
	}
	return nil
}

// ListPlays returns up to limit plays starting at offset, in play order.
func (s *Store) ListPlays(ctx context.Context, gameID string, offset, limit int) ([]storage.PlayRecord, int, error) {
	row, err := s.queryRow(ctx, s.sb.Select("COUNT(*)").From(tablePlays).Where(sq.Eq{"game_id": gameID}))
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plays: %w", err)
	}

	q := s.sb.Select("data").From(tablePlays).
		Where(sq.Eq{"game_id": gameID}).
		OrderBy("number").
		Offset(uint64(max(offset, 0)))
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list plays: %w", err)
	}
	defer rows.Close()
	var out []storage.PlayRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, 0, fmt.Errorf("scan play: %w", err)
		}
		var p storage.PlayRecord
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, 0, fmt.Errorf("decode play: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// RecordResult credits both teams with a completed game.
func (s *Store) RecordResult(ctx context.Context, r storage.GameResult) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.addResult(ctx, r.HomeTeamID, r.HomeRuns, r.AwayRuns); err != nil {
			return err
		}
		return s.addResult(ctx, r.AwayTeamID, r.AwayRuns, r.HomeRuns)
	})
}

func (s *Store) addResult(ctx context.Context, teamID string, runsFor, runsAgainst int) error {
	delta := storage.StandingRecord{}.Apply(runsFor, runsAgainst)
	_, err := s.exec(ctx, s.sb.Insert(tableStandings).
		Columns("team_id", "wins", "losses", "runs_for", "runs_against", "games_played").
		Values(teamID, delta.Wins, delta.Losses, delta.RunsFor, delta.RunsAgainst, delta.GamesPlayed).
		Suffix(`ON CONFLICT (team_id) DO UPDATE SET
    wins = standings.wins + excluded.wins,
    losses = standings.losses + excluded.losses,
    runs_for = standings.runs_for + excluded.runs_for,
    runs_against = standings.runs_against + excluded.runs_against,
    games_played = standings.games_played + excluded.games_played`))
	if err != nil {
		return fmt.Errorf("record result for %s: %w", teamID, err)
	}
	return nil
}

// ListStandings returns every team's record, best first.
func (s *Store) ListStandings(ctx context.Context) ([]storage.StandingRecord, error) {
	rows, err := s.query(ctx, s.sb.Select("team_id", "wins", "losses", "runs_for", "runs_against", "games_played").From(tableStandings))
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()
	var out []storage.StandingRecord
	for rows.Next() {
		var r storage.StandingRecord
		if err := rows.Scan(&r.TeamID, &r.Wins, &r.Losses, &r.RunsFor, &r.RunsAgainst, &r.GamesPlayed); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	storage.SortStandings(out)
	return out, nil
}
