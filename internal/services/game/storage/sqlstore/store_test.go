package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/domain/sim"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "garoball.sqlite")
	s, err := Open(context.Background(), DialectSQLite, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return s
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", DialectSQLite, false},
		{"SQLite", DialectSQLite, false},
		{"postgres", DialectPostgres, false},
		{"pgx", DialectPostgres, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("ParseDialect(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), DialectSQLite, " "); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garoball.sqlite")
	ctx := context.Background()
	s, err := Open(ctx, DialectSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.PutPlayer(ctx, roster.Player{ID: "p", Batting: &probability.BattingStats{PA: 4}}); err != nil {
		t.Fatalf("PutPlayer: %v", err)
	}
	_ = s.Close()

	s, err = Open(ctx, DialectSQLite, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.GetPlayer(ctx, "p"); err != nil {
		t.Fatalf("GetPlayer after reopen: %v", err)
	}
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	p := roster.Player{ID: "b", Name: "Bea", Bats: probability.HandLeft, Batting: &probability.BattingStats{PA: 600, AB: 540, H: 160, HR: 20, BB: 60}}
	if err := s.PutPlayer(ctx, p); err != nil {
		t.Fatalf("PutPlayer: %v", err)
	}
	p.Name = "Bea Two"
	if err := s.PutPlayer(ctx, p); err != nil {
		t.Fatalf("PutPlayer replace: %v", err)
	}
	if err := s.PutPlayer(ctx, roster.Player{ID: "a", Pitching: &probability.PitchingStats{IPOuts: 30}}); err != nil {
		t.Fatalf("PutPlayer: %v", err)
	}

	got, err := s.GetPlayer(ctx, "b")
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if got.Name != "Bea Two" || got.Bats != probability.HandLeft || got.Batting.HR != 20 {
		t.Fatalf("player = %+v", got)
	}
	list, err := s.ListPlayers(ctx)
	if err != nil || len(list) != 2 || list[0].ID != "a" {
		t.Fatalf("ListPlayers = %+v, %v", list, err)
	}
	if _, err := s.GetPlayer(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGameRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	r := roster.Sample()
	setup, err := r.Setup("g1", "harbor", "summit", 7, true)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	state, err := game.New(setup)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	cfg := sim.DefaultConfig()
	home, away := sim.Managers(cfg, r.Ratings(), state, nil, nil)
	res, err := sim.Engine{Config: cfg, Ratings: r.Ratings(), Home: home, Away: away}.Run(ctx, state, sim.ModeInning)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := storage.GameRecord{ID: "g1", State: state, HomeStaff: home.Snapshot(), AwayStaff: away.Snapshot()}
	if err := s.CreateGame(ctx, rec); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := s.CreateGame(ctx, rec); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	rec.State = res.State
	if err := s.UpdateGame(ctx, rec); err != nil {
		t.Fatalf("UpdateGame: %v", err)
	}

	got, err := s.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.State.RNG != res.State.RNG || got.State.Half != res.State.Half || got.State.Plays != res.State.Plays {
		t.Fatalf("state = %+v, want %+v", got.State, res.State)
	}
	if got.State.Box.Away.Runs() != res.State.Box.Away.Runs() {
		t.Fatalf("box runs = %d, want %d", got.State.Box.Away.Runs(), res.State.Box.Away.Runs())
	}
	if len(got.HomeStaff) != len(rec.HomeStaff) {
		t.Fatalf("home staff = %d, want %d", len(got.HomeStaff), len(rec.HomeStaff))
	}
	for i := range rec.HomeStaff {
		if got.HomeStaff[i] != rec.HomeStaff[i] {
			t.Fatalf("home staff[%d] = %+v, want %+v", i, got.HomeStaff[i], rec.HomeStaff[i])
		}
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("timestamps = %v, %v", got.CreatedAt, got.UpdatedAt)
	}

	// The stored generator position resumes the same stream.
	next := rng.Restore(got.State.RNG)
	want := rng.Restore(res.State.RNG)
	if next.Float64() != want.Float64() {
		t.Fatal("restored generator diverged")
	}

	if err := s.UpdateGame(ctx, storage.GameRecord{ID: "nope", HomeStaff: []pitching.PitcherState{}}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetGame(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPlaysPaging(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.CreateGame(ctx, storage.GameRecord{ID: "g1"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	var plays []storage.PlayRecord
	for i := 1; i <= 7; i++ {
		plays = append(plays, storage.PlayRecord{Play: game.Play{Number: i, Outcome: probability.Out}})
	}
	plays[2].Change = &sim.Change{Outgoing: "a", Incoming: "b"}
	if err := s.AppendPlays(ctx, "g1", plays); err != nil {
		t.Fatalf("AppendPlays: %v", err)
	}

	got, total, err := s.ListPlays(ctx, "g1", 2, 3)
	if err != nil {
		t.Fatalf("ListPlays: %v", err)
	}
	if total != 7 || len(got) != 3 {
		t.Fatalf("ListPlays = %d plays, total %d", len(got), total)
	}
	if got[0].Play.Number != 3 || got[0].Change == nil || got[0].Change.Incoming != "b" || got[0].GameID != "g1" {
		t.Fatalf("first play = %+v", got[0])
	}
	all, _, err := s.ListPlays(ctx, "g1", 0, 0)
	if err != nil || len(all) != 7 {
		t.Fatalf("ListPlays all = %d, %v", len(all), err)
	}
	if err := s.AppendPlays(ctx, "g1", plays[:1]); err == nil {
		t.Fatal("expected duplicate play number to fail")
	}
}

func TestStandings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for _, r := range []storage.GameResult{
		{HomeTeamID: "h", AwayTeamID: "a", HomeRuns: 4, AwayRuns: 6},
		{HomeTeamID: "h", AwayTeamID: "a", HomeRuns: 2, AwayRuns: 1},
		{HomeTeamID: "c", AwayTeamID: "a", HomeRuns: 0, AwayRuns: 9},
	} {
		if err := s.RecordResult(ctx, r); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}
	got, err := s.ListStandings(ctx)
	if err != nil {
		t.Fatalf("ListStandings: %v", err)
	}
	want := []storage.StandingRecord{
		{TeamID: "a", Wins: 2, Losses: 1, RunsFor: 16, RunsAgainst: 6, GamesPlayed: 3},
		{TeamID: "h", Wins: 1, Losses: 1, RunsFor: 6, RunsAgainst: 7, GamesPlayed: 2},
		{TeamID: "c", Wins: 0, Losses: 1, RunsFor: 0, RunsAgainst: 9, GamesPlayed: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("standings = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("standings[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.CreateGame(ctx, storage.GameRecord{ID: "g1"}); err != nil {
			return err
		}
		if err := s.RecordResult(ctx, storage.GameResult{HomeTeamID: "h", AwayTeamID: "a", HomeRuns: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := s.GetGame(ctx, "g1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("game survived rollback: %v", err)
	}
	standings, err := s.ListStandings(ctx)
	if err != nil || len(standings) != 0 {
		t.Fatalf("standings survived rollback: %+v, %v", standings, err)
	}
}

func TestTimestampsUseClock(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }
	if err := s.CreateGame(ctx, storage.GameRecord{ID: "g1"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	got, err := s.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if !got.CreatedAt.Equal(at) || !got.UpdatedAt.Equal(at) {
		t.Fatalf("timestamps = %v, %v, want %v", got.CreatedAt, got.UpdatedAt, at)
	}
}
