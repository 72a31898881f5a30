package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	m := New()
	p := roster.Player{ID: "b", Name: "Bea", Batting: &probability.BattingStats{PA: 10, H: 3}}
	if err := m.PutPlayer(ctx, p); err != nil {
		t.Fatalf("PutPlayer: %v", err)
	}
	if err := m.PutPlayer(ctx, roster.Player{ID: "a", Batting: &probability.BattingStats{}}); err != nil {
		t.Fatalf("PutPlayer: %v", err)
	}
	p.Batting.H = 9
	got, err := m.GetPlayer(ctx, "b")
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if got.Batting.H != 3 {
		t.Fatalf("stored player shares caller memory: H = %d", got.Batting.H)
	}
	list, err := m.ListPlayers(ctx)
	if err != nil || len(list) != 2 || list[0].ID != "a" {
		t.Fatalf("ListPlayers = %+v, %v", list, err)
	}
	if _, err := m.GetPlayer(ctx, "zz"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := m.PutPlayer(ctx, roster.Player{}); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("err = %v, want ErrIDRequired", err)
	}
}

func TestGames(t *testing.T) {
	ctx := context.Background()
	m := New()
	g := storage.GameRecord{ID: "g1", State: game.State{ID: "g1", Inning: 1}}
	if err := m.CreateGame(ctx, g); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := m.CreateGame(ctx, g); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	g.State.Inning = 4
	if err := m.UpdateGame(ctx, g); err != nil {
		t.Fatalf("UpdateGame: %v", err)
	}
	got, err := m.GetGame(ctx, "g1")
	if err != nil || got.State.Inning != 4 {
		t.Fatalf("GetGame = %+v, %v", got.State, err)
	}
	if err := m.UpdateGame(ctx, storage.GameRecord{ID: "nope"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPlaysPaging(t *testing.T) {
	ctx := context.Background()
	m := New()
	var plays []storage.PlayRecord
	for i := 1; i <= 5; i++ {
		plays = append(plays, storage.PlayRecord{Play: game.Play{Number: i}})
	}
	if err := m.AppendPlays(ctx, "g1", plays); err != nil {
		t.Fatalf("AppendPlays: %v", err)
	}
	got, total, err := m.ListPlays(ctx, "g1", 2, 2)
	if err != nil {
		t.Fatalf("ListPlays: %v", err)
	}
	if total != 5 || len(got) != 2 || got[0].Play.Number != 3 || got[0].GameID != "g1" {
		t.Fatalf("ListPlays = %+v, total %d", got, total)
	}
	got, _, _ = m.ListPlays(ctx, "g1", 9, 2)
	if len(got) != 0 {
		t.Fatalf("past end = %d plays", len(got))
	}
}

func TestStandings(t *testing.T) {
	ctx := context.Background()
	m := New()
	results := []storage.GameResult{
		{HomeTeamID: "h", AwayTeamID: "a", HomeRuns: 5, AwayRuns: 2},
		{HomeTeamID: "a", AwayTeamID: "h", HomeRuns: 1, AwayRuns: 3},
	}
	for _, r := range results {
		if err := m.RecordResult(ctx, r); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}
	got, err := m.ListStandings(ctx)
	if err != nil {
		t.Fatalf("ListStandings: %v", err)
	}
	want := []storage.StandingRecord{
		{TeamID: "h", Wins: 2, RunsFor: 8, RunsAgainst: 3, GamesPlayed: 2},
		{TeamID: "a", Losses: 2, RunsFor: 3, RunsAgainst: 8, GamesPlayed: 2},
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

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().WithTx(ctx, func(context.Context) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
