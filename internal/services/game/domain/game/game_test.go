package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/louisbranch/garoball/internal/services/game/domain/baserunning"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

func lineup(prefix string) []string {
	ids := make([]string, MinLineupSize)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return ids
}

func testSetup() Setup {
	return Setup{
		ID:   "g1",
		Home: TeamSetup{TeamID: "home", Lineup: lineup("h"), Starter: "hp", Bullpen: []string{"hr1", "hr2"}},
		Away: TeamSetup{TeamID: "away", Lineup: lineup("a"), Starter: "ap"},
		Seed: 99,
	}
}

func newTestGame(t *testing.T) State {
	t.Helper()
	s, err := New(testSetup())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return s
}

func apply(t *testing.T, s State, outcome probability.Outcome) (State, Transition) {
	t.Helper()
	next, tr, err := s.Apply(PlateAppearance{Outcome: outcome, Dice: [3]int{1, 2, 3}, DiceIndex: 3})
	if err != nil {
		t.Fatalf("apply %s: %v", outcome, err)
	}
	return next, tr
}

// bottomOf returns s positioned at the bottom of inning with the given score.
func bottomOf(s State, inning, home, away int) State {
	s.Status = StatusInProgress
	s.Inning = inning
	s.Half = Bottom
	s.HomeScore = home
	s.AwayScore = away
	s.Pitcher = s.Away.ActivePitcher()
	s.Box.Away.Innings = make([]int, inning)
	s.Box.Home.Innings = make([]int, inning-1)
	return s
}

func TestNewGame(t *testing.T) {
	s := newTestGame(t)
	if s.Status != StatusScheduled || s.Inning != 1 || s.Half != Top || s.Outs != 0 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if s.Pitcher != "hp" {
		t.Fatalf("pitcher = %q, want home starter", s.Pitcher)
	}
	if s.CurrentBatter() != "a1" {
		t.Fatalf("batter = %q, want a1", s.CurrentBatter())
	}
	if _, ok := s.Box.Away.Pitching["ap"]; !ok {
		t.Fatal("expected away starter pitching line")
	}
	if len(s.Box.Home.Batting) != MinLineupSize {
		t.Fatalf("home batting lines = %d, want %d", len(s.Box.Home.Batting), MinLineupSize)
	}
	if s.RNG.Seed != 99 || s.RNG.Counter != 0 {
		t.Fatalf("rng = %+v, want seed 99", s.RNG)
	}
}

func TestSetupValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Setup)
		want   string
	}{
		{"short lineup", func(s *Setup) { s.Home.Lineup = s.Home.Lineup[:8] }, "Home lineup needs at least 9 players."},
		{"missing lineup", func(s *Setup) { s.Away.Lineup = nil }, "Away lineup is missing."},
		{"blank id", func(s *Setup) { s.Home.Lineup[3] = " " }, "Home lineup has invalid player ids."},
		{"duplicate", func(s *Setup) { s.Away.Lineup[8] = "a1" }, "Away lineup has duplicate player ids: a1."},
		{"missing pitcher", func(s *Setup) { s.Home.Starter = "" }, "Home pitcher is required."},
		{"same team", func(s *Setup) { s.Away.TeamID = "home" }, "Home and away teams must differ."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := testSetup()
			tt.mutate(&setup)
			_, err := New(setup)
			if !errors.Is(err, ErrInvalidSetup) {
				t.Fatalf("expected ErrInvalidSetup, got %v", err)
			}
			var setupErr *SetupError
			if !errors.As(err, &setupErr) || !slices.Contains(setupErr.Problems, tt.want) {
				t.Fatalf("problems = %v, want %q", setupErr, tt.want)
			}
		})
	}
}

func TestSummarizeIDs(t *testing.T) {
	if got := SummarizeIDs([]string{"a", "b"}); got != "a, b" {
		t.Fatalf("SummarizeIDs = %q", got)
	}
	got := SummarizeIDs([]string{"a", "b", "c", "d", "e", "f", "g"})
	if got != "a, b, c, d, e (+2 more)" {
		t.Fatalf("SummarizeIDs = %q", got)
	}
}

func TestApplySingle(t *testing.T) {
	s := newTestGame(t)
	next, tr := apply(t, s, probability.Single)

	if next.Status != StatusInProgress {
		t.Fatalf("status = %s, want in_progress", next.Status)
	}
	if next.Bases.First != "a1" {
		t.Fatalf("bases = %+v, want batter on first", next.Bases)
	}
	if next.Away.BatterIdx != 1 || next.Home.BatterIdx != 0 {
		t.Fatalf("batter idx away %d home %d", next.Away.BatterIdx, next.Home.BatterIdx)
	}
	if line := next.Box.Away.Batting["a1"]; line.AB != 1 || line.H != 1 {
		t.Fatalf("batting line = %+v", line)
	}
	if line := next.Box.Home.Pitching["hp"]; line.H != 1 {
		t.Fatalf("pitching line = %+v", line)
	}
	if next.Box.Away.Hits != 1 {
		t.Fatalf("team hits = %d, want 1", next.Box.Away.Hits)
	}
	if tr.Play.Number != 1 || tr.Play.BatterID != "a1" || tr.Play.PitcherID != "hp" {
		t.Fatalf("play = %+v", tr.Play)
	}
	if tr.Play.Explanation != "singles [1-2-3]" {
		t.Fatalf("explanation = %q", tr.Play.Explanation)
	}

	// The receiver is untouched.
	if s.Bases != (baserunning.Bases{}) || s.Box.Away.Batting["a1"].AB != 0 || s.Status != StatusScheduled {
		t.Fatalf("Apply mutated the receiver: %+v", s)
	}
}

func TestApplyCreditsRuns(t *testing.T) {
	s := newTestGame(t)
	s, _ = apply(t, s, probability.Walk)
	s, tr := apply(t, s, probability.HomeRun)

	if s.AwayScore != 2 || tr.Play.Runs != 2 {
		t.Fatalf("away score %d, play runs %d, want 2", s.AwayScore, tr.Play.Runs)
	}
	if line := s.Box.Away.Batting["a2"]; line.R != 1 || line.RBI != 2 || line.HR != 1 {
		t.Fatalf("hitter line = %+v", line)
	}
	if line := s.Box.Away.Batting["a1"]; line.R != 1 || line.AB != 0 || line.BB != 1 {
		t.Fatalf("runner line = %+v", line)
	}
	if line := s.Box.Home.Pitching["hp"]; line.R != 2 || line.ER != 2 || line.HR != 1 || line.BB != 1 {
		t.Fatalf("pitcher line = %+v", line)
	}
	if tr.Play.Explanation != "homers [1-2-3] - 2 runs score" {
		t.Fatalf("explanation = %q", tr.Play.Explanation)
	}
}

func TestThreeOutsFlipHalf(t *testing.T) {
	s := newTestGame(t)
	s, _ = apply(t, s, probability.Single)
	s, _ = apply(t, s, probability.Strikeout)
	s, _ = apply(t, s, probability.Out)
	s, tr := apply(t, s, probability.Strikeout)

	if !tr.HalfEnded {
		t.Fatal("expected half to end")
	}
	if s.Half != Bottom || s.Inning != 1 || s.Outs != 0 || s.PitcherOuts != 0 {
		t.Fatalf("state after third out: half %s inning %d outs %d", s.Half, s.Inning, s.Outs)
	}
	if !s.Bases.Empty() {
		t.Fatalf("bases = %+v, want empty", s.Bases)
	}
	if s.Pitcher != "ap" {
		t.Fatalf("pitcher = %q, want away starter", s.Pitcher)
	}
	if !slices.Equal(s.Box.Away.Innings, []int{0}) {
		t.Fatalf("away innings = %v, want [0]", s.Box.Away.Innings)
	}
	if s.CurrentBatter() != "h1" {
		t.Fatalf("batter = %q, want h1", s.CurrentBatter())
	}
	if s.Away.BatterIdx != 4 {
		t.Fatalf("away batter idx = %d, want 4", s.Away.BatterIdx)
	}
	if s.Box.Home.Pitching["hp"].IPOuts != 3 {
		t.Fatalf("ip outs = %d, want 3", s.Box.Home.Pitching["hp"].IPOuts)
	}

	for i := 0; i < 3; i++ {
		s, _ = apply(t, s, probability.Out)
	}
	if s.Half != Top || s.Inning != 2 || s.Pitcher != "hp" {
		t.Fatalf("expected top of 2nd with home starter, got %s %d %s", s.Half, s.Inning, s.Pitcher)
	}
	if s.CurrentBatter() != "a5" {
		t.Fatalf("lineup position should persist, got %q", s.CurrentBatter())
	}
}

func TestLineupWraps(t *testing.T) {
	s := newTestGame(t)
	for i := 0; i < MinLineupSize; i++ {
		s, _ = apply(t, s, probability.Walk)
	}
	if s.Away.BatterIdx != 0 || s.CurrentBatter() != "a1" {
		t.Fatalf("expected lineup to wrap, idx %d", s.Away.BatterIdx)
	}
}

func TestWalkOffEndsGameMidInning(t *testing.T) {
	s := bottomOf(newTestGame(t), 9, 2, 2)
	s.Outs = 1
	s.Bases = baserunning.Bases{Third: "h4"}

	s, tr := apply(t, s, probability.Single)
	if !tr.Completed || s.Status != StatusCompleted {
		t.Fatalf("expected walk-off completion, got %s", s.Status)
	}
	if s.Outs != 1 || s.HomeScore != 3 {
		t.Fatalf("outs %d home %d, want 1 and 3", s.Outs, s.HomeScore)
	}
	if s.Winner() != "home" {
		t.Fatalf("winner = %q, want home", s.Winner())
	}
	if len(s.Box.Home.Innings) != 9 || s.Box.Home.Innings[8] != 1 {
		t.Fatalf("home innings = %v, want 9 entries ending in 1", s.Box.Home.Innings)
	}
	if _, _, err := s.Apply(PlateAppearance{Outcome: probability.Out}); !errors.Is(err, ErrGameCompleted) {
		t.Fatalf("expected ErrGameCompleted, got %v", err)
	}
}

func TestNoWalkOffBeforeNinth(t *testing.T) {
	s := bottomOf(newTestGame(t), 8, 2, 2)
	s.Bases = baserunning.Bases{Third: "h4"}
	s, _ = apply(t, s, probability.Single)
	if s.Completed() {
		t.Fatal("game should not end in the 8th")
	}
}

func TestHomeLeadAfterTopNinthCompletes(t *testing.T) {
	s := newTestGame(t)
	s.Status = StatusInProgress
	s.Inning = 9
	s.HomeScore = 3
	s.AwayScore = 1
	s.Outs = 2
	s.Box.Away.Innings = make([]int, 8)
	s.Box.Home.Innings = make([]int, 8)

	s, tr := apply(t, s, probability.Strikeout)
	if !tr.Completed || s.Winner() != "home" {
		t.Fatalf("expected home win after top of 9th, got %s", s.Status)
	}
	if s.Half != Top {
		t.Fatalf("half = %s, bottom of the 9th is not played", s.Half)
	}
}

func TestExtraInnings(t *testing.T) {
	s := bottomOf(newTestGame(t), 9, 1, 1)
	s.Outs = 2

	s, tr := apply(t, s, probability.Out)
	if tr.Completed || s.Inning != 10 || s.Half != Top || s.Pitcher != "hp" {
		t.Fatalf("tied game should go to the 10th: %s %d %s", s.Half, s.Inning, s.Status)
	}

	s, _ = apply(t, s, probability.HomeRun)
	for i := 0; i < 3; i++ {
		s, _ = apply(t, s, probability.Out)
	}
	if s.Half != Bottom || s.Completed() {
		t.Fatalf("home bats in the bottom of the 10th, got %s %s", s.Half, s.Status)
	}
	for i := 0; i < 3; i++ {
		s, _ = apply(t, s, probability.Out)
	}
	if !s.Completed() || s.Winner() != "away" {
		t.Fatalf("away should win in 10, got %s winner %q", s.Status, s.Winner())
	}
	if s.Inning != 10 {
		t.Fatalf("inning = %d, want 10", s.Inning)
	}
}

func TestSubstitute(t *testing.T) {
	s := newTestGame(t)
	s, _ = apply(t, s, probability.Out)

	s, err := s.Substitute("hr1")
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if s.Pitcher != "hr1" || s.PitcherOuts != 0 {
		t.Fatalf("pitcher %q outs %d", s.Pitcher, s.PitcherOuts)
	}
	if !slices.Equal(s.Home.Pitchers, []string{"hr1", "hp"}) {
		t.Fatalf("pitchers = %v", s.Home.Pitchers)
	}
	if _, ok := s.Box.Home.Pitching["hr1"]; !ok {
		t.Fatal("expected reliever pitching line")
	}

	if _, err := s.Substitute("hr1"); !errors.Is(err, ErrPitcherAlreadyActive) {
		t.Fatalf("expected ErrPitcherAlreadyActive, got %v", err)
	}
	if _, err := s.Substitute(" "); !errors.Is(err, ErrPitcherRequired) {
		t.Fatalf("expected ErrPitcherRequired, got %v", err)
	}

	for i := 0; i < 5; i++ {
		s, _ = apply(t, s, probability.Out)
	}
	if s.Half != Top || s.Inning != 2 || s.Pitcher != "hr1" {
		t.Fatalf("reliever should stay on the mound next inning, got %s %d %q", s.Half, s.Inning, s.Pitcher)
	}
	if s.Box.Home.Pitching["hr1"].IPOuts != 2 || s.Box.Home.Pitching["hp"].IPOuts != 1 {
		t.Fatalf("pitching lines = %+v", s.Box.Home.Pitching)
	}
}

func TestExplain(t *testing.T) {
	dice := [3]int{3, 4, 5}
	tests := []struct {
		outcome probability.Outcome
		runs    int
		want    string
	}{
		{probability.Single, 2, "singles [3-4-5] - 2 runs score"},
		{probability.Walk, 1, "walks [3-4-5] - 1 run scores"},
		{probability.Strikeout, 0, "strikes out [3-4-5]"},
		{probability.Out, 0, "grounds out [3-4-5]"},
	}
	for _, tt := range tests {
		if got := Explain(tt.outcome, tt.runs, dice); got != tt.want {
			t.Fatalf("Explain = %q, want %q", got, tt.want)
		}
	}
}

func TestSetupErrorMessage(t *testing.T) {
	setup := testSetup()
	setup.Home.Starter = ""
	_, err := New(setup)
	if err == nil || !strings.HasPrefix(err.Error(), "invalid game setup: ") {
		t.Fatalf("error = %v", err)
	}
}
