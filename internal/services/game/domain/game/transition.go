package game

import (
	"strings"

	"github.com/louisbranch/garoball/internal/services/game/domain/baserunning"
)

// Transition summarizes what a plate appearance changed.
type Transition struct {
	Play Play
	// HalfEnded is set when the play made the third out.
	HalfEnded bool
	// Completed is set when the play ended the game.
	Completed bool
}

// Start moves a scheduled game in progress. Other states are returned as is.
func (s State) Start() State {
	if s.Status != StatusScheduled {
		return s
	}
	out := s.Clone()
	out.Status = StatusInProgress
	return out
}

// Apply advances the game by one plate appearance.
//
// The batter index of the batting side always advances, and persists across
// innings. The third out records the half-inning in the line score, clears
// the bases, flips the half and puts the new fielding side's active pitcher
// on the mound. The game completes on a walk-off (home team ahead in the
// bottom of the ninth or later, even mid-inning), when the home team leads
// after the top of the ninth or later, and when a later inning ends with the
// scores unequal.
func (s State) Apply(pa PlateAppearance) (State, Transition, error) {
	if s.Completed() {
		return s, Transition{}, ErrGameCompleted
	}
	if !pa.Outcome.Valid() {
		return s, Transition{}, ErrInvalidOutcome
	}

	next := s.Start().Clone()
	batting := next.battingSide()
	batterID := batting.Batter()
	pitcherID := next.Pitcher

	play := Play{
		Number:          s.Plays + 1,
		Inning:          s.Inning,
		Half:            s.Half,
		OutsBefore:      s.Outs,
		BasesBefore:     s.Bases,
		HomeScoreBefore: s.HomeScore,
		AwayScoreBefore: s.AwayScore,
		BatterID:        batterID,
		PitcherID:       pitcherID,
		Outcome:         pa.Outcome,
		Dice:            pa.Dice,
		DiceIndex:       pa.DiceIndex,
		BatterProbs:     pa.Batter,
		PitcherProbs:    pa.Pitcher,
		BlendedProbs:    pa.Blended,
		Allocation:      pa.Allocation,
		Blend:           pa.Blend,
	}

	result := baserunning.Advance(s.Bases, batterID, pa.Outcome, s.Outs)
	runs := result.Runs()
	next.Bases = result.Bases
	if s.Half == Top {
		next.AwayScore += runs
	} else {
		next.HomeScore += runs
	}
	next.HalfRuns += runs
	if pa.Outcome.IsOut() {
		next.Outs++
		next.PitcherOuts++
	}
	credit(next.battingBox(), next.fieldingBox(), batterID, pitcherID, pa.Outcome, runs, result.Scored)
	if len(batting.Lineup) > 0 {
		batting.BatterIdx = (batting.BatterIdx + 1) % len(batting.Lineup)
	}
	next.Plays = play.Number
	next.RNG = pa.RNG

	play.Runs = runs
	play.Scored = result.Scored
	play.Explanation = Explain(pa.Outcome, runs, pa.Dice)

	tr := Transition{Play: play}
	switch {
	case next.walkOff():
		next.recordHalf()
		next.Status = StatusCompleted
	case next.Outs >= OutsPerHalf:
		tr.HalfEnded = true
		next.endHalf()
	}
	tr.Completed = next.Completed()
	return next, tr, nil
}

// walkOff reports whether the home team has taken the lead in the bottom of
// a regulation-ending inning.
func (s State) walkOff() bool {
	return s.Half == Bottom && s.Inning >= Regulation && s.HomeScore > s.AwayScore
}

// recordHalf appends the current half's runs to the batting team's line score.
func (s *State) recordHalf() {
	box := s.battingBox()
	if len(box.Innings) < s.Inning {
		box.Innings = append(box.Innings, s.HalfRuns)
	}
	s.HalfRuns = 0
}

func (s *State) endHalf() {
	s.recordHalf()
	s.Bases = baserunning.Bases{}
	s.Outs = 0
	s.PitcherOuts = 0

	if s.Half == Top {
		if s.Inning >= Regulation && s.HomeScore > s.AwayScore {
			s.Status = StatusCompleted
			return
		}
		s.Half = Bottom
	} else {
		if s.Inning >= Regulation && s.HomeScore != s.AwayScore {
			s.Status = StatusCompleted
			return
		}
		s.Half = Top
		s.Inning++
	}
	s.Pitcher = s.fieldingSide().ActivePitcher()
}

// Substitute brings pitcherID in for the fielding side. The new pitcher goes
// to the front of the side's pitcher list and gets a fresh box score line if
// this is the first appearance.
func (s State) Substitute(pitcherID string) (State, error) {
	if s.Completed() {
		return s, ErrGameCompleted
	}
	pitcherID = strings.TrimSpace(pitcherID)
	if pitcherID == "" {
		return s, ErrPitcherRequired
	}
	if pitcherID == s.Pitcher {
		return s, ErrPitcherAlreadyActive
	}

	next := s.Clone()
	side := next.fieldingSide()
	pitchers := make([]string, 0, len(side.Pitchers)+1)
	pitchers = append(pitchers, pitcherID)
	for _, id := range side.Pitchers {
		if id != pitcherID {
			pitchers = append(pitchers, id)
		}
	}
	side.Pitchers = pitchers
	next.Pitcher = pitcherID
	next.PitcherOuts = 0

	box := next.fieldingBox()
	if _, ok := box.Pitching[pitcherID]; !ok {
		box.Pitching[pitcherID] = PitchingLine{}
	}
	return next, nil
}
