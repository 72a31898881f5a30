// Package game holds the state of one baseball game and the transition that
// advances it by a single plate appearance.
//
// State is a value. Apply and Substitute return a new State and never mutate
// their receiver, so callers can keep the previous state for play records or
// roll back on persistence failure.
package game

import (
	"errors"

	"github.com/louisbranch/garoball/internal/services/game/domain/baserunning"
	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
)

// Regulation is the number of innings before a game can end.
const Regulation = 9

// OutsPerHalf is the number of outs that end a half-inning.
const OutsPerHalf = 3

var (
	// ErrGameCompleted indicates a transition on a finished game.
	ErrGameCompleted = errors.New("game is completed")
	// ErrPitcherRequired indicates a substitution without a pitcher id.
	ErrPitcherRequired = errors.New("pitcher id is required")
	// ErrPitcherAlreadyActive indicates a substitution of the active pitcher.
	ErrPitcherAlreadyActive = errors.New("pitcher is already on the mound")
	// ErrInvalidOutcome indicates a plate appearance without a known outcome.
	ErrInvalidOutcome = errors.New("plate appearance outcome is invalid")
)

// Half is the top or bottom of an inning.
type Half string

const (
	Top    Half = "top"
	Bottom Half = "bottom"
)

// Status is the lifecycle stage of a game.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Side is one team's lineup and pitching staff within a game.
type Side struct {
	TeamID string   `json:"team_id"`
	Lineup []string `json:"lineup"`
	// Pitchers lists every pitcher who has appeared, the active one first.
	Pitchers []string `json:"pitchers"`
	// Bullpen lists the relievers available to the manager.
	Bullpen   []string `json:"bullpen,omitempty"`
	BatterIdx int      `json:"batter_idx"`
}

// Batter returns the player due up.
func (s Side) Batter() string {
	if len(s.Lineup) == 0 {
		return ""
	}
	return s.Lineup[s.BatterIdx%len(s.Lineup)]
}

// OnDeck returns the player after the current batter.
func (s Side) OnDeck() string {
	if len(s.Lineup) == 0 {
		return ""
	}
	return s.Lineup[(s.BatterIdx+1)%len(s.Lineup)]
}

// ActivePitcher returns the side's current pitcher.
func (s Side) ActivePitcher() string {
	if len(s.Pitchers) == 0 {
		return ""
	}
	return s.Pitchers[0]
}

// State is the full state of a game between plate appearances.
type State struct {
	ID        string            `json:"id"`
	Status    Status            `json:"status"`
	Inning    int               `json:"inning"`
	Half      Half              `json:"half"`
	Outs      int               `json:"outs"`
	HomeScore int               `json:"home_score"`
	AwayScore int               `json:"away_score"`
	Bases     baserunning.Bases `json:"bases"`
	Home      Side              `json:"home"`
	Away      Side              `json:"away"`
	Pitcher   string            `json:"current_pitcher"`
	// PitcherOuts counts outs recorded by the current pitcher this half.
	PitcherOuts int `json:"pitcher_outs"`
	// HalfRuns counts runs scored so far in the current half.
	HalfRuns   int       `json:"half_runs"`
	Plays      int       `json:"plays"`
	Handedness bool      `json:"handedness"`
	RNG        rng.State `json:"rng"`
	Box        BoxScore  `json:"box_score"`
}

// Batting returns the side at bat.
func (s State) Batting() Side {
	if s.Half == Top {
		return s.Away
	}
	return s.Home
}

// Fielding returns the side in the field.
func (s State) Fielding() Side {
	if s.Half == Top {
		return s.Home
	}
	return s.Away
}

// CurrentBatter returns the batter due up.
func (s State) CurrentBatter() string {
	return s.Batting().Batter()
}

// Completed reports whether the game has ended.
func (s State) Completed() bool {
	return s.Status == StatusCompleted
}

// Winner returns the winning team id, or "" while the game is unfinished.
func (s State) Winner() string {
	if !s.Completed() || s.HomeScore == s.AwayScore {
		return ""
	}
	if s.HomeScore > s.AwayScore {
		return s.Home.TeamID
	}
	return s.Away.TeamID
}

// FieldingLead returns the fielding team's score minus the batting team's.
func (s State) FieldingLead() int {
	if s.Half == Top {
		return s.HomeScore - s.AwayScore
	}
	return s.AwayScore - s.HomeScore
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Home = s.Home.clone()
	out.Away = s.Away.clone()
	out.Box = s.Box.Clone()
	return out
}

func (s Side) clone() Side {
	out := s
	out.Lineup = append([]string(nil), s.Lineup...)
	out.Pitchers = append([]string(nil), s.Pitchers...)
	out.Bullpen = append([]string(nil), s.Bullpen...)
	return out
}

// battingSide returns a pointer to the side at bat on s.
func (s *State) battingSide() *Side {
	if s.Half == Top {
		return &s.Away
	}
	return &s.Home
}

// fieldingSide returns a pointer to the side in the field on s.
func (s *State) fieldingSide() *Side {
	if s.Half == Top {
		return &s.Home
	}
	return &s.Away
}

func (s *State) battingBox() *TeamBox {
	if s.Half == Top {
		return &s.Box.Away
	}
	return &s.Box.Home
}

func (s *State) fieldingBox() *TeamBox {
	if s.Half == Top {
		return &s.Box.Home
	}
	return &s.Box.Away
}
