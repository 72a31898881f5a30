// Package sim resolves plate appearances and drives a game through them.
//
// # Determinism
//
// A step draws exactly three values from the game's generator. Given the
// same state, ratings and config, Step and Run produce the same plays, and
// the generator position saved in the state resumes the stream exactly.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/garoball/internal/services/game/domain/dicetable"
	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
)

var (
	// ErrStepLimit indicates a batch run hit the step ceiling.
	ErrStepLimit = errors.New("simulation step limit reached")
	// ErrSourceRequired indicates a missing random source.
	ErrSourceRequired = errors.New("random source is required")
	// ErrUnknownMode indicates an unsupported batch mode.
	ErrUnknownMode = errors.New("unknown simulate mode")
)

// Mode selects how far a batch run goes.
type Mode string

const (
	ModePlay   Mode = "play"
	ModeInning Mode = "inning"
	ModeGame   Mode = "game"
)

// ParseMode parses a mode name. Empty input means ModePlay.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModePlay:
		return ModePlay, nil
	case ModeInning, "half":
		return ModeInning, nil
	case ModeGame:
		return ModeGame, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

// Decider manages one side's pitching. *pitching.Manager implements it.
type Decider interface {
	Decide(s game.State) pitching.Decision
	Update(pitcherID string, outcome probability.Outcome, runs int)
	MarkUsed(pitcherID string, inning int)
}

// Change is a pitching substitution made before a plate appearance.
type Change struct {
	TeamID   string            `json:"team_id"`
	Inning   int               `json:"inning"`
	Half     game.Half         `json:"half"`
	Outgoing string            `json:"outgoing"`
	Incoming string            `json:"incoming"`
	Decision pitching.Decision `json:"decision"`
}

// Step is the full result of one plate appearance.
type Step struct {
	Play       game.Play
	Transition game.Transition
	// Change is set when a reliever came in before the plate appearance.
	Change *Change
	// Defaulted lists the batter or pitcher played at league average.
	Defaulted []string
}

// Result is the outcome of a batch run.
type Result struct {
	State game.State
	Steps []Step
}

// Engine resolves plate appearances. Home and Away manage the pitching of
// the respective sides and may be nil to leave the starters in.
type Engine struct {
	Config  Config
	Ratings Ratings
	Home    Decider
	Away    Decider
}

// Step resolves one plate appearance against s, drawing from src.
//
// Before the roll the fielding side's decider may change pitchers. The
// batter and pitcher distributions come from Ratings, falling back to the
// league average, and are blended by the strategy the game selected. The
// blended distribution is apportioned onto the dice table and one three-dice
// roll picks the outcome.
func (e Engine) Step(ctx context.Context, s game.State, src *rng.Source) (Step, game.State, error) {
	if err := ctx.Err(); err != nil {
		return Step{}, s, err
	}
	if src == nil {
		return Step{}, s, ErrSourceRequired
	}
	if s.Completed() {
		return Step{}, s, game.ErrGameCompleted
	}
	s = s.Start()

	var step Step
	decider := e.fielding(s)
	if decider != nil {
		next, change, err := e.consider(decider, s)
		if err != nil {
			return Step{}, s, err
		}
		s = next
		step.Change = change
	}

	batterID := s.CurrentBatter()
	pitcherID := s.Pitcher
	batter := lookup(e.Ratings, batterID)
	pitcher := lookup(e.Ratings, pitcherID)
	if batter.Batting == nil {
		step.Defaulted = append(step.Defaulted, batterID)
	}
	if pitcher.Pitching == nil {
		step.Defaulted = append(step.Defaulted, pitcherID)
	}

	tuning := e.Config.Tuning
	batterProbs := tuning.OrLeague(batter.Batting)
	pitcherProbs := tuning.OrLeague(pitcher.Pitching)
	blender := probability.NewBlender(tuning, s.Handedness)
	blended := probability.Normalize(blender.Blend(batterProbs, pitcherProbs, batter.Bats, pitcher.Throws))
	alloc := dicetable.Apportion(blended)
	dice, index := src.DiceIndex()
	outcome := dicetable.OutcomeFor(index, alloc)

	next, tr, err := s.Apply(game.PlateAppearance{
		Outcome:    outcome,
		Dice:       dice,
		DiceIndex:  index,
		Batter:     batterProbs,
		Pitcher:    pitcherProbs,
		Blended:    blended,
		Allocation: alloc,
		Blend:      blender.Name(),
		RNG:        src.State(),
	})
	if err != nil {
		return Step{}, s, fmt.Errorf("apply plate appearance: %w", err)
	}
	if decider != nil {
		decider.Update(pitcherID, outcome, tr.Play.Runs)
	}
	step.Play = tr.Play
	step.Transition = tr
	return step, next, nil
}

func (e Engine) fielding(s game.State) Decider {
	if s.Half == game.Top {
		return e.Home
	}
	return e.Away
}

func (e Engine) consider(d Decider, s game.State) (game.State, *Change, error) {
	decision := d.Decide(s)
	if !decision.Pull || decision.Relief == "" || decision.Relief == s.Pitcher {
		return s, nil, nil
	}
	next, err := s.Substitute(decision.Relief)
	if err != nil {
		return s, nil, fmt.Errorf("substitute pitcher: %w", err)
	}
	d.MarkUsed(decision.Relief, s.Inning)
	return next, &Change{
		TeamID:   s.Fielding().TeamID,
		Inning:   s.Inning,
		Half:     s.Half,
		Outgoing: s.Pitcher,
		Incoming: decision.Relief,
		Decision: decision,
	}, nil
}

// Run steps s until mode is satisfied: one play, the end of the current
// half-inning, or the end of the game. The generator resumes from s.RNG.
// Context is checked between steps; a cancelled or over-limit run returns
// the steps taken so far along with the error.
func (e Engine) Run(ctx context.Context, s game.State, mode Mode) (Result, error) {
	switch mode {
	case ModePlay, ModeInning, ModeGame:
	default:
		return Result{State: s}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if s.Completed() {
		return Result{State: s}, game.ErrGameCompleted
	}

	src := rng.Restore(s.RNG)
	res := Result{State: s}
	limit := e.Config.stepLimit()
	for range limit {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		step, next, err := e.Step(ctx, res.State, src)
		if err != nil {
			return res, err
		}
		res.State = next
		res.Steps = append(res.Steps, step)
		if done(mode, step.Transition) {
			return res, nil
		}
	}
	return res, ErrStepLimit
}

func done(mode Mode, tr game.Transition) bool {
	if tr.Completed {
		return true
	}
	switch mode {
	case ModeInning:
		return tr.HalfEnded
	case ModeGame:
		return false
	default:
		return true
	}
}
