package probability

import (
	"errors"
	"fmt"
)

// Tuning holds the calibrated constants behind blending and platoon splits.
// Each game owns its own value so games with different tuning can run side
// by side.
type Tuning struct {
	LeagueAverage Distribution `yaml:"league_average" json:"league_average"`
	// BatterWeight is the batter share in the standard blend.
	BatterWeight float64 `yaml:"batter_weight" json:"batter_weight"`
	// MatchupBatterWeight is the batter share in the platoon-aware blend.
	MatchupBatterWeight float64      `yaml:"matchup_batter_weight" json:"matchup_batter_weight"`
	Platoon             PlatoonTable `yaml:"platoon" json:"platoon"`
}

// DefaultTuning returns the standard tuning.
func DefaultTuning() Tuning {
	return Tuning{
		LeagueAverage:       LeagueAverage(),
		BatterWeight:        0.5,
		MatchupBatterWeight: 0.65,
		Platoon:             DefaultPlatoonTable(),
	}
}

// Validate reports tuning values that cannot produce a distribution.
func (t Tuning) Validate() error {
	var errs []error
	if t.BatterWeight < 0 || t.BatterWeight > 1 {
		errs = append(errs, fmt.Errorf("batter weight %v outside [0,1]", t.BatterWeight))
	}
	if t.MatchupBatterWeight < 0 || t.MatchupBatterWeight > 1 {
		errs = append(errs, fmt.Errorf("matchup batter weight %v outside [0,1]", t.MatchupBatterWeight))
	}
	if t.LeagueAverage.Sum() <= 0 {
		errs = append(errs, errors.New("league average has no mass"))
	}
	return errors.Join(errs...)
}

// OrLeague returns d when present, else the league average.
func (t Tuning) OrLeague(d *Distribution) Distribution {
	if d == nil {
		return Normalize(t.LeagueAverage)
	}
	return Normalize(*d)
}

// PlatoonModifiers returns the batter modifiers for a matchup.
func (t Tuning) PlatoonModifiers(batter, pitcher Hand) Modifiers {
	return t.Platoon.Modifiers(batter, pitcher)
}

// ApplyHandedness adjusts a batter distribution for the pitcher's hand.
func (t Tuning) ApplyHandedness(batter Distribution, batterHand, pitcherHand Hand) Distribution {
	return t.PlatoonModifiers(batterHand, pitcherHand).Apply(batter)
}

// Matchup blends a platoon-adjusted batter distribution with the pitcher's
// using batterWeight.
func (t Tuning) Matchup(batter, pitcher Distribution, batterHand, pitcherHand Hand, batterWeight float64) Distribution {
	return Mix(t.ApplyHandedness(batter, batterHand, pitcherHand), pitcher, batterWeight)
}
