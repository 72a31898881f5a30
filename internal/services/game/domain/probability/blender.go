package probability

// Blender combines batter and pitcher distributions into the distribution
// used for one plate appearance.
type Blender interface {
	Blend(batter, pitcher Distribution, batterHand, pitcherHand Hand) Distribution
	// Name identifies the strategy in play records.
	Name() string
}

// StandardBlender mixes batter and pitcher with a fixed weight and ignores hands.
type StandardBlender struct {
	Tuning Tuning
}

// Blend implements Blender.
func (b StandardBlender) Blend(batter, pitcher Distribution, _, _ Hand) Distribution {
	return Blend(batter, pitcher, b.Tuning.BatterWeight)
}

// Name implements Blender.
func (StandardBlender) Name() string { return "standard" }

// PlatoonBlender applies platoon splits before mixing. When either hand is
// unknown it blends like StandardBlender.
type PlatoonBlender struct {
	Tuning Tuning
}

// Blend implements Blender.
func (b PlatoonBlender) Blend(batter, pitcher Distribution, batterHand, pitcherHand Hand) Distribution {
	if !batterHand.Known() || !pitcherHand.Known() {
		return Blend(batter, pitcher, b.Tuning.BatterWeight)
	}
	return b.Tuning.Matchup(batter, pitcher, batterHand, pitcherHand, b.Tuning.MatchupBatterWeight)
}

// Name implements Blender.
func (PlatoonBlender) Name() string { return "platoon" }

// NewBlender returns the platoon blender when handedness is on and the
// standard blender otherwise.
func NewBlender(t Tuning, handedness bool) Blender {
	if handedness {
		return PlatoonBlender{Tuning: t}
	}
	return StandardBlender{Tuning: t}
}
