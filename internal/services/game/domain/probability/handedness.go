package probability

import (
	"fmt"
	"strings"
)

// Hand is the side a player bats or throws from.
type Hand string

const (
	HandUnknown Hand = ""
	HandRight   Hand = "R"
	HandLeft    Hand = "L"
	HandSwitch  Hand = "S"
)

// ParseHand parses "R", "L" or "S". Empty input yields HandUnknown.
func ParseHand(value string) (Hand, error) {
	switch Hand(strings.ToUpper(strings.TrimSpace(value))) {
	case HandUnknown:
		return HandUnknown, nil
	case HandRight:
		return HandRight, nil
	case HandLeft:
		return HandLeft, nil
	case HandSwitch:
		return HandSwitch, nil
	default:
		return HandUnknown, fmt.Errorf("unknown hand %q", value)
	}
}

// Known reports whether h is one of R, L or S.
func (h Hand) Known() bool {
	return h == HandRight || h == HandLeft || h == HandSwitch
}

// Modifiers scale a batter's distribution for one platoon matchup.
type Modifiers struct {
	// PowerBoost scales 2B, 3B and HR.
	PowerBoost float64 `yaml:"power_boost" json:"power_boost"`
	// ContactBoost scales 1B.
	ContactBoost float64 `yaml:"contact_boost" json:"contact_boost"`
	// StrikeoutPenalty scales K.
	StrikeoutPenalty float64 `yaml:"strikeout_penalty" json:"strikeout_penalty"`
	// WalkBonus scales BB.
	WalkBonus float64 `yaml:"walk_bonus" json:"walk_bonus"`
}

// neutral leaves a distribution unchanged.
var neutral = Modifiers{PowerBoost: 1, ContactBoost: 1, StrikeoutPenalty: 1, WalkBonus: 1}

// SplitTable holds modifiers per batter hand against one pitcher hand.
type SplitTable struct {
	Right  Modifiers `yaml:"R" json:"R"`
	Left   Modifiers `yaml:"L" json:"L"`
	Switch Modifiers `yaml:"S" json:"S"`
}

func (s SplitTable) forBatter(batter Hand) Modifiers {
	switch batter {
	case HandRight:
		return s.Right
	case HandLeft:
		return s.Left
	case HandSwitch:
		return s.Switch
	default:
		return neutral
	}
}

// PlatoonTable holds batter modifiers against right- and left-handed pitchers.
// Switch pitchers use the right-handed column.
type PlatoonTable struct {
	VsRight SplitTable `yaml:"vs_right" json:"vs_right"`
	VsLeft  SplitTable `yaml:"vs_left" json:"vs_left"`
}

// DefaultPlatoonTable returns the calibrated MLB split table.
func DefaultPlatoonTable() PlatoonTable {
	return PlatoonTable{
		VsRight: SplitTable{
			Right:  Modifiers{PowerBoost: 0.95, ContactBoost: 0.97, StrikeoutPenalty: 1.05, WalkBonus: 0.95},
			Left:   Modifiers{PowerBoost: 1.12, ContactBoost: 1.08, StrikeoutPenalty: 0.88, WalkBonus: 1.10},
			Switch: Modifiers{PowerBoost: 1.02, ContactBoost: 1.03, StrikeoutPenalty: 0.95, WalkBonus: 1.02},
		},
		VsLeft: SplitTable{
			Right:  Modifiers{PowerBoost: 1.15, ContactBoost: 1.10, StrikeoutPenalty: 0.85, WalkBonus: 1.12},
			Left:   Modifiers{PowerBoost: 0.88, ContactBoost: 0.92, StrikeoutPenalty: 1.15, WalkBonus: 0.90},
			Switch: Modifiers{PowerBoost: 1.03, ContactBoost: 1.02, StrikeoutPenalty: 0.96, WalkBonus: 1.03},
		},
	}
}

// Modifiers returns the batter modifiers for a matchup. Unknown hands are neutral.
func (t PlatoonTable) Modifiers(batter, pitcher Hand) Modifiers {
	switch pitcher {
	case HandLeft:
		return t.VsLeft.forBatter(batter)
	case HandRight, HandSwitch:
		return t.VsRight.forBatter(batter)
	default:
		return neutral
	}
}

// Apply scales a batter distribution by m and renormalizes. OUT is unchanged.
func (m Modifiers) Apply(d Distribution) Distribution {
	adjusted := d
	adjusted[Strikeout] *= m.StrikeoutPenalty
	adjusted[Walk] *= m.WalkBonus
	adjusted[Single] *= m.ContactBoost
	adjusted[Double] *= m.PowerBoost
	adjusted[Triple] *= m.PowerBoost
	adjusted[HomeRun] *= m.PowerBoost
	return Normalize(adjusted)
}

// MatchupDescription labels a matchup for play-by-play display.
func MatchupDescription(batter, pitcher Hand) string {
	switch {
	case batter == HandSwitch:
		return "Switch hitter advantage"
	case batter.Known() && pitcher.Known() && batter != pitcher:
		return "Platoon advantage"
	default:
		return "Same-handed matchup"
	}
}
