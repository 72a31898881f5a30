package game

import (
	"fmt"

	"github.com/louisbranch/garoball/internal/services/game/domain/baserunning"
	"github.com/louisbranch/garoball/internal/services/game/domain/dicetable"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
)

// PlateAppearance is a resolved plate appearance ready to apply.
type PlateAppearance struct {
	Outcome    probability.Outcome
	Dice       [rng.DiceCount]int
	DiceIndex  int
	Batter     probability.Distribution
	Pitcher    probability.Distribution
	Blended    probability.Distribution
	Allocation dicetable.Allocation
	// Blend names the strategy that produced Blended.
	Blend string
	// RNG is the generator position after the roll.
	RNG rng.State
}

// Play is the permanent record of one plate appearance.
type Play struct {
	Number          int                      `json:"number"`
	Inning          int                      `json:"inning"`
	Half            Half                     `json:"half"`
	OutsBefore      int                      `json:"outs_before"`
	BasesBefore     baserunning.Bases        `json:"bases_before"`
	HomeScoreBefore int                      `json:"home_score_before"`
	AwayScoreBefore int                      `json:"away_score_before"`
	BatterID        string                   `json:"batter_id"`
	PitcherID       string                   `json:"pitcher_id"`
	Outcome         probability.Outcome      `json:"outcome"`
	Runs            int                      `json:"runs"`
	Scored          []string                 `json:"scored,omitempty"`
	Dice            [rng.DiceCount]int       `json:"dice"`
	DiceIndex       int                      `json:"dice_index"`
	BatterProbs     probability.Distribution `json:"batter_probs"`
	PitcherProbs    probability.Distribution `json:"pitcher_probs"`
	BlendedProbs    probability.Distribution `json:"blended_probs"`
	Allocation      dicetable.Allocation     `json:"allocation"`
	Blend           string                   `json:"blend,omitempty"`
	Explanation     string                   `json:"explanation"`
}

var outcomeVerbs = map[probability.Outcome]string{
	probability.Strikeout: "strikes out",
	probability.Walk:      "walks",
	probability.Out:       "grounds out",
	probability.Single:    "singles",
	probability.Double:    "doubles",
	probability.Triple:    "triples",
	probability.HomeRun:   "homers",
}

// Explain renders a play as text such as "singles [3-4-5] - 2 runs score".
func Explain(outcome probability.Outcome, runs int, dice [rng.DiceCount]int) string {
	text := fmt.Sprintf("%s [%d-%d-%d]", outcomeVerbs[outcome], dice[0], dice[1], dice[2])
	switch {
	case runs == 1:
		text += " - 1 run scores"
	case runs > 1:
		text += fmt.Sprintf(" - %d runs score", runs)
	}
	return text
}
