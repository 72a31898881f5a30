package game

import (
	"maps"

	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// BattingLine is one batter's line in the box score.
type BattingLine struct {
	AB      int `json:"ab"`
	R       int `json:"r"`
	H       int `json:"h"`
	RBI     int `json:"rbi"`
	BB      int `json:"bb"`
	SO      int `json:"so"`
	Doubles int `json:"2b"`
	Triples int `json:"3b"`
	HR      int `json:"hr"`
}

// PitchingLine is one pitcher's line in the box score.
type PitchingLine struct {
	IPOuts int `json:"ip_outs"`
	H      int `json:"h"`
	R      int `json:"r"`
	ER     int `json:"er"`
	BB     int `json:"bb"`
	SO     int `json:"so"`
	HR     int `json:"hr"`
}

// TeamBox is one team's half of the box score.
type TeamBox struct {
	// Innings holds runs per inning batted.
	Innings  []int                   `json:"innings"`
	Hits     int                     `json:"hits"`
	Errors   int                     `json:"errors"`
	Batting  map[string]BattingLine  `json:"batting"`
	Pitching map[string]PitchingLine `json:"pitching"`
}

// Runs returns the team's total runs across recorded innings.
func (t TeamBox) Runs() int {
	total := 0
	for _, r := range t.Innings {
		total += r
	}
	return total
}

// BoxScore is the per-player record of a game.
type BoxScore struct {
	Home TeamBox `json:"home"`
	Away TeamBox `json:"away"`
}

// Clone returns a deep copy of b.
func (b BoxScore) Clone() BoxScore {
	return BoxScore{Home: b.Home.clone(), Away: b.Away.clone()}
}

func (t TeamBox) clone() TeamBox {
	out := t
	out.Innings = append([]int(nil), t.Innings...)
	out.Batting = maps.Clone(t.Batting)
	out.Pitching = maps.Clone(t.Pitching)
	if out.Batting == nil {
		out.Batting = map[string]BattingLine{}
	}
	if out.Pitching == nil {
		out.Pitching = map[string]PitchingLine{}
	}
	return out
}

func newTeamBox(lineup []string, starter string) TeamBox {
	box := TeamBox{
		Innings:  []int{},
		Batting:  make(map[string]BattingLine, len(lineup)),
		Pitching: map[string]PitchingLine{starter: {}},
	}
	for _, id := range lineup {
		box.Batting[id] = BattingLine{}
	}
	return box
}

// credit records outcome against batter and pitcher lines.
func credit(batting, fielding *TeamBox, batterID, pitcherID string, outcome probability.Outcome, runs int, scored []string) {
	bat := batting.Batting[batterID]
	pit := fielding.Pitching[pitcherID]

	if outcome.IsAtBat() {
		bat.AB++
	}
	if outcome.IsHit() {
		bat.H++
		pit.H++
		batting.Hits++
	}
	switch outcome {
	case probability.Double:
		bat.Doubles++
	case probability.Triple:
		bat.Triples++
	case probability.HomeRun:
		bat.HR++
		pit.HR++
	case probability.Walk:
		bat.BB++
		pit.BB++
	case probability.Strikeout:
		bat.SO++
		pit.SO++
		pit.IPOuts++
	case probability.Out:
		pit.IPOuts++
	}
	bat.RBI += runs
	pit.R += runs
	pit.ER += runs
	batting.Batting[batterID] = bat
	fielding.Pitching[pitcherID] = pit

	for _, id := range scored {
		line := batting.Batting[id]
		line.R++
		batting.Batting[id] = line
	}
}
