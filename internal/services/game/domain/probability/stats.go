package probability

import "math"

// BattingStats is a season batting line.
type BattingStats struct {
	PA      int `yaml:"pa" json:"pa"`
	AB      int `yaml:"ab" json:"ab"`
	H       int `yaml:"h" json:"h"`
	Doubles int `yaml:"2b" json:"2b"`
	Triples int `yaml:"3b" json:"3b"`
	HR      int `yaml:"hr" json:"hr"`
	BB      int `yaml:"bb" json:"bb"`
	SO      int `yaml:"so" json:"so"`
}

// PitchingStats is a season pitching line.
type PitchingStats struct {
	IPOuts int `yaml:"ip_outs" json:"ip_outs"`
	H      int `yaml:"h" json:"h"`
	HR     int `yaml:"hr" json:"hr"`
	BB     int `yaml:"bb" json:"bb"`
	SO     int `yaml:"so" json:"so"`
}

// FromBatting derives a batter distribution from a season line. A line with
// no plate appearances yields the league average.
func FromBatting(s BattingStats) Distribution {
	pa := s.PA
	if pa == 0 {
		pa = s.AB + s.BB
	}
	if pa <= 0 {
		return LeagueAverage()
	}
	n := float64(pa)
	singles := s.H - s.Doubles - s.Triples - s.HR
	return Normalize(Of(
		float64(s.SO)/n,
		float64(s.BB)/n,
		float64(s.AB-s.H)/n,
		float64(singles)/n,
		float64(s.Doubles)/n,
		float64(s.Triples)/n,
		float64(s.HR)/n,
	))
}

// FromPitching derives a pitcher distribution from a season line.
//
// Pitching lines rarely split hits by type, so hits are apportioned as 70%
// singles, 20% doubles and 2% triples, with home runs taken from the line.
// Plate appearances are estimated as outs plus hits plus walks.
func FromPitching(s PitchingStats) Distribution {
	pa := s.IPOuts + s.H + s.BB
	if pa <= 0 {
		return LeagueAverage()
	}
	n := float64(pa)
	h := float64(s.H)
	return Normalize(Of(
		float64(s.SO)/n,
		float64(s.BB)/n,
		math.Max(0, float64(s.IPOuts-s.SO)/n),
		math.Round(h*0.7)/n,
		math.Round(h*0.2)/n,
		math.Round(h*0.02)/n,
		float64(s.HR)/n,
	))
}
