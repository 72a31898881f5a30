package probability

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLeagueAverageSumsToOne(t *testing.T) {
	if sum := LeagueAverage().Sum(); !near(sum, 1, eps) {
		t.Fatalf("league average sum = %v, want 1", sum)
	}
}

func TestOutcomeCodes(t *testing.T) {
	for _, o := range Outcomes {
		parsed, err := ParseOutcome(o.String())
		if err != nil {
			t.Fatalf("parse %s: %v", o, err)
		}
		if parsed != o {
			t.Fatalf("ParseOutcome(%q) = %v, want %v", o.String(), parsed, o)
		}
	}
	if _, err := ParseOutcome("GIDP"); !errors.Is(err, ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
	if Outcome(42).String() != "Unknown" {
		t.Fatalf("expected Unknown for invalid outcome")
	}
	if !HomeRun.IsHit() || Walk.IsHit() || !Strikeout.IsOut() || Walk.IsAtBat() {
		t.Fatal("outcome classification mismatch")
	}
}

func TestNormalize(t *testing.T) {
	t.Run("within tolerance is unchanged", func(t *testing.T) {
		in := Of(0.2205, 0.085, 0.455, 0.155, 0.050, 0.005, 0.030)
		if got := Normalize(in); got != in {
			t.Fatalf("Normalize changed %v to %v", in, got)
		}
	})
	t.Run("rescales", func(t *testing.T) {
		got := Normalize(Of(2, 0, 2, 0, 0, 0, 0))
		if !near(got[Strikeout], 0.5, eps) || !near(got[Out], 0.5, eps) {
			t.Fatalf("Normalize = %v, want half K half OUT", got)
		}
	})
	t.Run("clamps negative and NaN", func(t *testing.T) {
		got := Normalize(Of(-1, math.NaN(), 1, 1, 0, 0, 0))
		if got[Strikeout] != 0 || got[Walk] != 0 {
			t.Fatalf("expected clamped entries, got %v", got)
		}
		if !near(got.Sum(), 1, eps) {
			t.Fatalf("sum = %v, want 1", got.Sum())
		}
	})
	t.Run("empty falls back to league average", func(t *testing.T) {
		if got := Normalize(Distribution{}); got != LeagueAverage() {
			t.Fatalf("Normalize(empty) = %v, want league average", got)
		}
	})
}

func TestBlend(t *testing.T) {
	batter := Of(0.2, 0.1, 0.4, 0.15, 0.1, 0.02, 0.03)
	pitcher := Of(0.3, 0.05, 0.4, 0.15, 0.05, 0.02, 0.03)

	even := Blend(batter, pitcher, 0.5)
	if !near(even[Strikeout], 0.25, 1e-6) || !near(even[Walk], 0.075, 1e-6) {
		t.Fatalf("even blend = %v", even)
	}
	if !near(even.Sum(), 1, 1e-3) {
		t.Fatalf("even blend sum = %v", even.Sum())
	}
	if got := Blend(batter, pitcher, 1); !near(got[Strikeout], 0.2, 1e-6) {
		t.Fatalf("all-batter K = %v, want 0.2", got[Strikeout])
	}
	if got := Blend(batter, pitcher, 0); !near(got[Strikeout], 0.3, 1e-6) {
		t.Fatalf("all-pitcher K = %v, want 0.3", got[Strikeout])
	}
}

func TestPlatoonModifiers(t *testing.T) {
	table := DefaultPlatoonTable()

	lefty := table.Modifiers(HandLeft, HandRight)
	if lefty.PowerBoost <= 1 || lefty.ContactBoost <= 1 || lefty.StrikeoutPenalty >= 1 {
		t.Fatalf("left vs right should favor batter: %+v", lefty)
	}
	righty := table.Modifiers(HandRight, HandLeft)
	if righty.PowerBoost <= 1 || righty.ContactBoost <= 1 || righty.StrikeoutPenalty >= 1 {
		t.Fatalf("right vs left should favor batter: %+v", righty)
	}
	for _, h := range []Hand{HandLeft, HandRight} {
		same := table.Modifiers(h, h)
		if same.PowerBoost >= 1 || same.StrikeoutPenalty <= 1 {
			t.Fatalf("%s vs %s should favor pitcher: %+v", h, h, same)
		}
	}
	for _, p := range []Hand{HandLeft, HandRight, HandSwitch} {
		if m := table.Modifiers(HandSwitch, p); m.PowerBoost < 1 {
			t.Fatalf("switch hitter vs %s power = %v, want >= 1", p, m.PowerBoost)
		}
	}
	if table.Modifiers(HandLeft, HandSwitch) != table.Modifiers(HandLeft, HandRight) {
		t.Fatal("switch pitcher should use the right-handed column")
	}
	if table.Modifiers(HandUnknown, HandRight) != neutral {
		t.Fatal("unknown batter hand should be neutral")
	}
}

func TestApplyHandedness(t *testing.T) {
	tuning := DefaultTuning()
	base := Of(0.20, 0.08, 0.45, 0.15, 0.06, 0.01, 0.05)

	adv := tuning.ApplyHandedness(base, HandLeft, HandRight)
	if adv[HomeRun] <= base[HomeRun] || adv[Double] <= base[Double] {
		t.Fatalf("platoon advantage should raise power: %v", adv)
	}
	if adv[Strikeout] >= base[Strikeout] {
		t.Fatalf("platoon advantage should lower K: %v", adv)
	}
	if !near(adv.Sum(), 1, 1e-9) {
		t.Fatalf("sum = %v, want 1", adv.Sum())
	}

	same := tuning.ApplyHandedness(base, HandLeft, HandLeft)
	if same[HomeRun] >= base[HomeRun] || same[Strikeout] <= base[Strikeout] {
		t.Fatalf("same-handed should favor pitcher: %v", same)
	}
}

func TestMatchupVariesWithPitcherHand(t *testing.T) {
	tuning := DefaultTuning()
	batter := Of(0.20, 0.08, 0.45, 0.15, 0.06, 0.01, 0.05)
	pitcher := LeagueAverage()

	vsRight := tuning.Matchup(batter, pitcher, HandLeft, HandRight, 0.65)
	vsLeft := tuning.Matchup(batter, pitcher, HandLeft, HandLeft, 0.65)
	if vsRight[HomeRun] <= vsLeft[HomeRun] || vsRight[Double] <= vsLeft[Double] {
		t.Fatalf("lefty should hit more power vs RHP: %v vs %v", vsRight, vsLeft)
	}
	if !near(vsRight.Sum(), 1, 1e-3) {
		t.Fatalf("sum = %v, want 1", vsRight.Sum())
	}
}

func TestBlenders(t *testing.T) {
	tuning := DefaultTuning()
	batter := Of(0.20, 0.08, 0.45, 0.15, 0.06, 0.01, 0.05)
	pitcher := LeagueAverage()

	standard := NewBlender(tuning, false)
	if standard.Name() != "standard" {
		t.Fatalf("name = %q, want standard", standard.Name())
	}
	if got, want := standard.Blend(batter, pitcher, HandLeft, HandRight), Blend(batter, pitcher, 0.5); got != want {
		t.Fatalf("standard blend = %v, want %v", got, want)
	}

	platoon := NewBlender(tuning, true)
	if got, want := platoon.Blend(batter, pitcher, HandLeft, HandRight), tuning.Matchup(batter, pitcher, HandLeft, HandRight, 0.65); got != want {
		t.Fatalf("platoon blend = %v, want %v", got, want)
	}
	if got, want := platoon.Blend(batter, pitcher, HandUnknown, HandRight), Blend(batter, pitcher, 0.5); got != want {
		t.Fatalf("platoon blend with unknown hand = %v, want standard %v", got, want)
	}
}

func TestMatchupDescription(t *testing.T) {
	tests := []struct {
		batter, pitcher Hand
		want            string
	}{
		{HandLeft, HandRight, "Platoon advantage"},
		{HandRight, HandLeft, "Platoon advantage"},
		{HandLeft, HandLeft, "Same-handed matchup"},
		{HandRight, HandRight, "Same-handed matchup"},
		{HandSwitch, HandRight, "Switch hitter advantage"},
		{HandSwitch, HandLeft, "Switch hitter advantage"},
	}
	for _, tt := range tests {
		if got := MatchupDescription(tt.batter, tt.pitcher); got != tt.want {
			t.Fatalf("MatchupDescription(%s, %s) = %q, want %q", tt.batter, tt.pitcher, got, tt.want)
		}
	}
}

func TestFromBatting(t *testing.T) {
	got := FromBatting(BattingStats{PA: 650, AB: 580, H: 175, Doubles: 35, Triples: 8, HR: 28, BB: 55, SO: 120})
	if !near(got.Sum(), 1, eps) {
		t.Fatalf("sum = %v, want 1", got.Sum())
	}
	if want := 120.0 / 755.0; !near(got[Strikeout], want, eps) {
		t.Fatalf("K = %v, want %v", got[Strikeout], want)
	}
	if want := 104.0 / 755.0; !near(got[Single], want, eps) {
		t.Fatalf("1B = %v, want %v", got[Single], want)
	}
	if FromBatting(BattingStats{}) != LeagueAverage() {
		t.Fatal("empty batting line should be league average")
	}
}

func TestFromPitching(t *testing.T) {
	got := FromPitching(PitchingStats{IPOuts: 600, H: 180, HR: 20, BB: 50, SO: 200})
	if !near(got.Sum(), 1, eps) {
		t.Fatalf("sum = %v, want 1", got.Sum())
	}
	if want := 200.0 / 836.0; !near(got[Strikeout], want, eps) {
		t.Fatalf("K = %v, want %v", got[Strikeout], want)
	}
	if want := 4.0 / 836.0; !near(got[Triple], want, eps) {
		t.Fatalf("3B = %v, want %v", got[Triple], want)
	}
	if FromPitching(PitchingStats{}) != LeagueAverage() {
		t.Fatal("empty pitching line should be league average")
	}
}

func TestTuningValidate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("default tuning: %v", err)
	}
	bad := DefaultTuning()
	bad.BatterWeight = 1.5
	bad.LeagueAverage = Distribution{}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOrLeague(t *testing.T) {
	tuning := DefaultTuning()
	if got := tuning.OrLeague(nil); got != LeagueAverage() {
		t.Fatalf("OrLeague(nil) = %v, want league average", got)
	}
	d := Of(0.5, 0, 0.5, 0, 0, 0, 0)
	if got := tuning.OrLeague(&d); got != d {
		t.Fatalf("OrLeague(d) = %v, want %v", got, d)
	}
}

func TestDistributionEncoding(t *testing.T) {
	data, err := json.Marshal(Of(0.5, 0, 0.5, 0, 0, 0, 0))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if decoded["K"] != 0.5 || decoded["OUT"] != 0.5 {
		t.Fatalf("decoded = %v", decoded)
	}

	var tuning Tuning
	doc := "league_average: {K: 0.3, BB: 0.1, OUT: 0.4, 1B: 0.1, 2B: 0.05, 3B: 0.01, HR: 0.04}\nbatter_weight: 0.6\n"
	if err := yaml.Unmarshal([]byte(doc), &tuning); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if tuning.LeagueAverage[Strikeout] != 0.3 || tuning.LeagueAverage[HomeRun] != 0.04 || tuning.BatterWeight != 0.6 {
		t.Fatalf("tuning = %+v", tuning)
	}

	var bad Distribution
	if err := json.Unmarshal([]byte(`{"GIDP": 1}`), &bad); !errors.Is(err, ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}
