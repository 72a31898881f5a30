package probability

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// normalizeTolerance is how far from 1 a total may drift before Normalize rescales.
const normalizeTolerance = 1e-3

// Distribution is a probability per outcome, indexed by Outcome.
type Distribution [NumOutcomes]float64

// Of builds a Distribution from values in precedence order.
func Of(k, bb, out, single, double, triple, hr float64) Distribution {
	return Distribution{k, bb, out, single, double, triple, hr}
}

// LeagueAverage is the distribution used when a rating is absent.
func LeagueAverage() Distribution {
	return Of(0.220, 0.085, 0.455, 0.155, 0.050, 0.005, 0.030)
}

// Get returns the probability of o.
func (d Distribution) Get(o Outcome) float64 {
	if !o.Valid() {
		return 0
	}
	return d[o]
}

// Sum returns the total mass of d.
func (d Distribution) Sum() float64 {
	var total float64
	for _, p := range d {
		total += p
	}
	return total
}

// Normalize rescales d to sum to 1.
//
// Totals already within 1e-3 of 1 are returned unchanged. Negative and NaN
// entries count as zero. A distribution with no positive mass falls back to
// the league average.
func Normalize(d Distribution) Distribution {
	clean := d
	for i, p := range clean {
		if math.IsNaN(p) || p < 0 || math.IsInf(p, 0) {
			clean[i] = 0
		}
	}
	total := clean.Sum()
	if total <= 0 {
		return LeagueAverage()
	}
	if math.Abs(total-1) < normalizeTolerance {
		return clean
	}
	for i := range clean {
		clean[i] /= total
	}
	return clean
}

// Mix returns the normalized weighted sum w*a + (1-w)*b.
func Mix(a, b Distribution, weight float64) Distribution {
	var mixed Distribution
	for i := range mixed {
		mixed[i] = a[i]*weight + b[i]*(1-weight)
	}
	return Normalize(mixed)
}

// Blend combines batter and pitcher distributions, giving the batter
// batterWeight of the mass.
func Blend(batter, pitcher Distribution, batterWeight float64) Distribution {
	return Mix(batter, pitcher, batterWeight)
}

func (d Distribution) toMap() map[string]float64 {
	out := make(map[string]float64, NumOutcomes)
	for _, o := range Outcomes {
		out[o.String()] = d[o]
	}
	return out
}

func (d *Distribution) fromMap(values map[string]float64) error {
	var parsed Distribution
	for code, p := range values {
		o, err := ParseOutcome(code)
		if err != nil {
			return err
		}
		parsed[o] = p
	}
	*d = parsed
	return nil
}

// MarshalJSON encodes d as an object keyed by outcome code.
func (d Distribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toMap())
}

// UnmarshalJSON decodes an object keyed by outcome code.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	var values map[string]float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode distribution: %w", err)
	}
	return d.fromMap(values)
}

// MarshalYAML encodes d as a mapping keyed by outcome code.
func (d Distribution) MarshalYAML() (any, error) {
	return d.toMap(), nil
}

// UnmarshalYAML decodes a mapping keyed by outcome code.
func (d *Distribution) UnmarshalYAML(node *yaml.Node) error {
	var values map[string]float64
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("decode distribution: %w", err)
	}
	return d.fromMap(values)
}
