// Package dicetable maps outcome distributions onto the 16 slots of a
// three-dice roll.
//
// Slot i holds the dice sum i+3. Slots are weighted by how many of the 216
// die triples produce that sum, so an outcome's chance is the summed weight
// of its slots over 216.
package dicetable

import (
	"fmt"
	"strings"

	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// Slots is the number of distinct three-dice sums.
const Slots = 16

// TotalWeight is the number of ordered three-dice combinations.
const TotalWeight = 216

// Weights is the number of die triples summing to each slot.
var Weights = [Slots]int{1, 3, 6, 10, 15, 21, 25, 27, 27, 25, 21, 15, 10, 6, 3, 1}

// Range is an inclusive span of slots. Empty ranges have Hi < Lo.
type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// emptyRange is the canonical empty span.
var emptyRange = Range{Lo: 0, Hi: -1}

// Empty reports whether r covers no slots.
func (r Range) Empty() bool {
	return r.Hi < r.Lo
}

// Contains reports whether slot falls inside r.
func (r Range) Contains(slot int) bool {
	return !r.Empty() && slot >= r.Lo && slot <= r.Hi
}

// Len returns the number of slots in r.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Hi - r.Lo + 1
}

// Weight returns the summed slot weight of r.
func (r Range) Weight() int {
	total := 0
	for slot := r.Lo; slot <= r.Hi; slot++ {
		total += Weights[slot]
	}
	return total
}

// String renders r as dice sums, for example "9-11".
func (r Range) String() string {
	switch {
	case r.Empty():
		return "-"
	case r.Lo == r.Hi:
		return fmt.Sprintf("%d", r.Lo+3)
	default:
		return fmt.Sprintf("%d-%d", r.Lo+3, r.Hi+3)
	}
}

// Allocation assigns a slot range to each outcome, indexed by Outcome.
type Allocation [probability.NumOutcomes]Range

// Apportion partitions the 16 slots into contiguous ranges in outcome
// precedence order so each outcome's weighted share approximates its
// probability.
//
// The walk tracks the ideal cumulative weight (probability times 216,
// accumulated in precedence order) and extends the current range while the
// next slot boundary lands closer to that ideal. Every outcome with positive
// probability gets at least one slot, and enough slots are held back for the
// positive outcomes still to come. Zero-probability outcomes get an empty
// range. The last positive outcome takes whatever slots remain.
func Apportion(d probability.Distribution) Allocation {
	d = probability.Normalize(d)

	var alloc Allocation
	for i := range alloc {
		alloc[i] = emptyRange
	}

	remaining := 0
	for _, p := range d {
		if p > 0 {
			remaining++
		}
	}

	var ideal float64
	cursor, actual := 0, 0
	for _, o := range probability.Outcomes {
		p := d[o]
		if p <= 0 {
			continue
		}
		ideal += p * TotalWeight
		remaining--

		lo := cursor
		if remaining == 0 {
			alloc[o] = Range{Lo: lo, Hi: Slots - 1}
			break
		}
		// Leave one slot for each positive outcome still to come.
		limit := Slots - remaining
		actual += Weights[cursor]
		cursor++
		for cursor < limit && float64(actual)+float64(Weights[cursor])/2 < ideal {
			actual += Weights[cursor]
			cursor++
		}
		alloc[o] = Range{Lo: lo, Hi: cursor - 1}
	}
	return alloc
}

// OutcomeFor returns the outcome owning slot. Slots outside 0-15 are
// clamped to the nearest edge.
func OutcomeFor(slot int, a Allocation) probability.Outcome {
	if slot < 0 {
		slot = 0
	}
	if slot >= Slots {
		slot = Slots - 1
	}
	for _, o := range probability.Outcomes {
		if a[o].Contains(slot) {
			return o
		}
	}
	return probability.Out
}

// Weighted returns the probability each outcome actually receives under a.
func Weighted(a Allocation) probability.Distribution {
	var d probability.Distribution
	for _, o := range probability.Outcomes {
		d[o] = float64(a[o].Weight()) / TotalWeight
	}
	return d
}

// Table expands a into the outcome for every slot.
func Table(a Allocation) [Slots]probability.Outcome {
	var table [Slots]probability.Outcome
	for slot := range table {
		table[slot] = OutcomeFor(slot, a)
	}
	return table
}

// String renders a as "K 3-8, BB 9, ..." skipping empty ranges.
func (a Allocation) String() string {
	parts := make([]string, 0, probability.NumOutcomes)
	for _, o := range probability.Outcomes {
		if a[o].Empty() {
			continue
		}
		parts = append(parts, o.String()+" "+a[o].String())
	}
	return strings.Join(parts, ", ")
}
