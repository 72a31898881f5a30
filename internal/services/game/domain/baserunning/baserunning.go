// Package baserunning advances runners for each plate appearance outcome.
//
// Advance is pure: every base configuration is a legal input and every
// outcome has a rule, so there are no error returns.
package baserunning

import (
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// Bases holds the runner on each base. An empty string means the base is empty.
type Bases struct {
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
	Third  string `json:"third,omitempty"`
}

// Result is the base state after a play and the runners who scored.
type Result struct {
	Bases Bases
	// Scored lists runners in the order they crossed the plate.
	Scored []string
}

// Runs returns the number of runs scored on the play.
func (r Result) Runs() int {
	return len(r.Scored)
}

// Advance moves the batter and runners for outcome.
//
// Hits are conservative: a double moves a runner from first to third, and a
// single moves a runner from second to third unless there were two outs
// before the play, when that runner scores. Walks only move forced runners.
// Strikeouts and outs never move runners.
func Advance(bases Bases, batterID string, outcome probability.Outcome, outsBefore int) Result {
	var next Bases
	var scored []string
	score := func(id string) {
		if id != "" {
			scored = append(scored, id)
		}
	}

	switch outcome {
	case probability.HomeRun:
		score(bases.Third)
		score(bases.Second)
		score(bases.First)
		score(batterID)
	case probability.Triple:
		score(bases.Third)
		score(bases.Second)
		score(bases.First)
		next.Third = batterID
	case probability.Double:
		score(bases.Third)
		score(bases.Second)
		next.Third = bases.First
		next.Second = batterID
	case probability.Single:
		score(bases.Third)
		if outsBefore == 2 {
			score(bases.Second)
		} else {
			next.Third = bases.Second
		}
		next.Second = bases.First
		next.First = batterID
	case probability.Walk:
		next = bases
		if bases.First != "" {
			if bases.Second != "" {
				if bases.Third != "" {
					score(bases.Third)
				}
				next.Third = bases.Second
			}
			next.Second = bases.First
		}
		next.First = batterID
	default:
		next = bases
	}

	return Result{Bases: next, Scored: scored}
}

// Count returns the number of occupied bases.
func (b Bases) Count() int {
	n := 0
	for _, id := range []string{b.First, b.Second, b.Third} {
		if id != "" {
			n++
		}
	}
	return n
}

// Empty reports whether no base is occupied.
func (b Bases) Empty() bool {
	return b.Count() == 0
}

// Loaded reports whether every base is occupied.
func (b Bases) Loaded() bool {
	return b.Count() == 3
}

// ScoringPosition reports whether a runner is on second or third.
func (b Bases) ScoringPosition() bool {
	return b.Second != "" || b.Third != ""
}

// Diagram renders occupancy as "1-3" style text, or "---" when empty.
func (b Bases) Diagram() string {
	mark := func(id, label string) string {
		if id == "" {
			return "-"
		}
		return label
	}
	return mark(b.First, "1") + mark(b.Second, "2") + mark(b.Third, "3")
}
