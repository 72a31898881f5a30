// Package probability models the outcome distribution of a plate appearance
// and the ways batter and pitcher ratings combine into one.
package probability

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome is the result of a plate appearance.
//
// The numeric order is the fixed precedence used by dice-table allocation.
type Outcome int

const (
	Strikeout Outcome = iota
	Walk
	Out
	Single
	Double
	Triple
	HomeRun
)

// NumOutcomes is the size of the outcome set.
const NumOutcomes = 7

// ErrUnknownOutcome indicates an outcome code that is not part of the set.
var ErrUnknownOutcome = errors.New("unknown outcome")

// Outcomes lists every outcome in precedence order.
var Outcomes = [NumOutcomes]Outcome{Strikeout, Walk, Out, Single, Double, Triple, HomeRun}

var outcomeCodes = [NumOutcomes]string{"K", "BB", "OUT", "1B", "2B", "3B", "HR"}

// String returns the scorebook code for o.
func (o Outcome) String() string {
	if !o.Valid() {
		return "Unknown"
	}
	return outcomeCodes[o]
}

// Valid reports whether o is part of the outcome set.
func (o Outcome) Valid() bool {
	return o >= Strikeout && o <= HomeRun
}

// IsHit reports whether o puts the batter on base with a hit.
func (o Outcome) IsHit() bool {
	return o >= Single && o <= HomeRun
}

// IsOut reports whether o records an out.
func (o Outcome) IsOut() bool {
	return o == Strikeout || o == Out
}

// IsAtBat reports whether o counts as an official at-bat.
func (o Outcome) IsAtBat() bool {
	return o != Walk
}

// ParseOutcome parses a scorebook code such as "K" or "2B".
func ParseOutcome(code string) (Outcome, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range outcomeCodes {
		if c == code {
			return Outcome(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, code)
}

// MarshalText encodes o as its scorebook code.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes a scorebook code.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
