package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
)

// MinLineupSize is the smallest lineup a game accepts.
const MinLineupSize = 9

// summaryLimit caps how many ids appear in a validation message.
const summaryLimit = 5

// ErrInvalidSetup indicates a game setup that cannot start a game.
var ErrInvalidSetup = errors.New("invalid game setup")

// TeamSetup is one team's starting configuration.
type TeamSetup struct {
	TeamID  string   `json:"team_id" yaml:"team_id"`
	Lineup  []string `json:"lineup" yaml:"lineup"`
	Starter string   `json:"starter" yaml:"starter"`
	Bullpen []string `json:"bullpen,omitempty" yaml:"bullpen,omitempty"`
}

// Setup describes a game before the first pitch.
type Setup struct {
	ID         string
	Home       TeamSetup
	Away       TeamSetup
	Seed       uint32
	Handedness bool
}

// SetupError lists every problem found in a Setup.
type SetupError struct {
	Problems []string
}

// Error implements error.
func (e *SetupError) Error() string {
	return "invalid game setup: " + strings.Join(e.Problems, " ")
}

// Unwrap lets errors.Is match ErrInvalidSetup.
func (e *SetupError) Unwrap() error {
	return ErrInvalidSetup
}

// Validate checks lineups and starting pitchers.
func (s Setup) Validate() error {
	var problems []string
	problems = append(problems, validateLineup(s.Home.Lineup, "Home")...)
	problems = append(problems, validateLineup(s.Away.Lineup, "Away")...)
	problems = append(problems, validatePitcher(s.Home.Starter, "Home")...)
	problems = append(problems, validatePitcher(s.Away.Starter, "Away")...)
	if strings.TrimSpace(s.Home.TeamID) == "" || strings.TrimSpace(s.Away.TeamID) == "" {
		problems = append(problems, "Both team ids are required.")
	} else if s.Home.TeamID == s.Away.TeamID {
		problems = append(problems, "Home and away teams must differ.")
	}
	if len(problems) > 0 {
		return &SetupError{Problems: problems}
	}
	return nil
}

func validateLineup(lineup []string, label string) []string {
	if len(lineup) == 0 {
		return []string{label + " lineup is missing."}
	}
	var problems []string
	if len(lineup) < MinLineupSize {
		problems = append(problems, fmt.Sprintf("%s lineup needs at least %d players.", label, MinLineupSize))
	}
	for _, id := range lineup {
		if strings.TrimSpace(id) == "" {
			problems = append(problems, label+" lineup has invalid player ids.")
			break
		}
	}
	if dups := duplicates(lineup); len(dups) > 0 {
		problems = append(problems, fmt.Sprintf("%s lineup has duplicate player ids: %s.", label, SummarizeIDs(dups)))
	}
	return problems
}

func validatePitcher(id, label string) []string {
	if strings.TrimSpace(id) == "" {
		return []string{label + " pitcher is required."}
	}
	return nil
}

func duplicates(ids []string) []string {
	counts := make(map[string]int, len(ids))
	var order []string
	for _, id := range ids {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	var dups []string
	for _, id := range order {
		if counts[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

// SummarizeIDs joins ids, eliding past the first five.
func SummarizeIDs(ids []string) string {
	if len(ids) <= summaryLimit {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(ids[:summaryLimit], ", "), len(ids)-summaryLimit)
}

// New validates setup and returns a scheduled game with the home starter on
// the mound for the top of the first.
func New(setup Setup) (State, error) {
	if err := setup.Validate(); err != nil {
		return State{}, err
	}
	home := newSide(setup.Home)
	away := newSide(setup.Away)
	return State{
		ID:         setup.ID,
		Status:     StatusScheduled,
		Inning:     1,
		Half:       Top,
		Home:       home,
		Away:       away,
		Pitcher:    home.ActivePitcher(),
		Handedness: setup.Handedness,
		RNG:        rng.State{Seed: setup.Seed},
		Box: BoxScore{
			Home: newTeamBox(home.Lineup, home.ActivePitcher()),
			Away: newTeamBox(away.Lineup, away.ActivePitcher()),
		},
	}, nil
}

func newSide(t TeamSetup) Side {
	return Side{
		TeamID:   strings.TrimSpace(t.TeamID),
		Lineup:   append([]string(nil), t.Lineup...),
		Pitchers: []string{strings.TrimSpace(t.Starter)},
		Bullpen:  append([]string(nil), t.Bullpen...),
	}
}
