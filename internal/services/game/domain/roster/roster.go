// Package roster reads league rosters from YAML and turns season stat
// lines into engine ratings.
package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
	"github.com/louisbranch/garoball/internal/services/game/domain/sim"
)

//go:embed sample.yaml
var sampleYAML []byte

var (
	// ErrPlayerIDRequired indicates a player without an id.
	ErrPlayerIDRequired = errors.New("player id is required")
	// ErrNoStats indicates a player with neither batting nor pitching stats.
	ErrNoStats = errors.New("player has no batting or pitching stats")
)

// Player is one player and the season lines behind their ratings.
type Player struct {
	ID       string                     `yaml:"id" json:"id"`
	Name     string                     `yaml:"name" json:"name"`
	Bats     probability.Hand           `yaml:"bats,omitempty" json:"bats,omitempty"`
	Throws   probability.Hand           `yaml:"throws,omitempty" json:"throws,omitempty"`
	Position string                     `yaml:"position,omitempty" json:"position,omitempty"`
	Batting  *probability.BattingStats  `yaml:"batting,omitempty" json:"batting,omitempty"`
	Pitching *probability.PitchingStats `yaml:"pitching,omitempty" json:"pitching,omitempty"`
	// FatigueThreshold overrides the default outs a pitcher lasts.
	FatigueThreshold int `yaml:"fatigue_threshold,omitempty" json:"fatigue_threshold,omitempty"`
}

// Normalize trims the id and canonicalizes hands.
func (p Player) Normalize() (Player, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	if p.ID == "" {
		return p, ErrPlayerIDRequired
	}
	bats, err := probability.ParseHand(string(p.Bats))
	if err != nil {
		return p, fmt.Errorf("player %s bats: %w", p.ID, err)
	}
	throws, err := probability.ParseHand(string(p.Throws))
	if err != nil {
		return p, fmt.Errorf("player %s throws: %w", p.ID, err)
	}
	p.Bats, p.Throws = bats, throws
	if p.Batting == nil && p.Pitching == nil {
		return p, fmt.Errorf("player %s: %w", p.ID, ErrNoStats)
	}
	if p.FatigueThreshold < 0 {
		return p, fmt.Errorf("player %s: fatigue threshold must not be negative", p.ID)
	}
	return p, nil
}

// Rating converts the player's stat lines into engine ratings.
func (p Player) Rating() sim.Rating {
	r := sim.Rating{
		Bats:             p.Bats,
		Throws:           p.Throws,
		FatigueThreshold: p.FatigueThreshold,
	}
	if p.Batting != nil {
		d := probability.FromBatting(*p.Batting)
		r.Batting = &d
	}
	if p.Pitching != nil {
		d := probability.FromPitching(*p.Pitching)
		r.Pitching = &d
		r.IPOuts = p.Pitching.IPOuts
	}
	return r
}

// Team is a club's default game configuration.
type Team struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Lineup  []string `yaml:"lineup" json:"lineup"`
	Starter string   `yaml:"starter" json:"starter"`
	Bullpen []string `yaml:"bullpen,omitempty" json:"bullpen,omitempty"`
}

// Setup returns the team's setup for one game.
func (t Team) Setup() game.TeamSetup {
	return game.TeamSetup{
		TeamID:  t.ID,
		Lineup:  append([]string(nil), t.Lineup...),
		Starter: t.Starter,
		Bullpen: append([]string(nil), t.Bullpen...),
	}
}

// Roster is a league of teams and players.
type Roster struct {
	Teams   []Team   `yaml:"teams" json:"teams"`
	Players []Player `yaml:"players" json:"players"`
}

// Parse decodes and validates a YAML roster.
func Parse(r io.Reader) (Roster, error) {
	var out Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	if err := out.normalize(); err != nil {
		return Roster{}, err
	}
	return out, nil
}

// Load reads a YAML roster from path.
func Load(path string) (Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Sample returns the built-in two-team league. It panics if the embedded
// file does not parse.
func Sample() Roster {
	r, err := Parse(strings.NewReader(string(sampleYAML)))
	if err != nil {
		panic(fmt.Sprintf("sample roster: %v", err))
	}
	return r
}

func (r *Roster) normalize() error {
	seen := make(map[string]bool, len(r.Players))
	var errs []error
	for i, p := range r.Players {
		np, err := p.Normalize()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[np.ID] {
			errs = append(errs, fmt.Errorf("duplicate player %s", np.ID))
			continue
		}
		seen[np.ID] = true
		r.Players[i] = np
	}
	teams := make(map[string]bool, len(r.Teams))
	for i, t := range r.Teams {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			errs = append(errs, errors.New("team id is required"))
			continue
		}
		if teams[t.ID] {
			errs = append(errs, fmt.Errorf("duplicate team %s", t.ID))
			continue
		}
		teams[t.ID] = true
		for _, id := range append(append(append([]string(nil), t.Lineup...), t.Starter), t.Bullpen...) {
			if !seen[id] {
				errs = append(errs, fmt.Errorf("team %s references unknown player %q", t.ID, id))
			}
		}
		r.Teams[i] = t
	}
	return errors.Join(errs...)
}

// Team returns the team with id.
func (r Roster) Team(id string) (Team, bool) {
	for _, t := range r.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Player returns the player with id.
func (r Roster) Player(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Ratings converts every player into engine ratings.
func (r Roster) Ratings() sim.RatingMap {
	out := make(sim.RatingMap, len(r.Players))
	for _, p := range r.Players {
		out[p.ID] = p.Rating()
	}
	return out
}

// Setup pairs two teams for a game.
func (r Roster) Setup(gameID, homeID, awayID string, seed uint32, handedness bool) (game.Setup, error) {
	home, ok := r.Team(homeID)
	if !ok {
		return game.Setup{}, fmt.Errorf("unknown team %q", homeID)
	}
	away, ok := r.Team(awayID)
	if !ok {
		return game.Setup{}, fmt.Errorf("unknown team %q", awayID)
	}
	return game.Setup{
		ID:         gameID,
		Home:       home.Setup(),
		Away:       away.Setup(),
		Seed:       seed,
		Handedness: handedness,
	}, nil
}
