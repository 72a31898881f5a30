package sim

import (
	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// NewManager builds the pitching manager for side. Every pitcher who has
// appeared and every bullpen arm is on the staff, the active pitcher first.
// A fresh game marks the starter used in the first inning.
func NewManager(cfg Config, r Ratings, side game.Side) *pitching.Manager {
	var staff []pitching.Pitcher
	for _, id := range append(append([]string(nil), side.Pitchers...), side.Bullpen...) {
		rating, ok := ratingOf(r, id)
		staff = append(staff, pitching.Pitcher{
			ID:               id,
			Hand:             rating.Throws,
			IPOuts:           rating.IPOuts,
			Rated:            ok && rating.Pitching != nil,
			FatigueThreshold: rating.FatigueThreshold,
		})
	}
	m := pitching.NewManager(cfg.Pitching, cfg.Tuning.Platoon, staff, func(id string) probability.Hand {
		return lookup(r, id).Bats
	})
	if starter := side.ActivePitcher(); starter != "" {
		m.MarkUsed(starter, 1)
	}
	return m
}

// Managers builds both managers for s and restores any saved snapshots.
func Managers(cfg Config, r Ratings, s game.State, home, away []pitching.PitcherState) (*pitching.Manager, *pitching.Manager) {
	hm := NewManager(cfg, r, s.Home)
	am := NewManager(cfg, r, s.Away)
	if len(home) > 0 {
		hm.Restore(home)
	}
	if len(away) > 0 {
		am.Restore(away)
	}
	return hm, am
}

func ratingOf(r Ratings, id string) (Rating, bool) {
	if r == nil {
		return Rating{}, false
	}
	return r.Rating(id)
}
