package sim

import (
	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// Rating is what the engine knows about one player.
type Rating struct {
	Bats   probability.Hand
	Throws probability.Hand
	// Batting and Pitching are nil when the player has no rating of that kind.
	Batting  *probability.Distribution
	Pitching *probability.Distribution
	// IPOuts is the season pitching workload used to infer a role.
	IPOuts           int
	FatigueThreshold int
}

// Ratings looks up player ratings.
type Ratings interface {
	Rating(playerID string) (Rating, bool)
}

// RatingMap is an in-memory Ratings.
type RatingMap map[string]Rating

// Rating implements Ratings.
func (m RatingMap) Rating(playerID string) (Rating, bool) {
	r, ok := m[playerID]
	return r, ok
}

func lookup(r Ratings, playerID string) Rating {
	if r == nil {
		return Rating{}
	}
	rating, _ := r.Rating(playerID)
	return rating
}

// MissingRatings lists lineup players without batting ratings and pitchers
// without pitching ratings. The engine plays them at league average.
func MissingRatings(s game.State, r Ratings) []string {
	var missing []string
	type key struct {
		id      string
		pitcher bool
	}
	seen := make(map[key]bool)
	check := func(id string, pitcher bool) {
		k := key{id: id, pitcher: pitcher}
		if id == "" || seen[k] {
			return
		}
		seen[k] = true
		rating := lookup(r, id)
		if (pitcher && rating.Pitching == nil) || (!pitcher && rating.Batting == nil) {
			missing = append(missing, id)
		}
	}
	for _, side := range []game.Side{s.Away, s.Home} {
		for _, id := range side.Lineup {
			check(id, false)
		}
	}
	for _, side := range []game.Side{s.Away, s.Home} {
		for _, id := range side.Pitchers {
			check(id, true)
		}
		for _, id := range side.Bullpen {
			check(id, true)
		}
	}
	return missing
}
