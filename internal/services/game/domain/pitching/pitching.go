// Package pitching decides when a team's pitcher should come out and who
// comes in.
//
// A Manager owns the in-game load of one team's staff. It reads the game
// state but never changes it: the caller applies accepted substitutions
// through game.State.Substitute and reports them back with MarkUsed.
package pitching

import (
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// Role is a pitcher's usage tier, inferred from season workload.
type Role string

const (
	RoleStarter  Role = "starter"
	RoleReliever Role = "reliever"
	RoleCloser   Role = "closer"
)

// Urgency grades a pull decision.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Config holds the thresholds behind pull and relief decisions.
type Config struct {
	// MaxOutsPerStarter is the fatigue threshold for pitchers without one of their own.
	MaxOutsPerStarter int `yaml:"max_outs_per_starter" json:"max_outs_per_starter"`
	// MaxRunsBeforePull pulls a pitcher who allows this many runs in one appearance.
	MaxRunsBeforePull int `yaml:"max_runs_before_pull" json:"max_runs_before_pull"`
	// LeverageThreshold marks a situation as high leverage.
	LeverageThreshold float64 `yaml:"leverage_threshold" json:"leverage_threshold"`
	// StarterInnings and RelieverInnings are the season workloads that
	// classify a pitcher as starter or reliever. Lighter workloads are closers.
	StarterInnings  float64 `yaml:"starter_innings" json:"starter_innings"`
	RelieverInnings float64 `yaml:"reliever_innings" json:"reliever_innings"`
	// RestInnings is the rest a reliever needs before pitching again.
	RestInnings int `yaml:"rest_innings" json:"rest_innings"`
	// LateInning is where closers come into play.
	LateInning int `yaml:"late_inning" json:"late_inning"`
	// MiddleInning is where relievers are preferred over any arm.
	MiddleInning int `yaml:"middle_inning" json:"middle_inning"`
	// PlatoonPowerTrigger is the batter power boost that makes a platoon change worth it.
	PlatoonPowerTrigger float64 `yaml:"platoon_power_trigger" json:"platoon_power_trigger"`
	// MinOutsBeforePlatoon is how long a pitcher must last before a platoon change.
	MinOutsBeforePlatoon int `yaml:"min_outs_before_platoon" json:"min_outs_before_platoon"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MaxOutsPerStarter:    21,
		MaxRunsBeforePull:    5,
		LeverageThreshold:    0.7,
		StarterInnings:       150,
		RelieverInnings:      50,
		RestInnings:          2,
		LateInning:           8,
		MiddleInning:         6,
		PlatoonPowerTrigger:  1.10,
		MinOutsBeforePlatoon: 3,
	}
}

// Pitcher describes a staff member before the game.
type Pitcher struct {
	ID   string
	Hand probability.Hand
	// IPOuts is the season workload in outs. It is ignored unless Rated is set.
	IPOuts int
	Rated  bool
	// FatigueThreshold overrides Config.MaxOutsPerStarter when positive.
	FatigueThreshold int
}

// RoleFor classifies a pitcher by season innings. Unrated pitchers are relievers.
func (c Config) RoleFor(p Pitcher) Role {
	if !p.Rated {
		return RoleReliever
	}
	innings := float64(p.IPOuts) / 3
	switch {
	case innings >= c.StarterInnings:
		return RoleStarter
	case innings >= c.RelieverInnings:
		return RoleReliever
	default:
		return RoleCloser
	}
}

// PitcherState is a pitcher's load in the current appearance.
type PitcherState struct {
	ID               string           `json:"id"`
	Hand             probability.Hand `json:"hand,omitempty"`
	Role             Role             `json:"role"`
	FatigueThreshold int              `json:"fatigue_threshold,omitempty"`
	OutsRecorded     int              `json:"outs_recorded"`
	RunsAllowed      int              `json:"runs_allowed"`
	HitsAllowed      int              `json:"hits_allowed"`
	WalksAllowed     int              `json:"walks_allowed"`
	Available        bool             `json:"available"`
	Used             bool             `json:"used"`
	LastUsedInning   int              `json:"last_used_inning,omitempty"`
}

// Decision is the outcome of a pull evaluation.
type Decision struct {
	Pull    bool    `json:"pull"`
	Reason  string  `json:"reason"`
	Urgency Urgency `json:"urgency"`
	// Relief is the chosen replacement, set only by Manager.Decide.
	Relief string `json:"relief,omitempty"`
}
