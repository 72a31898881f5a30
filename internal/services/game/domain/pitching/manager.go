package pitching

import (
	"fmt"
	"strings"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// HandLookup resolves the batting hand of a player. Unknown players return "".
type HandLookup func(playerID string) probability.Hand

// Manager tracks one staff's appearances during a game.
//
// Manager is not safe for concurrent use; each game owns its managers.
type Manager struct {
	cfg     Config
	platoon probability.PlatoonTable
	hands   HandLookup
	order   []string
	states  map[string]*PitcherState
}

// NewManager builds a manager for pitchers. Order is significant: relief
// candidates are considered in the order given.
func NewManager(cfg Config, platoon probability.PlatoonTable, pitchers []Pitcher, hands HandLookup) *Manager {
	if hands == nil {
		hands = func(string) probability.Hand { return "" }
	}
	m := &Manager{
		cfg:     cfg,
		platoon: platoon,
		hands:   hands,
		states:  make(map[string]*PitcherState, len(pitchers)),
	}
	for _, p := range pitchers {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		if _, ok := m.states[id]; ok {
			continue
		}
		m.order = append(m.order, id)
		m.states[id] = &PitcherState{
			ID:               id,
			Hand:             p.Hand,
			Role:             cfg.RoleFor(p),
			FatigueThreshold: p.FatigueThreshold,
			Available:        true,
		}
	}
	return m
}

// Leverage scores how much the current situation matters, from 0 to 2.
func Leverage(s game.State) float64 {
	diff := s.HomeScore - s.AwayScore
	if diff < 0 {
		diff = -diff
	}
	score := 1.5
	if diff != 0 {
		score = max(0.3, 1.5-float64(diff)*0.2)
	}
	inning := 1.0
	if s.Inning >= 7 {
		inning = 1.5
	}
	runners := 0.0
	if s.Bases.First != "" {
		runners += 0.3
	}
	if s.Bases.Second != "" {
		runners += 0.5
	}
	if s.Bases.Third != "" {
		runners += 0.7
	}
	outs := 1.0
	if s.Outs == 2 {
		outs = 1.3
	}
	return min(2.0, score*inning*(1+runners)*outs)
}

// ShouldPull evaluates whether pitcherID should leave the game. Rules are
// checked in order: runs allowed, fatigue, late high-leverage closer, then
// platoon disadvantage with runners on.
func (m *Manager) ShouldPull(s game.State, pitcherID string) Decision {
	st, ok := m.states[pitcherID]
	if !ok {
		return Decision{Reason: "Unknown pitcher", Urgency: UrgencyLow}
	}
	leverage := Leverage(s)
	highLeverage := leverage >= m.cfg.LeverageThreshold

	if st.RunsAllowed >= m.cfg.MaxRunsBeforePull {
		return Decision{Pull: true, Reason: fmt.Sprintf("Allowed %d runs", st.RunsAllowed), Urgency: UrgencyHigh}
	}

	if st.OutsRecorded >= m.fatigueThreshold(st) {
		if highLeverage {
			return Decision{Pull: true, Reason: "Fatigued in high leverage situation", Urgency: UrgencyHigh}
		}
		return Decision{Pull: true, Reason: "Reached fatigue limit", Urgency: UrgencyMedium}
	}

	if s.Inning >= m.cfg.LateInning && highLeverage && st.Role != RoleCloser && m.hasCloser(pitcherID, s.Inning) {
		return Decision{Pull: true, Reason: "High leverage late inning - bring in closer", Urgency: UrgencyMedium}
	}

	if !s.Bases.Empty() && st.Hand.Known() && st.OutsRecorded >= m.cfg.MinOutsBeforePlatoon {
		batterHand := m.hands(s.CurrentBatter())
		if batterHand.Known() && m.platoon.Modifiers(batterHand, st.Hand).PowerBoost > m.cfg.PlatoonPowerTrigger {
			if m.hasSpecialist(batterHand, pitcherID, s.Inning) {
				return Decision{Pull: true, Reason: "Platoon disadvantage with runners on", Urgency: UrgencyLow}
			}
		}
	}

	return Decision{Reason: "Pitcher performing well", Urgency: UrgencyLow}
}

// SelectRelief picks the best available replacement for currentID.
func (m *Manager) SelectRelief(s game.State, currentID string) (string, bool) {
	var available []*PitcherState
	for _, id := range m.order {
		st := m.states[id]
		if st.Available && id != currentID && m.rested(st, s.Inning) {
			available = append(available, st)
		}
	}
	if len(available) == 0 {
		return "", false
	}
	batterHand := m.hands(s.CurrentBatter())

	if s.Inning >= m.cfg.LateInning && Leverage(s) >= m.cfg.LeverageThreshold {
		if closers := filterRoles(available, RoleCloser); len(closers) > 0 {
			return m.bestMatchup(closers, batterHand), true
		}
	}
	if s.Inning >= m.cfg.MiddleInning {
		if pen := filterRoles(available, RoleReliever, RoleCloser); len(pen) > 0 {
			return m.bestMatchup(pen, batterHand), true
		}
	}
	return m.bestMatchup(available, batterHand), true
}

// Decide runs ShouldPull for the fielding side's active pitcher and, on a
// pull, selects relief. A pull with nobody available is reported with Pull
// unset so the pitcher stays in.
func (m *Manager) Decide(s game.State) Decision {
	d := m.ShouldPull(s, s.Pitcher)
	if !d.Pull {
		return d
	}
	relief, ok := m.SelectRelief(s, s.Pitcher)
	if !ok {
		return Decision{Reason: d.Reason + " (no relief available)", Urgency: d.Urgency}
	}
	d.Relief = relief
	return d
}

// Update tallies a play against pitcherID.
func (m *Manager) Update(pitcherID string, outcome probability.Outcome, runs int) {
	st, ok := m.states[pitcherID]
	if !ok {
		return
	}
	switch {
	case outcome.IsOut():
		st.OutsRecorded++
	case outcome == probability.Walk:
		st.WalksAllowed++
	case outcome.IsHit():
		st.HitsAllowed++
	}
	st.RunsAllowed += runs
}

// MarkUsed starts a new appearance for pitcherID in inning.
func (m *Manager) MarkUsed(pitcherID string, inning int) {
	st, ok := m.states[pitcherID]
	if !ok {
		return
	}
	st.Used = true
	st.LastUsedInning = inning
	st.OutsRecorded = 0
	st.RunsAllowed = 0
	st.HitsAllowed = 0
	st.WalksAllowed = 0
}

// SetAvailable marks pitcherID available or not.
func (m *Manager) SetAvailable(pitcherID string, available bool) {
	if st, ok := m.states[pitcherID]; ok {
		st.Available = available
	}
}

// State returns a copy of pitcherID's state.
func (m *Manager) State(pitcherID string) (PitcherState, bool) {
	st, ok := m.states[pitcherID]
	if !ok {
		return PitcherState{}, false
	}
	return *st, true
}

// Available lists available pitchers in staff order.
func (m *Manager) Available() []PitcherState {
	var out []PitcherState
	for _, id := range m.order {
		if st := m.states[id]; st.Available {
			out = append(out, *st)
		}
	}
	return out
}

// Snapshot copies every pitcher's state in staff order.
func (m *Manager) Snapshot() []PitcherState {
	out := make([]PitcherState, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.states[id])
	}
	return out
}

// Restore overwrites tracked pitchers' state from a snapshot and adopts the
// snapshot's staff order, so relief selection matches the manager that took
// it. Pitchers not already on the staff are ignored; staff missing from the
// snapshot keep their state and move to the end.
func (m *Manager) Restore(states []PitcherState) {
	order := make([]string, 0, len(m.order))
	seen := make(map[string]bool, len(states))
	for _, st := range states {
		cur, ok := m.states[st.ID]
		if !ok || seen[st.ID] {
			continue
		}
		*cur = st
		seen[st.ID] = true
		order = append(order, st.ID)
	}
	for _, id := range m.order {
		if !seen[id] {
			order = append(order, id)
		}
	}
	m.order = order
}

func (m *Manager) fatigueThreshold(st *PitcherState) int {
	if st.FatigueThreshold > 0 {
		return st.FatigueThreshold
	}
	return m.cfg.MaxOutsPerStarter
}

// rested reports whether st can pitch in inning. Starters never return
// once used; relievers need RestInnings.
func (m *Manager) rested(st *PitcherState, inning int) bool {
	if !st.Used {
		return true
	}
	if st.Role == RoleStarter {
		return false
	}
	return inning-st.LastUsedInning >= m.cfg.RestInnings
}

func (m *Manager) hasCloser(excludeID string, inning int) bool {
	for _, id := range m.order {
		st := m.states[id]
		if id != excludeID && st.Role == RoleCloser && st.Available && m.rested(st, inning) {
			return true
		}
	}
	return false
}

// hasSpecialist reports whether someone could take away batterHand's edge.
func (m *Manager) hasSpecialist(batterHand probability.Hand, excludeID string, inning int) bool {
	for _, id := range m.order {
		st := m.states[id]
		if id == excludeID || !st.Available || !st.Hand.Known() || !m.rested(st, inning) {
			continue
		}
		if m.platoon.Modifiers(batterHand, st.Hand).PowerBoost < 1 {
			return true
		}
	}
	return false
}

// bestMatchup prefers the first candidate who suppresses the batter's power.
func (m *Manager) bestMatchup(candidates []*PitcherState, batterHand probability.Hand) string {
	if batterHand.Known() {
		for _, st := range candidates {
			if st.Hand.Known() && m.platoon.Modifiers(batterHand, st.Hand).PowerBoost < 1 {
				return st.ID
			}
		}
	}
	return candidates[0].ID
}

func filterRoles(states []*PitcherState, roles ...Role) []*PitcherState {
	var out []*PitcherState
	for _, st := range states {
		for _, r := range roles {
			if st.Role == r {
				out = append(out, st)
				break
			}
		}
	}
	return out
}
