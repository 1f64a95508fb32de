// Package sched implements the preview-then-commit protocol for timed
// actions. Labor, fishing, crafting, timed travel, and rest are all the
// same protocol with different preview functions: a pure preview maps a
// candidate duration to costs and rewards, a confirmed duration freezes
// a commit, and the commit is applied exactly once when the
// presentation layer signals that its progress phase finished. Real
// elapsed time never matters here; the progress phase is purely
// presentational.
package sched

import (
	"errors"
	"fmt"

	"github.com/nboyd/hearthvale/engine/clock"
	"github.com/nboyd/hearthvale/engine/inventory"
	"github.com/nboyd/hearthvale/types"
)

var (
	// ErrInsufficientEnergy means the confirmed duration costs more
	// energy than the player has.
	ErrInsufficientEnergy = errors.New("insufficient energy")
	// ErrBusy means a request or frozen commit is already in flight.
	ErrBusy = errors.New("timed action already in progress")
	// ErrNoPending means there is nothing to confirm, complete, or cancel.
	ErrNoPending = errors.New("no pending timed action")
	// ErrOutOfRange means the requested duration exceeds the request's bound.
	ErrOutOfRange = errors.New("duration out of range")
)

// Preview is the projected outcome of running an action for some
// duration. Computing one mutates nothing.
type Preview struct {
	Hours           int
	DurationMinutes int
	EnergyCost      int
	VitalsDeltas    []types.VitalDelta // extra deltas beyond the energy cost
	Rewards         []types.Stack
	Copper          int // currency reward, in base units
	Expended        []types.Stack
	TravelTo        string // destination applied at completion, "" for none
	Summary         string
}

// PreviewFn maps a duration in hours to its projected outcome. It must
// be pure: same hours, same preview.
type PreviewFn func(hours int) Preview

// Request is an ephemeral timed-action proposal awaiting a duration.
type Request struct {
	Name     string
	MaxHours int
	Preview  PreviewFn
}

// Commit is the frozen outcome snapshot, applied exactly once.
type Commit struct {
	Name            string             `json:"name"`
	DurationMinutes int                `json:"duration_minutes"`
	VitalsDeltas    []types.VitalDelta `json:"vitals_deltas"`
	Rewards         []types.Stack      `json:"rewards"`
	Copper          int                `json:"copper,omitempty"`
	Expended        []types.Stack      `json:"expended"`
	TravelTo        string             `json:"travel_to,omitempty"`
	Summary         string             `json:"summary,omitempty"`
}

// Scheduler owns at most one in-flight timed action and applies its
// commit atomically: clock, vitals, and inventory change together, with
// no observable intermediate state between them.
type Scheduler struct {
	clock  *clock.Clock
	inv    *inventory.Inventory
	player *types.Player
	items  map[string]types.ItemDef

	pending *Request
	frozen  *Commit
}

// New wires a scheduler to the state it commits against. The item
// definitions are needed to weigh rewards at confirm time.
func New(c *clock.Clock, inv *inventory.Inventory, player *types.Player, items map[string]types.ItemDef) *Scheduler {
	return &Scheduler{clock: c, inv: inv, player: player, items: items}
}

// Begin registers a request and pauses ambient time while the player
// deliberates. Fails with ErrBusy if an action is already in flight.
func (s *Scheduler) Begin(req Request) error {
	if s.pending != nil || s.frozen != nil {
		return ErrBusy
	}
	if req.MaxHours < 1 {
		req.MaxHours = 1
	}
	s.pending = &req
	s.clock.Pause()
	return nil
}

// PreviewAt projects the outcome for a candidate duration without
// mutating anything. Repeatable: same hours, same preview.
func (s *Scheduler) PreviewAt(hours int) (Preview, error) {
	if s.pending == nil {
		return Preview{}, ErrNoPending
	}
	if hours < 1 || hours > s.pending.MaxHours {
		return Preview{}, fmt.Errorf("%d hours (max %d): %w", hours, s.pending.MaxHours, ErrOutOfRange)
	}
	return s.pending.Preview(hours), nil
}

// Confirm freezes a commit for the chosen duration. Everything that
// could make the commit unapplyable (energy, expended stock, reward
// capacity) is validated here so Complete cannot fail halfway. On any
// validation error no state changes and the request stays pending.
func (s *Scheduler) Confirm(hours int) (*Commit, error) {
	p, err := s.PreviewAt(hours)
	if err != nil {
		return nil, err
	}
	if p.EnergyCost > s.player.Vitals.Energy {
		return nil, fmt.Errorf("need %d energy, have %d: %w",
			p.EnergyCost, s.player.Vitals.Energy, ErrInsufficientEnergy)
	}
	if err := s.checkRewardCapacity(p); err != nil {
		return nil, err
	}

	deltas := make([]types.VitalDelta, 0, len(p.VitalsDeltas)+1)
	if p.EnergyCost > 0 {
		deltas = append(deltas, types.VitalDelta{Vital: "energy", Amount: -p.EnergyCost})
	}
	deltas = append(deltas, p.VitalsDeltas...)

	duration := p.DurationMinutes
	if duration == 0 {
		duration = p.Hours * 60
	}

	s.frozen = &Commit{
		Name:            s.pending.Name,
		DurationMinutes: duration,
		VitalsDeltas:    deltas,
		Rewards:         p.Rewards,
		Copper:          p.Copper,
		Expended:        p.Expended,
		TravelTo:        p.TravelTo,
		Summary:         p.Summary,
	}
	s.pending = nil
	return s.frozen, nil
}

// checkRewardCapacity verifies the expended items are in stock and the
// net weight change of the exchange fits the bag. Nothing else mutates
// the inventory between Confirm and Complete (the session is
// suspended), so a check here guarantees Complete succeeds.
func (s *Scheduler) checkRewardCapacity(p Preview) error {
	weight := s.inv.Weight()
	for _, st := range p.Expended {
		if !s.inv.Has(st.ItemID, st.Quantity) {
			return fmt.Errorf("%s: %w", st.ItemID, inventory.ErrInsufficientQuantity)
		}
		weight -= s.itemWeight(st.ItemID) * float64(st.Quantity)
	}
	for _, st := range p.Rewards {
		weight += s.itemWeight(st.ItemID) * float64(st.Quantity)
	}
	if weight > s.inv.MaxWeight() {
		return inventory.ErrCapacityExceeded
	}
	return nil
}

func (s *Scheduler) itemWeight(itemID string) float64 {
	return s.items[itemID].Weight
}

// Complete applies the frozen commit exactly once: the clock advances
// by the committed minutes, vitals deltas apply clamped to [0, max],
// expended resources leave the bag, and rewards enter it — one logical
// unit. A second call fails with ErrNoPending and changes nothing.
func (s *Scheduler) Complete() error {
	if s.frozen == nil {
		return ErrNoPending
	}
	c := s.frozen
	s.frozen = nil

	s.clock.Advance(c.DurationMinutes)
	for _, d := range c.VitalsDeltas {
		applyVital(&s.player.Vitals, d)
	}
	_ = s.inv.Exchange(c.Expended, c.Rewards)
	s.inv.AddCopper(c.Copper)
	if c.TravelTo != "" {
		s.player.Location = c.TravelTo
	}
	s.clock.Resume()
	return nil
}

// Cancel abandons the pending preview with no side effects. A frozen
// commit is also discarded silently — equivalent to never signaling
// completion — taking no clock or inventory action either way.
func (s *Scheduler) Cancel() {
	s.pending = nil
	s.frozen = nil
	s.clock.Resume()
}

// Pending reports whether a request awaits a confirmed duration.
func (s *Scheduler) Pending() (Request, bool) {
	if s.pending == nil {
		return Request{}, false
	}
	return *s.pending, true
}

// Frozen returns the commit awaiting its completion signal, if any.
func (s *Scheduler) Frozen() *Commit {
	return s.frozen
}

// RestoreFrozen reinstates an in-progress commit (save restore).
func (s *Scheduler) RestoreFrozen(c *Commit) {
	s.frozen = c
	if c != nil {
		s.clock.Pause()
	}
}

func applyVital(v *types.Vitals, d types.VitalDelta) {
	switch d.Vital {
	case "energy":
		v.Energy = clamp(v.Energy+d.Amount, 0, v.MaxEnergy)
	case "health":
		v.Health = clamp(v.Health+d.Amount, 0, v.MaxHealth)
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// MaxHoursFor derives the longest duration available energy can fund
// at a fixed per-hour cost. Always at least 1 so a preview can show
// why the action is unaffordable.
func MaxHoursFor(energy, perHourCost int) int {
	if perHourCost <= 0 {
		return 24
	}
	h := energy / perHourCost
	if h < 1 {
		return 1
	}
	return h
}
