// Package engine provides the Session facade that wires the world
// clock, location graph, inventory, dialogue, timed actions, and
// combat into the single command/query surface the presentation layer
// talks to. State is owned here and passed down explicitly; no
// component reaches into another's internals.
package engine

import (
	"errors"
	"fmt"

	"github.com/nboyd/hearthvale/config"
	"github.com/nboyd/hearthvale/engine/clock"
	"github.com/nboyd/hearthvale/engine/combat"
	"github.com/nboyd/hearthvale/engine/dialogue"
	"github.com/nboyd/hearthvale/engine/inventory"
	"github.com/nboyd/hearthvale/engine/rng"
	"github.com/nboyd/hearthvale/engine/sched"
	"github.com/nboyd/hearthvale/engine/world"
	"github.com/nboyd/hearthvale/types"
)

// ErrInvalidCommand means a command was issued while the session was
// in a state that cannot accept it.
var ErrInvalidCommand = errors.New("invalid command for current state")

// Session is one play session: the singletons (clock, inventory,
// player) plus whichever interaction is currently open. All mutation
// happens in response to a command or the ambient Tick; there is no
// parallel execution.
type Session struct {
	Defs *world.Defs
	Cfg  config.Config

	clock  *clock.Clock
	inv    *inventory.Inventory
	player *types.Player
	sched  *sched.Scheduler
	rng    *rng.RNG

	convo     *dialogue.Conversation
	convoNPC  string
	tradeNPC  string
	encounter *combat.Encounter
}

// New creates a fresh session at the authored start location.
func New(defs *world.Defs, cfg config.Config, seed int64) *Session {
	player := &types.Player{
		Location: defs.Game.Start,
		Vitals: types.Vitals{
			Energy:    cfg.MaxEnergy,
			MaxEnergy: cfg.MaxEnergy,
			Health:    cfg.MaxHealth,
			MaxHealth: cfg.MaxHealth,
		},
		Skills: map[string]int{},
		Flags:  map[string]bool{},
	}
	c := clock.New()
	for day, w := range defs.WeatherOverrides {
		c.SetWeatherOverride(day, w)
	}
	inv := inventory.New(cfg.MaxWeight, defs.Items)
	inv.AddCopper(cfg.StartCopper)

	return &Session{
		Defs:   defs,
		Cfg:    cfg,
		clock:  c,
		inv:    inv,
		player: player,
		sched:  sched.New(c, inv, player, defs.Items),
		rng:    rng.New(seed),
	}
}

// --- queries ---

// Time returns the current world timestamp.
func (s *Session) Time() types.WorldTime { return s.clock.Time() }

// Season returns the current season.
func (s *Session) Season() types.Season { return s.clock.Season() }

// Weather returns the current weather.
func (s *Session) Weather() types.Weather { return s.clock.Weather() }

// Player returns the player's runtime state.
func (s *Session) Player() types.Player { return *s.player }

// InventorySnapshot returns the current inventory view.
func (s *Session) InventorySnapshot() inventory.Snapshot { return s.inv.Snapshot() }

// Purse returns the balance broken into denominations.
func (s *Session) Purse() types.Purse { return s.inv.Purse() }

// NightBoundsAt returns the night convention for a location. The two
// boundary conventions are authored, not a global constant.
func (s *Session) NightBoundsAt(locationID string) clock.NightBounds {
	if s.Cfg.IsWilds(locationID) {
		return clock.NightBounds{From: s.Cfg.NightWilds.From, Until: s.Cfg.NightWilds.Until}
	}
	return clock.NightBounds{From: s.Cfg.NightVillage.From, Until: s.Cfg.NightVillage.Until}
}

// LocationView is the current place resolved for presentation.
type LocationView struct {
	world.View
	Actions []types.ActionDef
}

// CurrentLocation resolves the player's location against the current
// hour: description, background, and the available action list.
func (s *Session) CurrentLocation() (LocationView, error) {
	loc, err := s.Defs.Location(s.player.Location)
	if err != nil {
		return LocationView{}, err
	}
	bounds := s.NightBoundsAt(loc.ID)
	view := world.ResolveView(loc, s.clock.Time().Hour, bounds)
	actions := s.Defs.ResolveActions(loc, s.condContext())
	return LocationView{View: view, Actions: actions}, nil
}

func (s *Session) condContext() world.CondContext {
	return world.CondContext{
		Player:  s.player,
		HasItem: s.inv.Has,
		Season:  s.clock.Season(),
	}
}

// DialoguePrompt returns the active conversation's current node, or
// false if no conversation is open.
func (s *Session) DialoguePrompt() (dialogue.Prompt, bool) {
	if s.convo == nil || s.convo.Closed() {
		return dialogue.Prompt{}, false
	}
	p, err := s.convo.Prompt()
	if err != nil {
		return dialogue.Prompt{}, false
	}
	return p, true
}

// CombatSnapshot returns the active encounter's state, or false if no
// encounter is running.
func (s *Session) CombatSnapshot() (combat.Snapshot, bool) {
	if s.encounter == nil {
		return combat.Snapshot{}, false
	}
	return s.encounter.Snapshot(), true
}

// PendingTimedAction returns the request awaiting a duration, if any.
func (s *Session) PendingTimedAction() (sched.Request, bool) { return s.sched.Pending() }

// FrozenCommit returns the commit awaiting its completion signal.
func (s *Session) FrozenCommit() *sched.Commit { return s.sched.Frozen() }

// Suspended reports whether a blocking interaction is open: dialogue
// awaiting a choice, an open trade screen, combat awaiting an action,
// or a timed action in either phase. The ambient tick is gated on this.
func (s *Session) Suspended() bool {
	if s.convo != nil && !s.convo.Closed() {
		return true
	}
	if s.tradeNPC != "" {
		return true
	}
	if s.encounter != nil {
		return true
	}
	if _, pending := s.sched.Pending(); pending {
		return true
	}
	return s.sched.Frozen() != nil
}

// --- commands ---

// Tick advances ambient time by one in-game minute. Skipped, not
// queued, while any blocking interaction is open or the clock is
// paused.
func (s *Session) Tick() bool {
	if s.Suspended() {
		return false
	}
	return s.clock.Tick()
}

// AdvanceClock adds minutes explicitly (not gated by suspension).
func (s *Session) AdvanceClock(minutes int) { s.clock.Advance(minutes) }

// SetClockPaused toggles ambient time flow.
func (s *Session) SetClockPaused(paused bool) {
	if paused {
		s.clock.Pause()
	} else {
		s.clock.Resume()
	}
}

// TravelTo moves toward a destination reachable from the current
// location. A zero-cost edge moves immediately; a costed edge routes
// through the timed-action protocol and moves on completion.
func (s *Session) TravelTo(destID string) error {
	if s.Suspended() {
		return ErrInvalidCommand
	}
	loc, err := s.Defs.Location(s.player.Location)
	if err != nil {
		return err
	}
	for _, a := range s.Defs.ResolveActions(loc, s.condContext()) {
		if a.Kind != types.ActionNavigate || a.Target != destID {
			continue
		}
		if a.TimeCostMinutes == 0 {
			s.player.Location = destID
			return nil
		}
		return s.beginTravel(a)
	}
	return fmt.Errorf("no route from %q to %q: %w", s.player.Location, destID, world.ErrNotFound)
}

// StartDialogue opens a conversation with an NPC at its tree's root.
func (s *Session) StartDialogue(npcID string) error {
	if s.Suspended() {
		return ErrInvalidCommand
	}
	npc, err := s.Defs.NPC(npcID)
	if err != nil {
		return err
	}
	tree, err := s.Defs.Tree(npc.DialogueTree)
	if err != nil {
		return err
	}
	convo, err := dialogue.Start(npc.Name, tree, s.player.Skills)
	if err != nil {
		return err
	}
	s.convo = convo
	s.convoNPC = npcID
	return nil
}

// SelectDialogueChoice picks a reply in the open conversation. A
// closing choice ends it and lifts the suspension.
func (s *Session) SelectDialogueChoice(index int) error {
	if s.convo == nil {
		return ErrInvalidCommand
	}
	if err := s.convo.Choose(index); err != nil {
		return err
	}
	if s.convo.Closed() {
		s.convo = nil
		s.convoNPC = ""
	}
	return nil
}

// EndDialogue discards the open conversation. Traversal state is not
// kept; the next conversation restarts at the root.
func (s *Session) EndDialogue() {
	s.convo = nil
	s.convoNPC = ""
}

// OpenTrade opens an NPC's price list. The trade screen is a blocking
// interaction, so ambient time holds until CloseTrade.
func (s *Session) OpenTrade(npcID string) error {
	if s.Suspended() {
		return ErrInvalidCommand
	}
	npc, err := s.Defs.NPC(npcID)
	if err != nil {
		return err
	}
	if len(npc.Trades) == 0 {
		return fmt.Errorf("%s does not trade: %w", npcID, world.ErrNotFound)
	}
	s.tradeNPC = npcID
	return nil
}

// TradePartner returns the NPC whose price list is open, or false if
// no trade screen is open.
func (s *Session) TradePartner() (string, bool) {
	return s.tradeNPC, s.tradeNPC != ""
}

// CloseTrade ends the trade screen and lets ambient time flow again.
func (s *Session) CloseTrade() { s.tradeNPC = "" }
