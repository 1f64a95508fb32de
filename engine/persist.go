package engine

import (
	"fmt"

	"github.com/nboyd/hearthvale/config"
	"github.com/nboyd/hearthvale/engine/combat"
	"github.com/nboyd/hearthvale/engine/dialogue"
	"github.com/nboyd/hearthvale/engine/rng"
	"github.com/nboyd/hearthvale/engine/save"
	"github.com/nboyd/hearthvale/engine/world"
)

// SaveData captures the full session: clock, RNG stream, player,
// inventory, and whichever interaction is open. Everything needed to
// resume mid-conversation, mid-action, or mid-fight.
func (s *Session) SaveData() *save.SaveData {
	sd := &save.SaveData{
		Version:     s.Defs.Game.Version,
		Game:        s.Defs.Game.Title,
		Time:        s.clock.Time(),
		ClockPaused: s.clock.Paused(),
		RNGSeed:     s.rng.Seed(),
		RNGPosition: s.rng.Position(),
		Player:      *s.player,
		Inventory:   s.inv.Snapshot(),
		TradeNPC:    s.tradeNPC,
		TimedCommit: s.sched.Frozen(),
	}
	if s.convo != nil && !s.convo.Closed() {
		sd.Dialogue = &save.DialogueState{
			NPCID:  s.convoNPC,
			TreeID: s.convo.TreeID(),
			NodeID: s.convo.NodeID(),
		}
	}
	if s.encounter != nil {
		snap := s.encounter.Snapshot()
		sd.Combat = &snap
	}
	return sd
}

// RestoreSession rebuilds a session from save data against the same
// authored defs.
func RestoreSession(defs *world.Defs, cfg config.Config, sd *save.SaveData) (*Session, error) {
	s := New(defs, cfg, sd.RNGSeed)
	s.rng = rng.Restore(sd.RNGSeed, sd.RNGPosition)

	s.clock.SetTime(sd.Time)
	if sd.ClockPaused {
		s.clock.Pause()
	}

	player := sd.Player
	*s.player = player

	s.inv.Restore(sd.Inventory)

	if sd.Dialogue != nil {
		npc, err := defs.NPC(sd.Dialogue.NPCID)
		if err != nil {
			return nil, fmt.Errorf("restoring dialogue: %w", err)
		}
		tree, err := defs.Tree(sd.Dialogue.TreeID)
		if err != nil {
			return nil, fmt.Errorf("restoring dialogue: %w", err)
		}
		convo, err := dialogue.Start(npc.Name, tree, s.player.Skills)
		if err != nil {
			return nil, fmt.Errorf("restoring dialogue: %w", err)
		}
		if err := convo.RestoreNode(sd.Dialogue.NodeID); err != nil {
			return nil, fmt.Errorf("restoring dialogue: %w", err)
		}
		s.convo = convo
		s.convoNPC = sd.Dialogue.NPCID
	}

	s.tradeNPC = sd.TradeNPC

	if sd.TimedCommit != nil {
		s.sched.RestoreFrozen(sd.TimedCommit)
	}

	if sd.Combat != nil {
		def, err := defs.Encounter(sd.Combat.DefID)
		if err != nil {
			return nil, fmt.Errorf("restoring combat: %w", err)
		}
		s.encounter = combat.Restore(*sd.Combat, def, s.rng, combat.NoOpAI{}, s.combatTuning())
	}

	return s, nil
}
