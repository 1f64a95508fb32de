package tui

import (
	"fmt"
	"strings"

	"github.com/nboyd/hearthvale/engine"
	"github.com/nboyd/hearthvale/engine/combat"
)

// locationLines renders the current location screen: heading,
// description, and the numbered action menu.
func locationLines(s *engine.Session) []string {
	view, err := s.CurrentLocation()
	if err != nil {
		return []string{fmt.Sprintf("Error: %v", err)}
	}
	t := s.Time()
	lines := []string{
		fmt.Sprintf("== %s — day %d, %02d:%02d, %s, %s ==",
			view.Name, t.Day, t.Hour, t.Minute, s.Season(), s.Weather()),
		view.Description,
	}
	for i, a := range view.Actions {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, a.Text))
	}
	return lines
}

// dialogueLines renders the open conversation node and its choices.
func dialogueLines(s *engine.Session) []string {
	p, ok := s.DialoguePrompt()
	if !ok {
		return nil
	}
	lines := []string{fmt.Sprintf("%s: %s", p.NPCName, p.NPCText)}
	for i, ch := range p.Choices {
		line := fmt.Sprintf("  %d. %s", i+1, ch.Text)
		if !ch.Enabled && ch.Requires != nil {
			line += fmt.Sprintf(" (requires %s %d)", ch.Requires.Skill, ch.Requires.RequiredLevel)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "  (number to reply, 'leave' to walk away)")
	return lines
}

// combatLines renders combat log entries past seen, plus the current
// HP summary and the prompt for the phase.
func combatLines(snap combat.Snapshot, seen int) []string {
	var lines []string
	if seen < len(snap.Log) {
		lines = append(lines, snap.Log[seen:]...)
	}
	for _, e := range snap.Enemies {
		lines = append(lines, fmt.Sprintf("  %s: %d/%d HP", e.Name, e.HP, e.MaxHP))
	}
	for _, p := range snap.Party {
		lines = append(lines, fmt.Sprintf("  %s: %d/%d HP", p.Name, p.HP, p.MaxHP))
	}
	switch snap.Phase {
	case combat.PhasePlayerTurn:
		lines = append(lines, "  (attack <enemy>, defend, flee)")
	case combat.PhaseEnemyTurn:
		// The enemy acts after a short pause; no prompt.
	default:
		lines = append(lines, "  (press enter to continue)")
	}
	return lines
}

// timedLines renders the duration prompt for a pending timed action.
func timedLines(s *engine.Session) []string {
	req, ok := s.PendingTimedAction()
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf("%s — how long? (1..%d, or 'cancel')", req.Name, req.MaxHours)}
}

// tradeLines renders an NPC's price list.
func tradeLines(s *engine.Session, npcID string) []string {
	npc, err := s.Defs.NPC(npcID)
	if err != nil {
		return []string{fmt.Sprintf("Error: %v", err)}
	}
	inv := s.InventorySnapshot()
	lines := []string{fmt.Sprintf("%s's prices (you carry %d copper):", npc.Name, inv.Copper)}
	for _, e := range npc.Trades {
		var parts []string
		if e.BuyPrice > 0 {
			parts = append(parts, fmt.Sprintf("buy %dc", e.BuyPrice))
		}
		if e.SellPrice > 0 {
			parts = append(parts, fmt.Sprintf("sell %dc", e.SellPrice))
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", e.ItemID, strings.Join(parts, ", ")))
	}
	lines = append(lines, "  (buy <item> [qty], sell <item> [qty], done)")
	return lines
}
