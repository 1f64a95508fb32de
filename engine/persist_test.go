package engine

import (
	"testing"

	"github.com/nboyd/hearthvale/engine/save"
	"github.com/nboyd/hearthvale/types"
)

func roundTrip(t *testing.T, s *Session) *Session {
	t.Helper()
	data, err := save.Marshal(s.SaveData())
	if err != nil {
		t.Fatal(err)
	}
	sd, err := save.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := RestoreSession(s.Defs, s.Cfg, sd)
	if err != nil {
		t.Fatal(err)
	}
	return restored
}

func TestRestore_BasicState(t *testing.T) {
	s := newSession()
	s.TravelTo("river")
	s.AdvanceClock(200)
	s.inv.AddItem("trout", 3)
	s.player.Skills["fishing"] = 2
	s.player.Flags["met_maren"] = true

	r := roundTrip(t, s)

	if r.Time() != s.Time() {
		t.Errorf("time %+v vs %+v", r.Time(), s.Time())
	}
	if r.Player().Location != "river" {
		t.Errorf("location %q", r.Player().Location)
	}
	if r.inv.Quantity("trout") != 3 || r.inv.Balance() != s.inv.Balance() {
		t.Error("inventory mismatch")
	}
	if r.player.Skills["fishing"] != 2 || !r.player.Flags["met_maren"] {
		t.Error("skills/flags mismatch")
	}
}

func TestRestore_RNGContinuesStream(t *testing.T) {
	s := newSession()
	for i := 0; i < 7; i++ {
		s.rng.Roll(20)
	}

	r := roundTrip(t, s)

	for i := 0; i < 50; i++ {
		want := s.rng.Roll(20)
		if got := r.rng.Roll(20); got != want {
			t.Fatalf("roll %d: got %d, want %d", i, got, want)
		}
	}
}

func TestRestore_MidDialogue(t *testing.T) {
	s := newSession()
	s.StartDialogue("maren")
	s.SelectDialogueChoice(0) // move to node 1

	r := roundTrip(t, s)

	p, ok := r.DialoguePrompt()
	if !ok {
		t.Fatal("dialogue not restored")
	}
	if p.NodeID != "1" || p.NPCText != "Wolves on the forest road." {
		t.Errorf("restored at %q: %q", p.NodeID, p.NPCText)
	}
	if !r.Suspended() {
		t.Error("restored session not suspended by open dialogue")
	}
}

func TestRestore_MidTrade(t *testing.T) {
	s := newSession()
	if err := s.OpenTrade("maren"); err != nil {
		t.Fatal(err)
	}

	r := roundTrip(t, s)

	if npcID, ok := r.TradePartner(); !ok || npcID != "maren" {
		t.Fatalf("trade partner = %q, %v", npcID, ok)
	}
	if !r.Suspended() {
		t.Error("restored session not suspended by open trade")
	}
}

func TestRestore_FrozenTimedAction(t *testing.T) {
	s := newSession()
	s.RequestTimedAction(types.ActionLabor, "")
	if _, err := s.ConfirmTimedActionDuration(2); err != nil {
		t.Fatal(err)
	}

	r := roundTrip(t, s)

	if r.FrozenCommit() == nil {
		t.Fatal("frozen commit not restored")
	}
	before := r.inv.Balance()
	if err := r.CompleteTimedAction(); err != nil {
		t.Fatal(err)
	}
	if r.inv.Balance() != before+2*r.Cfg.Labor.CopperPerHour {
		t.Error("restored commit paid wrong wage")
	}
}

func TestRestore_MidCombat(t *testing.T) {
	s := newSession()
	s.StartCombat("forest_wolf")
	s.CombatSelectTarget("wolf")
	s.CombatAttack()

	r := roundTrip(t, s)

	snap, ok := r.CombatSnapshot()
	if !ok {
		t.Fatal("combat not restored")
	}
	orig, _ := s.CombatSnapshot()
	if snap.Phase != orig.Phase {
		t.Errorf("phase %q vs %q", snap.Phase, orig.Phase)
	}
	if snap.Enemies[0].HP != orig.Enemies[0].HP {
		t.Errorf("enemy HP %d vs %d", snap.Enemies[0].HP, orig.Enemies[0].HP)
	}
}
