package save

import (
	"reflect"
	"testing"

	"github.com/nboyd/hearthvale/engine/combat"
	"github.com/nboyd/hearthvale/engine/inventory"
	"github.com/nboyd/hearthvale/engine/sched"
	"github.com/nboyd/hearthvale/types"
)

func sampleSave() *SaveData {
	return &SaveData{
		Version:     "1",
		Game:        "Hearthvale",
		Time:        types.WorldTime{Day: 14, Hour: 19, Minute: 45},
		ClockPaused: true,
		RNGSeed:     42,
		RNGPosition: 137,
		Player: types.Player{
			Location: "river",
			Vitals:   types.Vitals{Energy: 60, MaxEnergy: 100, Health: 85, MaxHealth: 100},
			Skills:   map[string]int{"smithing": 3},
			Flags:    map[string]bool{"met_maren": true},
		},
		Inventory: inventory.Snapshot{
			Stacks:    []types.Stack{{ItemID: "ore", Quantity: 4}},
			Weight:    8,
			MaxWeight: 50,
			Copper:    12345,
		},
	}
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	sd := sampleSave()
	data, err := Marshal(sd)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, sd) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, sd)
	}
}

func TestRoundTrip_OpenInteractions(t *testing.T) {
	sd := sampleSave()
	sd.Dialogue = &DialogueState{NPCID: "maren", TreeID: "maren_talk", NodeID: "1"}
	sd.TimedCommit = &sched.Commit{
		Name:            "Work the docks",
		DurationMinutes: 120,
		VitalsDeltas:    []types.VitalDelta{{Vital: "energy", Amount: -20}},
		Copper:          24,
	}
	sd.Combat = &combat.Snapshot{
		ID:    "enc-1",
		DefID: "forest_wolf",
		Name:  "Forest Wolf",
		Phase: combat.PhaseEnemyTurn,
		Log:   []string{"You strike the wolf for 9."},
	}

	data, err := Marshal(sd)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Dialogue == nil || got.Dialogue.NodeID != "1" {
		t.Errorf("dialogue state lost: %+v", got.Dialogue)
	}
	if got.TimedCommit == nil || got.TimedCommit.Copper != 24 {
		t.Errorf("timed commit lost: %+v", got.TimedCommit)
	}
	if got.Combat == nil || got.Combat.Phase != combat.PhaseEnemyTurn {
		t.Errorf("combat snapshot lost: %+v", got.Combat)
	}
}

func TestUnmarshal_OmittedOptionalSections(t *testing.T) {
	got, err := Unmarshal([]byte(`{"version":"1","game":"Hearthvale"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Dialogue != nil || got.TimedCommit != nil || got.Combat != nil {
		t.Error("optional sections should stay nil when absent")
	}
}

func TestUnmarshal_GuardsNilMaps(t *testing.T) {
	got, err := Unmarshal([]byte(`{"version":"1"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Player.Skills == nil {
		t.Error("Skills map not initialized")
	}
	if got.Player.Flags == nil {
		t.Error("Flags map not initialized")
	}
	if got.Inventory.Stacks == nil {
		t.Error("Stacks slice not initialized")
	}
	// Guarded maps must be writable.
	got.Player.Skills["fishing"] = 1
	got.Player.Flags["seen_intro"] = true
}

func TestUnmarshal_BadJSON(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
