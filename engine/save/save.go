// Package save implements JSON serialization and deserialization of
// session state: the world clock, the player, the inventory, and any
// in-progress dialogue, timed action, or combat encounter.
package save

import (
	"encoding/json"

	"github.com/nboyd/hearthvale/engine/combat"
	"github.com/nboyd/hearthvale/engine/inventory"
	"github.com/nboyd/hearthvale/engine/sched"
	"github.com/nboyd/hearthvale/types"
)

// DialogueState records an open conversation so it can resume at the
// same node.
type DialogueState struct {
	NPCID  string `json:"npc_id"`
	TreeID string `json:"tree_id"`
	NodeID string `json:"node_id"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string             `json:"version"`
	Game        string             `json:"game"`
	Time        types.WorldTime    `json:"time"`
	ClockPaused bool               `json:"clock_paused"`
	RNGSeed     int64              `json:"rng_seed"`
	RNGPosition int64              `json:"rng_position"`
	Player      types.Player       `json:"player"`
	Inventory   inventory.Snapshot `json:"inventory"`
	Dialogue    *DialogueState     `json:"dialogue,omitempty"`
	TradeNPC    string             `json:"trade_npc,omitempty"`
	TimedCommit *sched.Commit      `json:"timed_commit,omitempty"`
	Combat      *combat.Snapshot   `json:"combat,omitempty"`
}

// Marshal serializes save data to indented JSON.
func Marshal(sd *SaveData) ([]byte, error) {
	return json.MarshalIndent(sd, "", "  ")
}

// Unmarshal deserializes JSON bytes into SaveData, guarding against
// nil maps and slices so restored state is always usable.
func Unmarshal(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Player.Skills == nil {
		sd.Player.Skills = map[string]int{}
	}
	if sd.Player.Flags == nil {
		sd.Player.Flags = map[string]bool{}
	}
	if sd.Inventory.Stacks == nil {
		sd.Inventory.Stacks = []types.Stack{}
	}
	return &sd, nil
}
