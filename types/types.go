// Package types defines the shared data structures for the Hearthvale engine.
// This package contains only type definitions — no logic, no methods.
package types

// GameDef holds game metadata from the authored content.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting location ID
	Hub     string // hub location ID; navigate actions to it sort last
	Intro   string
}

// Season is one quarter of the 120-day year.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Weather is the derived sky state for a given moment.
type Weather string

const (
	Sunny  Weather = "sunny"
	Cloudy Weather = "cloudy"
	Rainy  Weather = "rainy"
	Snowy  Weather = "snowy"
	Clear  Weather = "clear"
)

// WorldTime is the authoritative game timestamp.
type WorldTime struct {
	Day    int `json:"day"`    // 1-based
	Hour   int `json:"hour"`   // 0..23
	Minute int `json:"minute"` // 0..59
}

// ActionKind classifies what a location action does when chosen.
type ActionKind string

const (
	ActionDialogue ActionKind = "dialogue"
	ActionTrade    ActionKind = "trade"
	ActionLabor    ActionKind = "labor"
	ActionFish     ActionKind = "fish"
	ActionNavigate ActionKind = "navigate"
	ActionCraft    ActionKind = "craft"
	ActionRest     ActionKind = "rest"
	ActionCombat   ActionKind = "combat"
)

// Condition is a predicate gating an action's availability.
type Condition struct {
	Type   string         // "flag_set", "flag_not", "skill_at_least", "has_item", "season_is"
	Params map[string]any // condition-specific parameters
}

// ActionDef is one entry in a location's action list.
type ActionDef struct {
	Text            string
	Kind            ActionKind
	Target          string // location, NPC, or encounter ID depending on Kind
	TimeCostMinutes int    // 0 for instantaneous Navigate
	Conditions      []Condition
}

// LocationDef is an authored place in the world graph. Read-only at runtime.
type LocationDef struct {
	ID               string
	Name             string
	DayDescription   string
	NightDescription string
	DayBackground    string // asset ID, resolved by the presentation layer
	NightBackground  string
	Actions          []ActionDef
}

// ItemDef is an authored item definition.
type ItemDef struct {
	ID         string
	Name       string
	Weight     float64
	Value      int // base value in copper
	Stackable  bool
	EquipSlot  string         // "" for non-equippable
	Icon       string         // asset ID
	Consumable map[string]int // vital name → restore amount, nil if not consumable
}

// Stack is a held quantity of one item.
type Stack struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Purse holds currency denominations. Copper is the base unit:
// 1 silver = 100 copper, 1 gold = 10000 copper.
type Purse struct {
	Copper int `json:"copper"`
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

// SkillCheck gates a dialogue choice on a player skill level.
type SkillCheck struct {
	Skill         string
	RequiredLevel int
}

// DialogueChoice is one selectable reply at a dialogue node.
type DialogueChoice struct {
	Text           string
	NextNodeID     string // "" if the choice only closes
	ClosesDialogue bool
	SkillCheck     *SkillCheck
}

// DialogueNode is one authored prompt with its replies.
type DialogueNode struct {
	NPCText string
	Choices []DialogueChoice
}

// DialogueTree is a possibly cyclic directed graph of nodes keyed by
// string IDs, rooted at node "0".
type DialogueTree struct {
	ID    string
	Nodes map[string]DialogueNode
}

// TradeEntry is one line in an NPC's price list.
type TradeEntry struct {
	ItemID    string
	BuyPrice  int // copper the player pays per unit bought
	SellPrice int // copper the player receives per unit sold
}

// NPCDef is an authored character.
type NPCDef struct {
	ID           string
	Name         string
	DialogueTree string       // default tree ID
	Trades       []TradeEntry // nil for NPCs that don't trade
}

// Ingredient is one input line of a recipe.
type Ingredient struct {
	ItemID   string
	Quantity int
}

// RecipeDef is an authored crafting recipe.
type RecipeDef struct {
	ID              string
	ResultItemID    string
	ResultQuantity  int
	Skill           string
	LevelRequired   int
	Ingredients     []Ingredient
	TimeCostMinutes int
	EnergyCost      int
}

// CombatantDef is a base template for a combat participant. Encounters
// clone these; templates are never mutated by combat.
type CombatantDef struct {
	ID    string
	Name  string
	MaxHP int
}

// LootEntry is one possible item drop with a percent chance.
type LootEntry struct {
	ItemID string
	Chance int // 1..100
}

// RewardTable describes what a won encounter yields.
type RewardTable struct {
	Items     []LootEntry
	CopperMin int
	CopperMax int
}

// EncounterDef is an authored combat encounter.
type EncounterDef struct {
	ID      string
	Name    string
	Enemies []CombatantDef
	Rewards RewardTable
}

// Vitals are the player's bounded meters.
type Vitals struct {
	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
}

// VitalDelta is one signed adjustment to a named vital.
type VitalDelta struct {
	Vital  string `json:"vital"` // "energy" or "health"
	Amount int    `json:"amount"`
}

// Player holds the player's runtime state outside of inventory.
type Player struct {
	Location string          `json:"location"`
	Vitals   Vitals          `json:"vitals"`
	Skills   map[string]int  `json:"skills"`
	Flags    map[string]bool `json:"flags"`
}
