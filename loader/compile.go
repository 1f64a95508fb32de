// Package loader loads Lua game content into Go structs at load time.
// The Lua VM is discarded after loading; zero Lua at runtime.
package loader

import (
	"fmt"

	"github.com/nboyd/hearthvale/engine/world"
	"github.com/nboyd/hearthvale/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds an authored table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// rawWeather holds a weather override before compilation.
type rawWeather struct {
	day  int
	kind string
}

func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// eachArray calls fn for every array-positioned table element in order.
func eachArray(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*world.Defs, error) {
	defs := &world.Defs{
		Locations:        map[string]types.LocationDef{},
		Items:            map[string]types.ItemDef{},
		NPCs:             map[string]types.NPCDef{},
		Trees:            map[string]types.DialogueTree{},
		Recipes:          map[string]types.RecipeDef{},
		Encounters:       map[string]types.EncounterDef{},
		WeatherOverrides: map[int]types.Weather{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.locations {
		if _, dup := defs.Locations[raw.id]; dup {
			return nil, fmt.Errorf("duplicate location %q", raw.id)
		}
		defs.Locations[raw.id] = compileLocation(raw)
	}
	for _, raw := range coll.items {
		if _, dup := defs.Items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item %q", raw.id)
		}
		defs.Items[raw.id] = compileItem(raw)
	}
	for _, raw := range coll.npcs {
		if _, dup := defs.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate npc %q", raw.id)
		}
		defs.NPCs[raw.id] = compileNPC(raw)
	}
	for _, raw := range coll.trees {
		if _, dup := defs.Trees[raw.id]; dup {
			return nil, fmt.Errorf("duplicate dialogue tree %q", raw.id)
		}
		defs.Trees[raw.id] = compileTree(raw)
	}
	for _, raw := range coll.recipes {
		if _, dup := defs.Recipes[raw.id]; dup {
			return nil, fmt.Errorf("duplicate recipe %q", raw.id)
		}
		defs.Recipes[raw.id] = compileRecipe(raw)
	}
	for _, raw := range coll.encounters {
		if _, dup := defs.Encounters[raw.id]; dup {
			return nil, fmt.Errorf("duplicate encounter %q", raw.id)
		}
		defs.Encounters[raw.id] = compileEncounter(raw)
	}
	for _, w := range coll.weather {
		defs.WeatherOverrides[w.day] = types.Weather(w.kind)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Hub:     getString(tbl, "hub"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileLocation(raw rawDef) types.LocationDef {
	tbl := raw.table
	loc := types.LocationDef{
		ID:               raw.id,
		Name:             getString(tbl, "name"),
		DayDescription:   getString(tbl, "day_description"),
		NightDescription: getString(tbl, "night_description"),
		DayBackground:    getString(tbl, "day_background"),
		NightBackground:  getString(tbl, "night_background"),
	}
	// A location with only one description uses it around the clock.
	if loc.NightDescription == "" {
		loc.NightDescription = loc.DayDescription
	}
	eachArray(getTable(tbl, "actions"), func(a *lua.LTable) {
		loc.Actions = append(loc.Actions, compileAction(a))
	})
	return loc
}

func compileAction(tbl *lua.LTable) types.ActionDef {
	a := types.ActionDef{
		Text:            getString(tbl, "text"),
		Kind:            types.ActionKind(getString(tbl, "kind")),
		Target:          getString(tbl, "target"),
		TimeCostMinutes: getInt(tbl, "time_cost_minutes"),
	}
	eachArray(getTable(tbl, "conditions"), func(c *lua.LTable) {
		a.Conditions = append(a.Conditions, compileCondition(c))
	})
	return a
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			params[string(ks)] = toGoValue(v)
		}
	})
	return types.Condition{Type: condType, Params: params}
}

func compileItem(raw rawDef) types.ItemDef {
	tbl := raw.table
	item := types.ItemDef{
		ID:        raw.id,
		Name:      getString(tbl, "name"),
		Weight:    getNumber(tbl, "weight"),
		Value:     getInt(tbl, "value"),
		Stackable: getBool(tbl, "stackable", true),
		EquipSlot: getString(tbl, "equip_slot"),
		Icon:      getString(tbl, "icon"),
	}
	if cons := getTable(tbl, "consumable"); cons != nil {
		item.Consumable = map[string]int{}
		cons.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				if n, ok := v.(lua.LNumber); ok {
					item.Consumable[string(ks)] = int(n)
				}
			}
		})
	}
	return item
}

func compileNPC(raw rawDef) types.NPCDef {
	tbl := raw.table
	npc := types.NPCDef{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		DialogueTree: getString(tbl, "dialogue_tree"),
	}
	eachArray(getTable(tbl, "trades"), func(t *lua.LTable) {
		npc.Trades = append(npc.Trades, types.TradeEntry{
			ItemID:    getString(t, "item"),
			BuyPrice:  getInt(t, "buy"),
			SellPrice: getInt(t, "sell"),
		})
	})
	return npc
}

func compileTree(raw rawDef) types.DialogueTree {
	tree := types.DialogueTree{ID: raw.id, Nodes: map[string]types.DialogueNode{}}
	raw.table.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		nodeTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		node := types.DialogueNode{NPCText: getString(nodeTbl, "text")}
		eachArray(getTable(nodeTbl, "choices"), func(c *lua.LTable) {
			choice := types.DialogueChoice{
				Text:           getString(c, "text"),
				NextNodeID:     getString(c, "next_node"),
				ClosesDialogue: getBool(c, "closes", false),
			}
			if req := getTable(c, "requires"); req != nil {
				choice.SkillCheck = &types.SkillCheck{
					Skill:         getString(req, "skill"),
					RequiredLevel: getInt(req, "level"),
				}
			}
			node.Choices = append(node.Choices, choice)
		})
		tree.Nodes[string(ks)] = node
	})
	return tree
}

func compileRecipe(raw rawDef) types.RecipeDef {
	tbl := raw.table
	r := types.RecipeDef{
		ID:              raw.id,
		ResultItemID:    getString(tbl, "result"),
		ResultQuantity:  getInt(tbl, "quantity"),
		Skill:           getString(tbl, "skill"),
		LevelRequired:   getInt(tbl, "level"),
		TimeCostMinutes: getInt(tbl, "time_cost_minutes"),
		EnergyCost:      getInt(tbl, "energy_cost"),
	}
	if r.ResultQuantity == 0 {
		r.ResultQuantity = 1
	}
	eachArray(getTable(tbl, "ingredients"), func(i *lua.LTable) {
		r.Ingredients = append(r.Ingredients, types.Ingredient{
			ItemID:   getString(i, "item"),
			Quantity: getInt(i, "quantity"),
		})
	})
	return r
}

func compileEncounter(raw rawDef) types.EncounterDef {
	tbl := raw.table
	e := types.EncounterDef{
		ID:   raw.id,
		Name: getString(tbl, "name"),
	}
	eachArray(getTable(tbl, "enemies"), func(en *lua.LTable) {
		e.Enemies = append(e.Enemies, types.CombatantDef{
			ID:    getString(en, "id"),
			Name:  getString(en, "name"),
			MaxHP: getInt(en, "max_hp"),
		})
	})
	if rew := getTable(tbl, "rewards"); rew != nil {
		e.Rewards.CopperMin = getInt(rew, "copper_min")
		e.Rewards.CopperMax = getInt(rew, "copper_max")
		eachArray(getTable(rew, "items"), func(l *lua.LTable) {
			e.Rewards.Items = append(e.Rewards.Items, types.LootEntry{
				ItemID: getString(l, "item"),
				Chance: getInt(l, "chance"),
			})
		})
	}
	return e
}
