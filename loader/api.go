package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerFieldHelpers(L)
}

// curried registers a constructor of the form Name "id" { ... }:
// the first call takes the ID and returns a function that takes the
// definition table.
func curried(L *lua.LState, sink func(rawDef)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			sink(rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", hub = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Location "id" { ... }
	L.SetGlobal("Location", curried(L, func(r rawDef) {
		coll.locations = append(coll.locations, r)
	}))

	// Item "id" { ... }
	L.SetGlobal("Item", curried(L, func(r rawDef) {
		coll.items = append(coll.items, r)
	}))

	// NPC "id" { ... }
	L.SetGlobal("NPC", curried(L, func(r rawDef) {
		coll.npcs = append(coll.npcs, r)
	}))

	// Dialogue "tree_id" { ["0"] = { text = "...", choices = {...} }, ... }
	L.SetGlobal("Dialogue", curried(L, func(r rawDef) {
		coll.trees = append(coll.trees, r)
	}))

	// Recipe "id" { result = "...", ... }
	L.SetGlobal("Recipe", curried(L, func(r rawDef) {
		coll.recipes = append(coll.recipes, r)
	}))

	// Encounter "id" { name = "...", enemies = {...}, rewards = {...} }
	L.SetGlobal("Encounter", curried(L, func(r rawDef) {
		coll.encounters = append(coll.encounters, r)
	}))

	// WeatherOverride(day, "rainy") — pins the derived weather for a day.
	L.SetGlobal("WeatherOverride", L.NewFunction(func(L *lua.LState) int {
		day := L.CheckInt(1)
		kind := L.CheckString(2)
		coll.weather = append(coll.weather, rawWeather{day: day, kind: kind})
		return 0
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_set"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_not"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// HasItem("id", qty)
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		qty := L.OptInt(2, 1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("has_item"))
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("quantity", lua.LNumber(qty))
		L.Push(tbl)
		return 1
	}))

	// SkillAtLeast("fishing", 2)
	L.SetGlobal("SkillAtLeast", L.NewFunction(func(L *lua.LState) int {
		skill := L.CheckString(1)
		level := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("skill_at_least"))
		tbl.RawSetString("skill", lua.LString(skill))
		tbl.RawSetString("level", lua.LNumber(level))
		L.Push(tbl)
		return 1
	}))

	// SeasonIs("winter")
	L.SetGlobal("SeasonIs", L.NewFunction(func(L *lua.LState) int {
		season := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("season_is"))
		tbl.RawSetString("season", lua.LString(season))
		L.Push(tbl)
		return 1
	}))
}

func registerFieldHelpers(L *lua.LState) {
	// SkillCheck("charm", 2) — gates a dialogue choice.
	L.SetGlobal("SkillCheck", L.NewFunction(func(L *lua.LState) int {
		skill := L.CheckString(1)
		level := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("skill", lua.LString(skill))
		tbl.RawSetString("level", lua.LNumber(level))
		L.Push(tbl)
		return 1
	}))

	// Ingredient("ore", 2)
	L.SetGlobal("Ingredient", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		qty := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("quantity", lua.LNumber(qty))
		L.Push(tbl)
		return 1
	}))

	// Loot("pelt", 60) — item ID and percent drop chance.
	L.SetGlobal("Loot", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		chance := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("chance", lua.LNumber(chance))
		L.Push(tbl)
		return 1
	}))

	// Trade { item = "...", buy = 20, sell = 10 } — pass-through.
	L.SetGlobal("Trade", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
}
