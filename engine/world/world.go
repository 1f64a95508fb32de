// Package world holds the immutable authored definitions and answers
// location-graph queries against them, layering in the current time of
// day for description and background selection.
package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nboyd/hearthvale/engine/clock"
	"github.com/nboyd/hearthvale/types"
)

// ErrNotFound means a lookup referenced an ID absent from the defs.
var ErrNotFound = errors.New("not found")

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game             types.GameDef
	Locations        map[string]types.LocationDef
	Items            map[string]types.ItemDef
	NPCs             map[string]types.NPCDef
	Trees            map[string]types.DialogueTree
	Recipes          map[string]types.RecipeDef
	Encounters       map[string]types.EncounterDef
	WeatherOverrides map[int]types.Weather
}

// Location returns the authored definition for an ID.
func (d *Defs) Location(id string) (types.LocationDef, error) {
	loc, ok := d.Locations[id]
	if !ok {
		return types.LocationDef{}, fmt.Errorf("location %q: %w", id, ErrNotFound)
	}
	return loc, nil
}

// NPC returns the authored definition for an ID.
func (d *Defs) NPC(id string) (types.NPCDef, error) {
	npc, ok := d.NPCs[id]
	if !ok {
		return types.NPCDef{}, fmt.Errorf("npc %q: %w", id, ErrNotFound)
	}
	return npc, nil
}

// Tree returns the dialogue tree for an ID.
func (d *Defs) Tree(id string) (types.DialogueTree, error) {
	tree, ok := d.Trees[id]
	if !ok {
		return types.DialogueTree{}, fmt.Errorf("dialogue tree %q: %w", id, ErrNotFound)
	}
	return tree, nil
}

// Recipe returns the recipe for an ID.
func (d *Defs) Recipe(id string) (types.RecipeDef, error) {
	r, ok := d.Recipes[id]
	if !ok {
		return types.RecipeDef{}, fmt.Errorf("recipe %q: %w", id, ErrNotFound)
	}
	return r, nil
}

// Encounter returns the encounter for an ID.
func (d *Defs) Encounter(id string) (types.EncounterDef, error) {
	e, ok := d.Encounters[id]
	if !ok {
		return types.EncounterDef{}, fmt.Errorf("encounter %q: %w", id, ErrNotFound)
	}
	return e, nil
}

// View is a location resolved against the current time of day.
type View struct {
	ID          string
	Name        string
	Description string
	Background  string // asset ID
	Night       bool
}

// ResolveView picks the day or night description and background for a
// location using the caller's night convention.
func ResolveView(loc types.LocationDef, hour int, bounds clock.NightBounds) View {
	v := View{ID: loc.ID, Name: loc.Name}
	if bounds.IsNight(hour) {
		v.Night = true
		v.Description = loc.NightDescription
		v.Background = loc.NightBackground
	} else {
		v.Description = loc.DayDescription
		v.Background = loc.DayBackground
	}
	return v
}

// ResolveActions returns the actions currently available at a
// location: condition-gated entries are filtered out, and any Navigate
// action bound for the hub location is moved to the end. The hub rule
// is a stable listing convention for the presentation layer, not a
// gameplay rule.
func (d *Defs) ResolveActions(loc types.LocationDef, ctx CondContext) []types.ActionDef {
	var out []types.ActionDef
	for _, a := range loc.Actions {
		if EvalAll(a.Conditions, ctx) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return !d.isHubNavigate(out[i]) && d.isHubNavigate(out[j])
	})
	return out
}

func (d *Defs) isHubNavigate(a types.ActionDef) bool {
	return a.Kind == types.ActionNavigate && a.Target == d.Game.Hub
}
