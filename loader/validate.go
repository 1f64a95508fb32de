package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nboyd/hearthvale/engine/dialogue"
	"github.com/nboyd/hearthvale/engine/world"
	"github.com/nboyd/hearthvale/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validConditionTypes = map[string]bool{
	"flag_set":       true,
	"flag_not":       true,
	"has_item":       true,
	"skill_at_least": true,
	"season_is":      true,
}

var validActionKinds = map[types.ActionKind]bool{
	types.ActionDialogue: true,
	types.ActionTrade:    true,
	types.ActionLabor:    true,
	types.ActionFish:     true,
	types.ActionNavigate: true,
	types.ActionCraft:    true,
	types.ActionRest:     true,
	types.ActionCombat:   true,
}

var validSeasons = map[string]bool{
	string(types.Spring): true,
	string(types.Summer): true,
	string(types.Autumn): true,
	string(types.Winter): true,
}

var validWeather = map[types.Weather]bool{
	types.Sunny:  true,
	types.Cloudy: true,
	types.Rainy:  true,
	types.Snowy:  true,
	types.Clear:  true,
}

// validate checks the compiled defs for referential integrity. All
// dangling references are caught here so the engine can treat lookup
// failures at runtime as defects.
func validate(defs *world.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Game.Start == "" {
		ve.Errors = append(ve.Errors, "Game.start is required")
	} else if _, ok := defs.Locations[defs.Game.Start]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start location %q not found in defined locations", defs.Game.Start))
	}
	if defs.Game.Hub != "" {
		if _, ok := defs.Locations[defs.Game.Hub]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"hub location %q not found in defined locations", defs.Game.Hub))
		}
	}

	for locID, loc := range defs.Locations {
		validateActions(locID, loc.Actions, defs, ve)
	}

	for npcID, npc := range defs.NPCs {
		if npc.DialogueTree != "" {
			if _, ok := defs.Trees[npc.DialogueTree]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"npc %q dialogue tree %q is not defined", npcID, npc.DialogueTree))
			}
		}
		for _, trade := range npc.Trades {
			if _, ok := defs.Items[trade.ItemID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"npc %q trades undefined item %q", npcID, trade.ItemID))
			}
			if trade.BuyPrice <= 0 && trade.SellPrice <= 0 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"npc %q trade entry %q has no buy or sell price", npcID, trade.ItemID))
			}
		}
	}

	for treeID, tree := range defs.Trees {
		validateTree(treeID, tree, ve)
	}

	for recipeID, recipe := range defs.Recipes {
		validateRecipe(recipeID, recipe, defs, ve)
	}

	for encID, enc := range defs.Encounters {
		validateEncounter(encID, enc, defs, ve)
	}

	for day, w := range defs.WeatherOverrides {
		if day < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("weather override for day %d: days are 1-based", day))
		}
		if !validWeather[w] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("weather override for day %d: unknown weather %q", day, w))
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateActions(locID string, actions []types.ActionDef, defs *world.Defs, ve *ValidationError) {
	for _, a := range actions {
		if !validActionKinds[a.Kind] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"location %q action %q has unknown kind %q", locID, a.Text, a.Kind))
			continue
		}
		switch a.Kind {
		case types.ActionNavigate:
			if _, ok := defs.Locations[a.Target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q navigate action targets undefined location %q", locID, a.Target))
			}
		case types.ActionDialogue, types.ActionTrade:
			if _, ok := defs.NPCs[a.Target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q %s action targets undefined npc %q", locID, a.Kind, a.Target))
			}
		case types.ActionCraft:
			if a.Target != "" {
				if _, ok := defs.Recipes[a.Target]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"location %q craft action targets undefined recipe %q", locID, a.Target))
				}
			}
		case types.ActionCombat:
			if _, ok := defs.Encounters[a.Target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q combat action targets undefined encounter %q", locID, a.Target))
			}
		}
		validateConditions(fmt.Sprintf("location %q action %q", locID, a.Text), a.Conditions, defs, ve)
	}
}

func validateConditions(where string, conditions []types.Condition, defs *world.Defs, ve *ValidationError) {
	for _, cond := range conditions {
		if !validConditionTypes[cond.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s: unknown condition type %q", where, cond.Type))
			continue
		}
		switch cond.Type {
		case "has_item":
			if item, ok := cond.Params["item"].(string); ok {
				if _, ok := defs.Items[item]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"%s: has_item references undefined item %q", where, item))
				}
			}
		case "season_is":
			if season, ok := cond.Params["season"].(string); ok && !validSeasons[season] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s: season_is references unknown season %q", where, season))
			}
		}
	}
}

// validateTree checks the root exists and every choice's next node
// resolves. Cycles are legal; dangling references are not.
func validateTree(treeID string, tree types.DialogueTree, ve *ValidationError) {
	if _, ok := tree.Nodes[dialogue.RootNodeID]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"dialogue tree %q has no root node %q", treeID, dialogue.RootNodeID))
	}
	for nodeID, node := range tree.Nodes {
		for i, choice := range node.Choices {
			if choice.ClosesDialogue {
				continue
			}
			if choice.NextNodeID == "" {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"dialogue tree %q node %q choice %d neither advances nor closes", treeID, nodeID, i))
				continue
			}
			if _, ok := tree.Nodes[choice.NextNodeID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"dialogue tree %q node %q choice %d points to undefined node %q",
					treeID, nodeID, i, choice.NextNodeID))
			}
		}
	}
}

func validateRecipe(recipeID string, recipe types.RecipeDef, defs *world.Defs, ve *ValidationError) {
	if _, ok := defs.Items[recipe.ResultItemID]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"recipe %q result references undefined item %q", recipeID, recipe.ResultItemID))
	}
	if len(recipe.Ingredients) == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("recipe %q has no ingredients", recipeID))
	}
	for _, ing := range recipe.Ingredients {
		if _, ok := defs.Items[ing.ItemID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"recipe %q ingredient references undefined item %q", recipeID, ing.ItemID))
		}
		if ing.Quantity < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"recipe %q ingredient %q has non-positive quantity", recipeID, ing.ItemID))
		}
	}
}

func validateEncounter(encID string, enc types.EncounterDef, defs *world.Defs, ve *ValidationError) {
	if len(enc.Enemies) == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("encounter %q has no enemies", encID))
	}
	for _, enemy := range enc.Enemies {
		if enemy.MaxHP < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"encounter %q enemy %q has non-positive max_hp", encID, enemy.ID))
		}
	}
	for _, loot := range enc.Rewards.Items {
		if _, ok := defs.Items[loot.ItemID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"encounter %q reward references undefined item %q", encID, loot.ItemID))
		}
		if loot.Chance < 1 || loot.Chance > 100 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"encounter %q reward %q chance %d outside 1..100", encID, loot.ItemID, loot.Chance))
		}
	}
	if enc.Rewards.CopperMin > enc.Rewards.CopperMax {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"encounter %q reward copper range %d..%d is inverted",
			encID, enc.Rewards.CopperMin, enc.Rewards.CopperMax))
	}
}
