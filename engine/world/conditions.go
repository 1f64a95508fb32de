package world

import "github.com/nboyd/hearthvale/types"

// CondContext supplies the state a condition may consult. Conditions
// read state, never mutate it.
type CondContext struct {
	Player  *types.Player
	HasItem func(itemID string, qty int) bool
	Season  types.Season
}

// EvalCondition evaluates a single condition. Unknown condition types
// fail closed.
func EvalCondition(c types.Condition, ctx CondContext) bool {
	switch c.Type {
	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return ctx.Player != nil && ctx.Player.Flags[flag]

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return ctx.Player == nil || !ctx.Player.Flags[flag]

	case "skill_at_least":
		skill, _ := c.Params["skill"].(string)
		level := toInt(c.Params["level"])
		return ctx.Player != nil && ctx.Player.Skills[skill] >= level

	case "has_item":
		item, _ := c.Params["item"].(string)
		qty := toInt(c.Params["quantity"])
		if qty == 0 {
			qty = 1
		}
		return ctx.HasItem != nil && ctx.HasItem(item, qty)

	case "season_is":
		season, _ := c.Params["season"].(string)
		return string(ctx.Season) == season

	default:
		return false
	}
}

// EvalAll returns true if every condition passes (AND logic). An empty
// list is vacuously true.
func EvalAll(conditions []types.Condition, ctx CondContext) bool {
	for _, c := range conditions {
		if !EvalCondition(c, ctx) {
			return false
		}
	}
	return true
}

// toInt converts an any value to int, handling float64 from Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
