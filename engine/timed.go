package engine

import (
	"errors"
	"fmt"

	"github.com/nboyd/hearthvale/engine/inventory"
	"github.com/nboyd/hearthvale/engine/sched"
	"github.com/nboyd/hearthvale/engine/world"
	"github.com/nboyd/hearthvale/types"
)

// ErrSkillTooLow means a recipe's skill requirement is unmet.
var ErrSkillTooLow = errors.New("skill level too low")

// RequestTimedAction opens the preview phase for a timed action of the
// given kind. For crafting, target is the recipe ID and the chosen
// "hours" value is the craft multiplier.
func (s *Session) RequestTimedAction(kind types.ActionKind, target string) error {
	if s.Suspended() {
		return ErrInvalidCommand
	}
	switch kind {
	case types.ActionLabor:
		return s.sched.Begin(s.laborRequest())
	case types.ActionFish:
		return s.sched.Begin(s.fishingRequest())
	case types.ActionRest:
		return s.sched.Begin(s.restRequest())
	case types.ActionCraft:
		recipe, err := s.Defs.Recipe(target)
		if err != nil {
			return err
		}
		req, err := s.craftRequest(recipe)
		if err != nil {
			return err
		}
		return s.sched.Begin(req)
	default:
		return fmt.Errorf("kind %q is not a timed action: %w", kind, ErrInvalidCommand)
	}
}

// PreviewTimedAction projects a candidate duration. Pure; repeatable.
func (s *Session) PreviewTimedAction(hours int) (sched.Preview, error) {
	return s.sched.PreviewAt(hours)
}

// ConfirmTimedActionDuration freezes the commit for the chosen
// duration and hands it to the caller's progress phase.
func (s *Session) ConfirmTimedActionDuration(hours int) (*sched.Commit, error) {
	return s.sched.Confirm(hours)
}

// CompleteTimedAction applies the frozen commit exactly once. The
// caller signals this when its progress animation finishes; wall-clock
// time spent animating is irrelevant to the in-game duration.
func (s *Session) CompleteTimedAction() error {
	return s.sched.Complete()
}

// CancelTimedActionPreview abandons the pending request or frozen
// commit with no side effects.
func (s *Session) CancelTimedActionPreview() {
	s.sched.Cancel()
}

func (s *Session) laborRequest() sched.Request {
	t := s.Cfg.Labor
	return sched.Request{
		Name:     "Labor",
		MaxHours: sched.MaxHoursFor(s.player.Vitals.Energy, t.EnergyPerHour),
		Preview: func(hours int) sched.Preview {
			return sched.Preview{
				Hours:      hours,
				EnergyCost: t.EnergyPerHour * hours,
				Copper:     t.CopperPerHour * hours,
				Summary:    fmt.Sprintf("%d copper for %dh of work", t.CopperPerHour*hours, hours),
			}
		},
	}
}

func (s *Session) fishingRequest() sched.Request {
	t := s.Cfg.Fishing
	return sched.Request{
		Name:     "Fishing",
		MaxHours: sched.MaxHoursFor(s.player.Vitals.Energy, t.EnergyPerHour),
		Preview: func(hours int) sched.Preview {
			catch := t.CatchPerHour * hours
			return sched.Preview{
				Hours:      hours,
				EnergyCost: t.EnergyPerHour * hours,
				Rewards:    []types.Stack{{ItemID: t.CatchItem, Quantity: catch}},
				Summary:    fmt.Sprintf("about %d catch in %dh", catch, hours),
			}
		},
	}
}

func (s *Session) restRequest() sched.Request {
	t := s.Cfg.Rest
	return sched.Request{
		Name:     "Rest",
		MaxHours: 12,
		Preview: func(hours int) sched.Preview {
			return sched.Preview{
				Hours: hours,
				VitalsDeltas: []types.VitalDelta{
					{Vital: "energy", Amount: t.RestorePerHour * hours},
				},
				Summary: fmt.Sprintf("recover up to %d energy", t.RestorePerHour*hours),
			}
		},
	}
}

// craftRequest treats the confirmed value as a batch multiplier rather
// than hours; the commit's duration scales with the recipe's time cost.
func (s *Session) craftRequest(recipe types.RecipeDef) (sched.Request, error) {
	if recipe.Skill != "" && s.player.Skills[recipe.Skill] < recipe.LevelRequired {
		return sched.Request{}, fmt.Errorf("%s requires %s %d: %w",
			recipe.ID, recipe.Skill, recipe.LevelRequired, ErrSkillTooLow)
	}

	// The batch bound comes from ingredient stock; energy shortfall is
	// reported by Confirm so the player sees the right failure.
	maxBatch := 99
	for _, ing := range recipe.Ingredients {
		if ing.Quantity > 0 {
			if byStock := s.inv.Quantity(ing.ItemID) / ing.Quantity; byStock < maxBatch {
				maxBatch = byStock
			}
		}
	}
	if maxBatch < 1 {
		maxBatch = 1
	}

	return sched.Request{
		Name:     "Craft " + recipe.ID,
		MaxHours: maxBatch,
		Preview: func(mult int) sched.Preview {
			expended := make([]types.Stack, 0, len(recipe.Ingredients))
			for _, ing := range recipe.Ingredients {
				expended = append(expended, types.Stack{ItemID: ing.ItemID, Quantity: ing.Quantity * mult})
			}
			return sched.Preview{
				Hours:           mult,
				DurationMinutes: recipe.TimeCostMinutes * mult,
				EnergyCost:      recipe.EnergyCost * mult,
				Rewards:         []types.Stack{{ItemID: recipe.ResultItemID, Quantity: recipe.ResultQuantity * mult}},
				Expended:        expended,
				Summary:         fmt.Sprintf("%d× %s", recipe.ResultQuantity*mult, recipe.ResultItemID),
			}
		},
	}, nil
}

func (s *Session) beginTravel(a types.ActionDef) error {
	t := s.Cfg.Travel
	cost := t.EnergyPerHour * a.TimeCostMinutes / 60
	return s.sched.Begin(sched.Request{
		Name:     "Travel",
		MaxHours: 1,
		Preview: func(int) sched.Preview {
			return sched.Preview{
				Hours:           1,
				DurationMinutes: a.TimeCostMinutes,
				EnergyCost:      cost,
				TravelTo:        a.Target,
				Summary:         fmt.Sprintf("%d minutes on the road", a.TimeCostMinutes),
			}
		},
	})
}

// Craft runs a whole craft through the timed protocol in one call:
// request, confirm the batch size, and complete. Ingredient shortage
// or missing energy fails before any mutation.
func (s *Session) Craft(recipeID string, quantity int) error {
	recipe, err := s.Defs.Recipe(recipeID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}
	for _, ing := range recipe.Ingredients {
		if !s.inv.Has(ing.ItemID, ing.Quantity*quantity) {
			return fmt.Errorf("short on %s: %w", ing.ItemID, inventory.ErrInsufficientQuantity)
		}
	}
	if err := s.RequestTimedAction(types.ActionCraft, recipeID); err != nil {
		return err
	}
	if _, err := s.ConfirmTimedActionDuration(quantity); err != nil {
		s.CancelTimedActionPreview()
		return err
	}
	return s.CompleteTimedAction()
}

// BuyItem purchases from an NPC's price list. Funds and capacity are
// both verified before anything changes hands.
func (s *Session) BuyItem(npcID, itemID string, qty int) error {
	entry, err := s.tradeEntry(npcID, itemID)
	if err != nil {
		return err
	}
	if entry.BuyPrice <= 0 {
		return fmt.Errorf("%s is not for sale: %w", itemID, world.ErrNotFound)
	}
	total := entry.BuyPrice * qty
	if s.inv.Balance() < total {
		return inventory.ErrInsufficientFunds
	}
	if err := s.inv.AddItem(itemID, qty); err != nil {
		return err
	}
	// Cannot fail: balance was checked above and nothing ran in between.
	return s.inv.RemoveCopper(total)
}

// SellItem sells to an NPC's price list.
func (s *Session) SellItem(npcID, itemID string, qty int) error {
	entry, err := s.tradeEntry(npcID, itemID)
	if err != nil {
		return err
	}
	if entry.SellPrice <= 0 {
		return fmt.Errorf("%s is not bought here: %w", itemID, world.ErrNotFound)
	}
	if err := s.inv.RemoveItem(itemID, qty); err != nil {
		return err
	}
	s.inv.AddCopper(entry.SellPrice * qty)
	return nil
}

func (s *Session) tradeEntry(npcID, itemID string) (types.TradeEntry, error) {
	npc, err := s.Defs.NPC(npcID)
	if err != nil {
		return types.TradeEntry{}, err
	}
	for _, e := range npc.Trades {
		if e.ItemID == itemID {
			return e, nil
		}
	}
	return types.TradeEntry{}, fmt.Errorf("%s does not trade %s: %w", npcID, itemID, world.ErrNotFound)
}
