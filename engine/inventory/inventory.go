// Package inventory holds the player's item stacks, weight budget, and
// currency. Every mutation is all-or-nothing: a call that fails leaves
// the inventory exactly as it was.
package inventory

import (
	"errors"
	"fmt"

	"github.com/nboyd/hearthvale/types"
)

// Currency conversion factors, copper as the base unit.
const (
	CopperPerSilver = 100
	CopperPerGold   = 10000
)

var (
	// ErrCapacityExceeded means an addition would push weight past the ceiling.
	ErrCapacityExceeded = errors.New("carry capacity exceeded")
	// ErrInsufficientQuantity means a removal asked for more than is held.
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	// ErrInsufficientFunds means a deduction exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownItem means the item ID has no authored definition.
	ErrUnknownItem = errors.New("unknown item")
)

// Inventory is the player's owned multiset of items plus currency.
// Stacks are kept in acquisition order so the presentation layer gets a
// stable listing.
type Inventory struct {
	stacks    []types.Stack
	maxWeight float64
	copper    int // total balance in base units
	items     map[string]types.ItemDef
}

// New creates an empty inventory with the given weight ceiling, backed
// by the authored item definitions.
func New(maxWeight float64, items map[string]types.ItemDef) *Inventory {
	return &Inventory{maxWeight: maxWeight, items: items}
}

// Quantity returns how many of an item are held.
func (inv *Inventory) Quantity(itemID string) int {
	for _, s := range inv.stacks {
		if s.ItemID == itemID {
			return s.Quantity
		}
	}
	return 0
}

// Has reports whether at least qty of the item are held.
func (inv *Inventory) Has(itemID string, qty int) bool {
	return inv.Quantity(itemID) >= qty
}

// Weight returns the current total carried weight, recomputed from the
// stacks so it can never drift from the held items.
func (inv *Inventory) Weight() float64 {
	var w float64
	for _, s := range inv.stacks {
		w += inv.items[s.ItemID].Weight * float64(s.Quantity)
	}
	return w
}

// MaxWeight returns the weight ceiling.
func (inv *Inventory) MaxWeight() float64 { return inv.maxWeight }

// AddItem merges qty of an item into the inventory. Fails with
// ErrCapacityExceeded if the resulting weight would exceed the ceiling;
// the addition is rejected outright, never clamped.
func (inv *Inventory) AddItem(itemID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	def, ok := inv.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if inv.Weight()+def.Weight*float64(qty) > inv.maxWeight {
		return ErrCapacityExceeded
	}
	for i := range inv.stacks {
		if inv.stacks[i].ItemID == itemID {
			inv.stacks[i].Quantity += qty
			return nil
		}
	}
	inv.stacks = append(inv.stacks, types.Stack{ItemID: itemID, Quantity: qty})
	return nil
}

// RemoveItem removes qty of an item. Fails with ErrInsufficientQuantity
// if fewer are held; a stack that reaches zero is dropped entirely.
func (inv *Inventory) RemoveItem(itemID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	for i := range inv.stacks {
		if inv.stacks[i].ItemID != itemID {
			continue
		}
		if inv.stacks[i].Quantity < qty {
			return ErrInsufficientQuantity
		}
		inv.stacks[i].Quantity -= qty
		if inv.stacks[i].Quantity == 0 {
			inv.stacks = append(inv.stacks[:i], inv.stacks[i+1:]...)
		}
		return nil
	}
	return ErrInsufficientQuantity
}

// Balance returns the total funds in copper.
func (inv *Inventory) Balance() int { return inv.copper }

// Purse returns the balance broken into denominations.
func (inv *Inventory) Purse() types.Purse {
	return types.Purse{
		Gold:   inv.copper / CopperPerGold,
		Silver: (inv.copper % CopperPerGold) / CopperPerSilver,
		Copper: inv.copper % CopperPerSilver,
	}
}

// AddCopper credits the balance.
func (inv *Inventory) AddCopper(amount int) {
	if amount > 0 {
		inv.copper += amount
	}
}

// RemoveCopper deducts from the balance. Fails with
// ErrInsufficientFunds and deducts nothing if the balance is short.
func (inv *Inventory) RemoveCopper(amount int) error {
	if amount <= 0 {
		return nil
	}
	if amount > inv.copper {
		return ErrInsufficientFunds
	}
	inv.copper -= amount
	return nil
}

// Exchange removes the expended stacks and adds the rewarded ones as
// one atomic operation. If any expended item is short, a rewarded item
// is unknown, or the net result would not fit the weight budget,
// nothing changes. Crafting inputs and outputs and timed-action payouts
// all settle through here.
func (inv *Inventory) Exchange(expended, rewards []types.Stack) error {
	// Validate everything before touching state.
	for _, st := range expended {
		if !inv.Has(st.ItemID, st.Quantity) {
			return fmt.Errorf("%w: %s", ErrInsufficientQuantity, st.ItemID)
		}
	}

	// The weight check accounts for expended items leaving the bag.
	weightAfter := inv.Weight()
	for _, st := range expended {
		weightAfter -= inv.items[st.ItemID].Weight * float64(st.Quantity)
	}
	for _, st := range rewards {
		def, ok := inv.items[st.ItemID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, st.ItemID)
		}
		weightAfter += def.Weight * float64(st.Quantity)
	}
	if weightAfter > inv.maxWeight {
		return ErrCapacityExceeded
	}

	for _, st := range expended {
		if err := inv.RemoveItem(st.ItemID, st.Quantity); err != nil {
			return err // unreachable after validation, kept for safety
		}
	}
	for _, st := range rewards {
		if err := inv.AddItem(st.ItemID, st.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Stacks returns a copy of the held stacks in acquisition order.
func (inv *Inventory) Stacks() []types.Stack {
	out := make([]types.Stack, len(inv.stacks))
	copy(out, inv.stacks)
	return out
}

// Snapshot is the serializable view of an inventory.
type Snapshot struct {
	Stacks    []types.Stack `json:"stacks"`
	Weight    float64       `json:"weight"`
	MaxWeight float64       `json:"max_weight"`
	Copper    int           `json:"copper"`
}

// Snapshot captures the current inventory state.
func (inv *Inventory) Snapshot() Snapshot {
	return Snapshot{
		Stacks:    inv.Stacks(),
		Weight:    inv.Weight(),
		MaxWeight: inv.maxWeight,
		Copper:    inv.copper,
	}
}

// Restore replaces the inventory contents from a snapshot.
func (inv *Inventory) Restore(snap Snapshot) {
	inv.stacks = make([]types.Stack, len(snap.Stacks))
	copy(inv.stacks, snap.Stacks)
	if snap.MaxWeight > 0 {
		inv.maxWeight = snap.MaxWeight
	}
	inv.copper = snap.Copper
}
