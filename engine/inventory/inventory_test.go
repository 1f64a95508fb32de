package inventory

import (
	"errors"
	"testing"

	"github.com/nboyd/hearthvale/types"
)

func testItems() map[string]types.ItemDef {
	return map[string]types.ItemDef{
		"ore":    {ID: "ore", Name: "Iron Ore", Weight: 6, Value: 15},
		"ingot":  {ID: "ingot", Name: "Iron Ingot", Weight: 4, Value: 60},
		"trout":  {ID: "trout", Name: "River Trout", Weight: 1.5, Value: 8},
		"pebble": {ID: "pebble", Name: "Pebble", Weight: 0.1, Value: 1},
	}
}

func TestAddItem_RejectsOverCapacity(t *testing.T) {
	inv := New(50, testItems())

	if err := inv.AddItem("ore", 8); err != nil { // 48 of 50
		t.Fatalf("AddItem(ore, 8): %v", err)
	}
	if got := inv.Weight(); got != 48 {
		t.Fatalf("weight = %v, want 48", got)
	}

	err := inv.AddItem("ore", 1) // would be 54
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}
	if got := inv.Weight(); got != 48 {
		t.Errorf("failed add changed weight to %v", got)
	}
	if got := inv.Quantity("ore"); got != 8 {
		t.Errorf("failed add changed quantity to %d", got)
	}
}

func TestWeight_MatchesStacksAfterMutations(t *testing.T) {
	inv := New(100, testItems())
	ops := []struct {
		add  bool
		item string
		qty  int
	}{
		{true, "ore", 3},
		{true, "trout", 4},
		{false, "ore", 1},
		{true, "pebble", 10},
		{false, "trout", 4},
	}
	for _, op := range ops {
		var err error
		if op.add {
			err = inv.AddItem(op.item, op.qty)
		} else {
			err = inv.RemoveItem(op.item, op.qty)
		}
		if err != nil {
			t.Fatalf("op %+v: %v", op, err)
		}
		var want float64
		for _, s := range inv.Stacks() {
			want += testItems()[s.ItemID].Weight * float64(s.Quantity)
		}
		if got := inv.Weight(); got != want {
			t.Fatalf("after %+v: weight %v, recomputed %v", op, got, want)
		}
	}
}

func TestRemoveItem_DropsEmptyStack(t *testing.T) {
	inv := New(100, testItems())
	inv.AddItem("trout", 2)
	if err := inv.RemoveItem("trout", 2); err != nil {
		t.Fatal(err)
	}
	if len(inv.Stacks()) != 0 {
		t.Errorf("empty stack kept: %+v", inv.Stacks())
	}
}

func TestRemoveItem_InsufficientQuantity(t *testing.T) {
	inv := New(100, testItems())
	inv.AddItem("trout", 2)
	err := inv.RemoveItem("trout", 3)
	if !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("got %v, want ErrInsufficientQuantity", err)
	}
	if inv.Quantity("trout") != 2 {
		t.Error("failed removal mutated stack")
	}
}

func TestAddItem_UnknownItem(t *testing.T) {
	inv := New(100, testItems())
	if err := inv.AddItem("moon_rock", 1); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("got %v, want ErrUnknownItem", err)
	}
}

func TestRemoveCopper_AllOrNothing(t *testing.T) {
	inv := New(100, testItems())
	inv.AddCopper(250)

	err := inv.RemoveCopper(300)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if inv.Balance() != 250 {
		t.Errorf("failed deduction changed balance to %d", inv.Balance())
	}

	if err := inv.RemoveCopper(250); err != nil {
		t.Fatal(err)
	}
	if inv.Balance() != 0 {
		t.Errorf("balance %d after full deduction", inv.Balance())
	}
}

func TestPurse_Denominations(t *testing.T) {
	inv := New(100, testItems())
	inv.AddCopper(2*CopperPerGold + 3*CopperPerSilver + 45)

	p := inv.Purse()
	if p.Gold != 2 || p.Silver != 3 || p.Copper != 45 {
		t.Errorf("purse = %+v, want 2g 3s 45c", p)
	}
}

func TestExchange_Atomic(t *testing.T) {
	inv := New(100, testItems())
	inv.AddItem("ore", 3)

	// Short one ore for a double batch: nothing may change.
	err := inv.Exchange(
		[]types.Stack{{ItemID: "ore", Quantity: 4}},
		[]types.Stack{{ItemID: "ingot", Quantity: 2}},
	)
	if !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("got %v, want ErrInsufficientQuantity", err)
	}
	if inv.Quantity("ore") != 3 || inv.Quantity("ingot") != 0 {
		t.Fatalf("failed exchange mutated inventory: ore=%d ingot=%d",
			inv.Quantity("ore"), inv.Quantity("ingot"))
	}

	err = inv.Exchange(
		[]types.Stack{{ItemID: "ore", Quantity: 2}},
		[]types.Stack{{ItemID: "ingot", Quantity: 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if inv.Quantity("ore") != 1 || inv.Quantity("ingot") != 1 {
		t.Errorf("exchange result: ore=%d ingot=%d, want 1 and 1",
			inv.Quantity("ore"), inv.Quantity("ingot"))
	}
}

func TestExchange_AccountsForFreedWeight(t *testing.T) {
	// 2 ore (12 weight) become 1 ingot (4 weight): legal even at the cap.
	inv := New(12, testItems())
	if err := inv.AddItem("ore", 2); err != nil {
		t.Fatal(err)
	}
	err := inv.Exchange(
		[]types.Stack{{ItemID: "ore", Quantity: 2}},
		[]types.Stack{{ItemID: "ingot", Quantity: 1}},
	)
	if err != nil {
		t.Fatalf("exchange at weight cap: %v", err)
	}
}

func TestExchange_UnknownRewardItem(t *testing.T) {
	inv := New(100, testItems())
	inv.AddItem("ore", 2)

	err := inv.Exchange(
		[]types.Stack{{ItemID: "ore", Quantity: 2}},
		[]types.Stack{{ItemID: "moon_rock", Quantity: 1}},
	)
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("got %v, want ErrUnknownItem", err)
	}
	if inv.Quantity("ore") != 2 {
		t.Error("failed exchange consumed the expended items")
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	inv := New(100, testItems())
	inv.AddItem("ore", 2)
	inv.AddItem("trout", 5)
	inv.AddCopper(777)

	snap := inv.Snapshot()

	other := New(1, testItems())
	other.Restore(snap)

	if other.Quantity("ore") != 2 || other.Quantity("trout") != 5 {
		t.Errorf("restored stacks wrong: %+v", other.Stacks())
	}
	if other.Balance() != 777 {
		t.Errorf("restored balance %d", other.Balance())
	}
	if other.MaxWeight() != 100 {
		t.Errorf("restored max weight %v", other.MaxWeight())
	}
}
