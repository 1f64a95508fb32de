package rng

import "testing"

func TestRoll_Bounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 200; i++ {
		v := r.Roll(6)
		if v < 1 || v > 6 {
			t.Fatalf("Roll(6) = %d, want 1..6", v)
		}
	}
	if r.Position() != 200 {
		t.Errorf("Position = %d, want 200", r.Position())
	}
}

func TestIntRange_Bounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 200; i++ {
		v := r.IntRange(5, 15)
		if v < 5 || v > 15 {
			t.Fatalf("IntRange(5, 15) = %d, want 5..15", v)
		}
	}
}

func TestIntRange_DegenerateRange(t *testing.T) {
	r := New(1)
	if v := r.IntRange(4, 4); v != 4 {
		t.Errorf("IntRange(4, 4) = %d, want 4", v)
	}
	if v := r.IntRange(9, 2); v != 9 {
		t.Errorf("IntRange(9, 2) = %d, want min back", v)
	}
	// Degenerate ranges draw nothing from the stream.
	if r.Position() != 0 {
		t.Errorf("Position = %d, want 0", r.Position())
	}
}

func TestChance_Extremes(t *testing.T) {
	r := New(3)
	for i := 0; i < 50; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !r.Chance(1.0) {
			t.Fatal("Chance(1.0) returned false")
		}
	}
}

func TestSameSeed_SameStream(t *testing.T) {
	a := New(99)
	b := New(99)
	for i := 0; i < 100; i++ {
		if av, bv := a.Roll(20), b.Roll(20); av != bv {
			t.Fatalf("draw %d: streams diverged, %d != %d", i, av, bv)
		}
	}
}

func TestRestore_ReplaysStream(t *testing.T) {
	orig := New(42)
	for i := 0; i < 37; i++ {
		orig.Roll(20)
	}
	restored := Restore(orig.Seed(), orig.Position())
	if restored.Position() != orig.Position() {
		t.Fatalf("restored position = %d, want %d", restored.Position(), orig.Position())
	}
	for i := 0; i < 100; i++ {
		ov := orig.IntRange(1, 1000)
		rv := restored.IntRange(1, 1000)
		if ov != rv {
			t.Fatalf("draw %d after restore: %d != %d", i, ov, rv)
		}
	}
}

func TestRestore_MixedDrawKinds(t *testing.T) {
	orig := New(11)
	orig.Roll(6)
	orig.Chance(0.5)
	orig.IntRange(10, 30)

	restored := Restore(11, orig.Position())
	if ov, rv := orig.Roll(100), restored.Roll(100); ov != rv {
		t.Errorf("post-restore roll: %d != %d", ov, rv)
	}
	if ov, rv := orig.Chance(0.4), restored.Chance(0.4); ov != rv {
		t.Errorf("post-restore chance: %v != %v", ov, rv)
	}
}
