package domain

import "testing"

func TestOrder_FindLevel(t *testing.T) {
	o := &Order{
		Levels: []PriceLevel{{Price: 120, Amount: 50}, {Price: 130, Amount: 25}},
	}

	level, ok := o.FindLevel(130)
	if !ok {
		t.Fatal("expected level at price 130")
	}
	if level.Amount != 25 {
		t.Fatalf("expected amount 25, got %d", level.Amount)
	}

	if _, ok := o.FindLevel(999); ok {
		t.Fatal("expected no level at price 999")
	}
}

func TestOrder_RemoveLevelAt(t *testing.T) {
	o := &Order{
		Levels: []PriceLevel{
			{Price: 100, Amount: 1},
			{Price: 200, Amount: 2},
			{Price: 300, Amount: 3},
		},
	}

	o.RemoveLevelAt(0)

	if len(o.Levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(o.Levels))
	}
	// The slice stays dense; the removed slot is filled by the last entry.
	for _, l := range o.Levels {
		if l.Price == 100 {
			t.Fatal("removed level still present")
		}
	}
}
