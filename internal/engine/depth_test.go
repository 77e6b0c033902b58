package engine

import (
	"testing"

	"github.com/equibook/equibook/internal/domain"
)

func TestDepthIndex_TopOrdering(t *testing.T) {
	d := NewDepthIndex()

	d.Upsert("s1", domain.SideSell, "alice", 120, 50)
	d.Upsert("s1", domain.SideSell, "bob", 100, 30)
	d.Upsert("s1", domain.SideSell, "carol", 150, 10)

	sells := d.Top("s1", domain.SideSell, 10)
	if len(sells) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(sells))
	}
	for i, want := range []int64{100, 120, 150} {
		if sells[i].Price != want {
			t.Fatalf("level %d: expected price %d, got %d", i, want, sells[i].Price)
		}
	}

	d.Upsert("s1", domain.SideBuy, "alice", 90, 50)
	d.Upsert("s1", domain.SideBuy, "bob", 99, 30)

	buys := d.Top("s1", domain.SideBuy, 10)
	if len(buys) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(buys))
	}
	if buys[0].Price != 99 || buys[1].Price != 90 {
		t.Fatalf("expected buys ordered 99, 90, got %d, %d", buys[0].Price, buys[1].Price)
	}
}

func TestDepthIndex_Aggregation(t *testing.T) {
	d := NewDepthIndex()

	// Two participants resting at the same price collapse into one level.
	d.Upsert("s1", domain.SideSell, "alice", 100, 30)
	d.Upsert("s1", domain.SideSell, "bob", 100, 20)
	d.Upsert("s1", domain.SideSell, "carol", 110, 5)

	levels := d.Top("s1", domain.SideSell, 10)
	if len(levels) != 2 {
		t.Fatalf("expected 2 aggregated levels, got %d", len(levels))
	}
	if levels[0].TotalAmount != 50 || levels[0].OfferCount != 2 {
		t.Fatalf("expected level 100 to aggregate to 50/2, got %d/%d",
			levels[0].TotalAmount, levels[0].OfferCount)
	}
}

func TestDepthIndex_UpsertReplacesAmount(t *testing.T) {
	d := NewDepthIndex()

	d.Upsert("s1", domain.SideSell, "alice", 100, 30)
	d.Upsert("s1", domain.SideSell, "alice", 100, 12)

	levels := d.Top("s1", domain.SideSell, 1)
	if len(levels) != 1 || levels[0].TotalAmount != 12 || levels[0].OfferCount != 1 {
		t.Fatalf("expected one entry with amount 12, got %+v", levels)
	}
}

func TestDepthIndex_Remove(t *testing.T) {
	d := NewDepthIndex()

	d.Upsert("s1", domain.SideSell, "alice", 100, 30)
	d.Remove("s1", domain.SideSell, "alice", 100)

	if got := d.Top("s1", domain.SideSell, 10); len(got) != 0 {
		t.Fatalf("expected empty depth, got %+v", got)
	}

	// Removing an absent entry, or from an unknown stock, is a no-op.
	d.Remove("s1", domain.SideSell, "alice", 100)
	d.Remove("unknown", domain.SideBuy, "alice", 100)
}

func TestDepthIndex_TopLimit(t *testing.T) {
	d := NewDepthIndex()

	for i := int64(1); i <= 5; i++ {
		d.Upsert("s1", domain.SideSell, "alice", 100+i, 10)
	}

	if got := d.Top("s1", domain.SideSell, 3); len(got) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(got))
	}
	if got := d.Top("s1", domain.SideSell, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %+v", got)
	}
	if got := d.Top("unknown", domain.SideSell, 3); len(got) != 0 {
		t.Fatalf("expected empty slice for unknown stock, got %+v", got)
	}
}

func TestDepthIndex_RestingOffers(t *testing.T) {
	d := NewDepthIndex()

	d.Upsert("s1", domain.SideSell, "alice", 100, 10)
	d.Upsert("s1", domain.SideSell, "bob", 100, 10)
	d.Upsert("s2", domain.SideSell, "alice", 200, 10)
	d.Upsert("s1", domain.SideBuy, "carol", 90, 10)

	sells, buys := d.RestingOffers()
	if sells != 3 || buys != 1 {
		t.Fatalf("expected 3 sells and 1 buy, got %d and %d", sells, buys)
	}
}
