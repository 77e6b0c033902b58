package engine

import (
	"sync"

	"github.com/google/btree"

	"github.com/equibook/equibook/internal/domain"
)

// depthEntry is one participant's resting offer at one price, as seen by
// the market-wide depth index. Identity is (price, participant); Amount
// is payload and is replaced on upsert.
type depthEntry struct {
	Price         int64
	ParticipantID string
	Amount        int64
}

// sellLess orders the sell side: price ascending, then participant
// ascending. Ascend() visits the best (cheapest) offers first.
func sellLess(a, b depthEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.ParticipantID < b.ParticipantID
}

// buyLess orders the buy side: price descending, then participant
// ascending. Ascend() visits the best (highest) bids first.
func buyLess(a, b depthEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.ParticipantID < b.ParticipantID
}

// AggregatedLevel is one price level of the market-wide book view, with
// quantities summed across participants.
type AggregatedLevel struct {
	Price       int64
	TotalAmount int64
	OfferCount  int
}

// DepthIndex maintains a market-wide view of resting offers per stock,
// aggregated across all participants' order records. It is a read model:
// the order records remain the source of truth and the engine keeps the
// index in sync within the same book transition.
type DepthIndex struct {
	mu    sync.RWMutex
	sells map[string]*btree.BTreeG[depthEntry]
	buys  map[string]*btree.BTreeG[depthEntry]
}

// NewDepthIndex creates an empty DepthIndex.
func NewDepthIndex() *DepthIndex {
	return &DepthIndex{
		sells: make(map[string]*btree.BTreeG[depthEntry]),
		buys:  make(map[string]*btree.BTreeG[depthEntry]),
	}
}

const depthTreeDegree = 32

// tree returns the btree for (stock, side), creating it if needed.
// The caller must hold the write lock for create; reads that miss
// simply get nil.
func (d *DepthIndex) tree(stockID string, side domain.Side, create bool) *btree.BTreeG[depthEntry] {
	var trees map[string]*btree.BTreeG[depthEntry]
	if side == domain.SideSell {
		trees = d.sells
	} else {
		trees = d.buys
	}
	t, ok := trees[stockID]
	if !ok && create {
		if side == domain.SideSell {
			t = btree.NewG(depthTreeDegree, sellLess)
		} else {
			t = btree.NewG(depthTreeDegree, buyLess)
		}
		trees[stockID] = t
	}
	return t
}

// Upsert records the remaining amount of a participant's offer at a
// price, inserting or replacing the entry.
func (d *DepthIndex) Upsert(stockID string, side domain.Side, participantID string, price, amount int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tree(stockID, side, true).ReplaceOrInsert(depthEntry{
		Price:         price,
		ParticipantID: participantID,
		Amount:        amount,
	})
}

// Remove deletes a participant's offer at a price from the index.
// Removing an absent entry is a no-op.
func (d *DepthIndex) Remove(stockID string, side domain.Side, participantID string, price int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.tree(stockID, side, false)
	if t == nil {
		return
	}
	t.Delete(depthEntry{Price: price, ParticipantID: participantID})
}

// Top returns up to n aggregated price levels for (stock, side), best
// prices first: ascending for sells, descending for buys.
func (d *DepthIndex) Top(stockID string, side domain.Side, n int) []AggregatedLevel {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	t := d.tree(stockID, side, false)
	if t == nil {
		return []AggregatedLevel{}
	}

	levels := make([]AggregatedLevel, 0, n)
	t.Ascend(func(e depthEntry) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == e.Price {
			levels[len(levels)-1].TotalAmount += e.Amount
			levels[len(levels)-1].OfferCount++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, AggregatedLevel{
			Price:       e.Price,
			TotalAmount: e.Amount,
			OfferCount:  1,
		})
		return true
	})
	return levels
}

// RestingOffers returns the total number of resting offers on each side
// across all stocks. Used by the gauge sampler.
func (d *DepthIndex) RestingOffers() (sells, buys int) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, t := range d.sells {
		sells += t.Len()
	}
	for _, t := range d.buys {
		buys += t.Len()
	}
	return sells, buys
}
