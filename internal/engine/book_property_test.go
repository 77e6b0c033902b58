package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/ledger"
	"github.com/equibook/equibook/internal/store"
)

func newPropertyEngine(t *rapid.T, totalSupply int64) (*Engine, *ledger.Ledger, *domain.Stock) {
	keys := domain.PathKeyer{}
	l := ledger.NewLedger(
		store.NewExchangeStore(),
		store.NewStockStore(keys),
		store.NewHolderStore(keys),
		keys,
	)
	if _, err := l.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	st, err := l.CreateStock(ledger.CreateStockParams{
		Name:        "Prop Corp",
		TotalSupply: totalSupply,
		IPODate:     time.Now().Add(24 * time.Hour),
		IPOPrice:    100,
	})
	if err != nil {
		t.Fatalf("create stock: %v", err)
	}
	e := NewEngine(l, store.NewOrderStore(keys), store.NewTradeStore(), NewDepthIndex(), 32, 128)
	return e, l, st
}

// Prices on an order record are unique no matter what interleaving of
// placements and cancellations runs.
func TestProperty_NoDuplicatePriceLevels(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, l, st := newPropertyEngine(t, 1_000_000)
		if _, err := l.InitHolderAccount(st.StockID, "alice"); err != nil {
			t.Fatalf("init holder: %v", err)
		}
		if _, err := e.InitSellAccount(st.StockID, "alice"); err != nil {
			t.Fatalf("init sell account: %v", err)
		}

		numOps := rapid.IntRange(1, 60).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			price := rapid.Int64Range(1, 20).Draw(t, fmt.Sprintf("price-%d", i))
			if rapid.Bool().Draw(t, fmt.Sprintf("isPlace-%d", i)) {
				amount := rapid.Int64Range(1, 100).Draw(t, fmt.Sprintf("amount-%d", i))
				_, err := e.PlaceOffer(st.StockID, "alice", domain.SideSell, price, amount)
				if err != nil &&
					!errors.Is(err, domain.ErrDuplicatePriceLevel) &&
					!errors.Is(err, domain.ErrCapacityExceeded) {
					t.Fatalf("place: %v", err)
				}
			} else {
				_, err := e.CancelOffer(st.StockID, "alice", domain.SideSell, price)
				if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
					t.Fatalf("cancel: %v", err)
				}
			}
		}

		o, err := e.GetOrder(st.StockID, "alice", domain.SideSell)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		seen := make(map[int64]bool)
		for _, lv := range o.Levels {
			if seen[lv.Price] {
				t.Fatalf("duplicate price %d on record", lv.Price)
			}
			seen[lv.Price] = true
			if lv.Amount <= 0 {
				t.Fatalf("non-positive amount %d at price %d", lv.Amount, lv.Price)
			}
		}
		if len(o.Levels) > o.Capacity {
			t.Fatalf("record exceeds capacity: %d > %d", len(o.Levels), o.Capacity)
		}
	})
}

// Shares are conserved across any sequence of acceptances: what leaves
// the seller arrives at the buyer, and the trade log accounts for every
// share that moved.
func TestProperty_AcceptanceConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const supply = 1_000_000
		e, l, st := newPropertyEngine(t, supply)

		sellerShares := rapid.Int64Range(100, 10_000).Draw(t, "sellerShares")
		if _, err := l.InitHolderAccount(st.StockID, "seller"); err != nil {
			t.Fatalf("init seller: %v", err)
		}
		if _, err := l.BuyInIPO(st.StockID, "seller", sellerShares); err != nil {
			t.Fatalf("ipo buy: %v", err)
		}
		if _, err := l.InitHolderAccount(st.StockID, "buyer"); err != nil {
			t.Fatalf("init buyer: %v", err)
		}
		if _, err := e.InitSellAccount(st.StockID, "seller"); err != nil {
			t.Fatalf("init sell account: %v", err)
		}

		numLevels := rapid.IntRange(1, 10).Draw(t, "numLevels")
		for i := 0; i < numLevels; i++ {
			price := int64(100 + i)
			amount := rapid.Int64Range(1, 200).Draw(t, fmt.Sprintf("levelAmount-%d", i))
			if _, err := e.PlaceOffer(st.StockID, "seller", domain.SideSell, price, amount); err != nil {
				t.Fatalf("place %d: %v", i, err)
			}
		}

		numAccepts := rapid.IntRange(1, 30).Draw(t, "numAccepts")
		for i := 0; i < numAccepts; i++ {
			amount := rapid.Int64Range(1, 250).Draw(t, fmt.Sprintf("acceptAmount-%d", i))
			_, err := e.AcceptSell(st.StockID, "seller", "buyer", amount)
			if err != nil &&
				!errors.Is(err, domain.ErrOrderNotFound) &&
				!errors.Is(err, domain.ErrInsufficientBalance) {
				t.Fatalf("accept: %v", err)
			}
		}

		seller, _ := l.GetHolder(st.StockID, "seller")
		buyer, _ := l.GetHolder(st.StockID, "buyer")

		if seller.Participation < 0 || buyer.Participation < 0 {
			t.Fatalf("negative balance: seller=%d buyer=%d", seller.Participation, buyer.Participation)
		}
		if seller.Participation+buyer.Participation != sellerShares {
			t.Fatalf("share conservation violated: %d + %d != %d",
				seller.Participation, buyer.Participation, sellerShares)
		}

		var traded int64
		for _, tr := range e.trades.GetByStock(st.StockID) {
			traded += tr.Amount
		}
		if traded != buyer.Participation {
			t.Fatalf("trade log accounts for %d shares, buyer holds %d", traded, buyer.Participation)
		}

		ex, _ := l.Exchange()
		if int(ex.HistoricalExchanges) != len(e.trades.GetByStock(st.StockID)) {
			t.Fatalf("historical_exchanges=%d, trades on record=%d",
				ex.HistoricalExchanges, len(e.trades.GetByStock(st.StockID)))
		}
	})
}

// The depth index always mirrors the order records it is derived from.
func TestProperty_DepthMirrorsRecords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, l, st := newPropertyEngine(t, 1_000_000)
		if _, err := l.InitHolderAccount(st.StockID, "alice"); err != nil {
			t.Fatalf("init holder: %v", err)
		}
		if _, err := e.InitSellAccount(st.StockID, "alice"); err != nil {
			t.Fatalf("init sell account: %v", err)
		}

		numOps := rapid.IntRange(1, 40).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			price := rapid.Int64Range(1, 15).Draw(t, fmt.Sprintf("price-%d", i))
			if rapid.Bool().Draw(t, fmt.Sprintf("isPlace-%d", i)) {
				amount := rapid.Int64Range(1, 100).Draw(t, fmt.Sprintf("amount-%d", i))
				e.PlaceOffer(st.StockID, "alice", domain.SideSell, price, amount)
			} else {
				e.CancelOffer(st.StockID, "alice", domain.SideSell, price)
			}
		}

		o, err := e.GetOrder(st.StockID, "alice", domain.SideSell)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}

		fromRecord := make(map[int64]int64)
		for _, lv := range o.Levels {
			fromRecord[lv.Price] = lv.Amount
		}

		levels := e.Depth(st.StockID, domain.SideSell, 100)
		fromDepth := make(map[int64]int64)
		for _, lv := range levels {
			fromDepth[lv.Price] = lv.TotalAmount
		}

		if len(fromRecord) != len(fromDepth) {
			t.Fatalf("depth has %d levels, record has %d", len(fromDepth), len(fromRecord))
		}
		for price, amount := range fromRecord {
			if fromDepth[price] != amount {
				t.Fatalf("price %d: depth=%d record=%d", price, fromDepth[price], amount)
			}
		}
	})
}
