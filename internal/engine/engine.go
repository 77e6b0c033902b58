// Package engine implements the order-book side of the exchange: per
// (stock, participant, side) order records holding discrete price
// levels, and the matching transitions that settle acceptances against
// them. Transitions touching the same stock's books serialize on a
// per-stock lock; transitions over disjoint stocks run concurrently.
package engine

import (
	"sync"
	"time"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/ledger"
	"github.com/equibook/equibook/internal/store"
)

// Engine holds the order records and settles acceptances against them.
type Engine struct {
	ledger *ledger.Ledger
	orders *store.OrderStore
	trades *store.TradeStore
	depth  *DepthIndex

	sellCapacity int
	buyCapacity  int

	mu    sync.Mutex
	locks map[string]*sync.RWMutex // stock_id → book lock

	// now is swappable in tests that assert record timestamps.
	now func() time.Time
}

// NewEngine creates an Engine with the given side capacities.
func NewEngine(
	l *ledger.Ledger,
	orders *store.OrderStore,
	trades *store.TradeStore,
	depth *DepthIndex,
	sellCapacity, buyCapacity int,
) *Engine {
	return &Engine{
		ledger:       l,
		orders:       orders,
		trades:       trades,
		depth:        depth,
		sellCapacity: sellCapacity,
		buyCapacity:  buyCapacity,
		locks:        make(map[string]*sync.RWMutex),
		now:          time.Now,
	}
}

// bookLock returns the per-stock book lock, creating it if needed.
func (e *Engine) bookLock(stockID string) *sync.RWMutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[stockID]
	if !ok {
		l = &sync.RWMutex{}
		e.locks[stockID] = l
	}
	return l
}

// InitSellAccount creates the empty sell-side order record for a
// (stock, participant) pair. Fails with domain.ErrAlreadyInitialized
// if the record exists.
func (e *Engine) InitSellAccount(stockID, participantID string) (*domain.Order, error) {
	return e.initAccount(stockID, participantID, domain.SideSell, e.sellCapacity)
}

// InitBuyAccount creates the empty buy-side order record for a
// (stock, participant) pair. Fails with domain.ErrAlreadyInitialized
// if the record exists.
func (e *Engine) InitBuyAccount(stockID, participantID string) (*domain.Order, error) {
	return e.initAccount(stockID, participantID, domain.SideBuy, e.buyCapacity)
}

func (e *Engine) initAccount(stockID, participantID string, side domain.Side, capacity int) (*domain.Order, error) {
	if _, err := e.ledger.GetStock(stockID); err != nil {
		return nil, err
	}

	o := &domain.Order{
		StockID:       stockID,
		ParticipantID: participantID,
		Side:          side,
		Levels:        make([]domain.PriceLevel, 0, capacity),
		Capacity:      capacity,
		CreatedAt:     e.now(),
	}
	if err := e.orders.Create(o); err != nil {
		return nil, err
	}
	return o, nil
}

// PlaceOffer rests a new price level on the participant's order record.
// Each price is a single slot: a level at the same price fails with
// domain.ErrDuplicatePriceLevel, and a full record fails with
// domain.ErrCapacityExceeded. The sell side does not escrow the
// participant's balance at placement; balances are checked at acceptance.
func (e *Engine) PlaceOffer(stockID, participantID string, side domain.Side, price, amount int64) (*domain.Order, error) {
	if price <= 0 || amount <= 0 {
		return nil, domain.ErrInvalidParameters
	}

	lock := e.bookLock(stockID)
	lock.Lock()
	defer lock.Unlock()

	o, err := e.orders.Get(stockID, participantID, side)
	if err != nil {
		return nil, err
	}
	if o.LevelIndex(price) >= 0 {
		return nil, domain.ErrDuplicatePriceLevel
	}
	if len(o.Levels) >= o.Capacity {
		return nil, domain.ErrCapacityExceeded
	}

	if err := e.ledger.RegisterOffer(); err != nil {
		return nil, err
	}
	o.Levels = append(o.Levels, domain.PriceLevel{Price: price, Amount: amount})
	e.depth.Upsert(stockID, side, participantID, price, amount)
	return o, nil
}

// CancelOffer removes the price level matching price from the
// participant's order record. Fails with domain.ErrOrderNotFound when
// no level at that price exists. A cancel that loses a race against an
// acceptance observes the same error.
func (e *Engine) CancelOffer(stockID, participantID string, side domain.Side, price int64) (*domain.Order, error) {
	lock := e.bookLock(stockID)
	lock.Lock()
	defer lock.Unlock()

	o, err := e.orders.Get(stockID, participantID, side)
	if err != nil {
		return nil, err
	}
	i := o.LevelIndex(price)
	if i < 0 {
		return nil, domain.ErrOrderNotFound
	}

	o.RemoveLevelAt(i)
	e.depth.Remove(stockID, side, participantID, price)
	return o, nil
}

// FindLevel returns the resting level at the given price, if present.
func (e *Engine) FindLevel(stockID, participantID string, side domain.Side, price int64) (domain.PriceLevel, bool) {
	lock := e.bookLock(stockID)
	lock.RLock()
	defer lock.RUnlock()

	o, err := e.orders.Get(stockID, participantID, side)
	if err != nil {
		return domain.PriceLevel{}, false
	}
	return o.FindLevel(price)
}

// GetOrder retrieves the order record for a (stock, participant, side).
// The returned record's levels are copied so callers see a consistent
// snapshot.
func (e *Engine) GetOrder(stockID, participantID string, side domain.Side) (*domain.Order, error) {
	lock := e.bookLock(stockID)
	lock.RLock()
	defer lock.RUnlock()

	o, err := e.orders.Get(stockID, participantID, side)
	if err != nil {
		return nil, err
	}
	cp := *o
	cp.Levels = make([]domain.PriceLevel, len(o.Levels))
	copy(cp.Levels, o.Levels)
	return &cp, nil
}

// Depth returns up to n aggregated market-wide price levels for a side
// of the stock's book.
func (e *Engine) Depth(stockID string, side domain.Side, n int) []AggregatedLevel {
	return e.depth.Top(stockID, side, n)
}
