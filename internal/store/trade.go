package store

import (
	"sync"

	"github.com/equibook/equibook/internal/domain"
)

// TradeStore is a thread-safe in-memory store for settled trades,
// keyed by stock. Trades are append-only and chronological.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string][]*domain.Trade // stock_id → trades (chronological)
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[string][]*domain.Trade),
	}
}

// Append adds a trade to the stock's chronological list.
func (s *TradeStore) Append(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[t.StockID] = append(s.trades[t.StockID], t)
}

// GetByStock returns all trades for a stock in chronological order.
// Returns an empty slice if no trades exist for the stock.
func (s *TradeStore) GetByStock(stockID string) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := s.trades[stockID]
	if trades == nil {
		return []*domain.Trade{}
	}

	// Return a copy to avoid callers mutating the internal slice.
	result := make([]*domain.Trade, len(trades))
	copy(result, trades)
	return result
}
