package store

import (
	"sync"

	"github.com/equibook/equibook/internal/domain"
)

// StockStore is a thread-safe in-memory store for stock issuance records,
// keyed by the derived stock key.
type StockStore struct {
	mu     sync.RWMutex
	keys   domain.Keyer
	stocks map[string]*domain.Stock
}

// NewStockStore creates an empty StockStore using the given key derivation.
func NewStockStore(keys domain.Keyer) *StockStore {
	return &StockStore{
		keys:   keys,
		stocks: make(map[string]*domain.Stock),
	}
}

// Create adds a stock record. It returns domain.ErrAlreadyInitialized
// if a record with the same derived key already exists.
func (s *StockStore) Create(st *domain.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.keys.StockKey(st.StockID)
	if _, exists := s.stocks[key]; exists {
		return domain.ErrAlreadyInitialized
	}
	s.stocks[key] = st
	return nil
}

// Get retrieves a stock by ID. It returns domain.ErrStockNotFound if
// the stock does not exist.
func (s *StockStore) Get(stockID string) (*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stocks[s.keys.StockKey(stockID)]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	return st, nil
}

// Exists returns true if a stock with the given ID exists.
func (s *StockStore) Exists(stockID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.stocks[s.keys.StockKey(stockID)]
	return ok
}

// List returns all stock records. Order is unspecified.
func (s *StockStore) List() []*domain.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Stock, 0, len(s.stocks))
	for _, st := range s.stocks {
		result = append(result, st)
	}
	return result
}
