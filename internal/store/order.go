package store

import (
	"sync"

	"github.com/equibook/equibook/internal/domain"
)

// OrderStore is a thread-safe in-memory store for order records, keyed
// by the derived (stock, participant, side) key.
type OrderStore struct {
	mu     sync.RWMutex
	keys   domain.Keyer
	orders map[string]*domain.Order
}

// NewOrderStore creates an empty OrderStore using the given key derivation.
func NewOrderStore(keys domain.Keyer) *OrderStore {
	return &OrderStore{
		keys:   keys,
		orders: make(map[string]*domain.Order),
	}
}

// Create adds an order record. It returns domain.ErrAlreadyInitialized
// if a record for this (stock, participant, side) already exists.
func (s *OrderStore) Create(o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.keys.OrderKey(o.StockID, o.ParticipantID, o.Side)
	if _, exists := s.orders[key]; exists {
		return domain.ErrAlreadyInitialized
	}
	s.orders[key] = o
	return nil
}

// Get retrieves an order record. It returns domain.ErrOrderNotFound
// if no record exists for the triple.
func (s *OrderStore) Get(stockID, participantID string, side domain.Side) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[s.keys.OrderKey(stockID, participantID, side)]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}
