package store

import (
	"sync"

	"github.com/equibook/equibook/internal/domain"
)

// HolderStore is a thread-safe in-memory store for holder balance
// records, keyed by the derived (stock, participant) key.
type HolderStore struct {
	mu      sync.RWMutex
	keys    domain.Keyer
	holders map[string]*domain.Holder
}

// NewHolderStore creates an empty HolderStore using the given key derivation.
func NewHolderStore(keys domain.Keyer) *HolderStore {
	return &HolderStore{
		keys:    keys,
		holders: make(map[string]*domain.Holder),
	}
}

// Create adds a holder record. It returns domain.ErrAlreadyInitialized
// if a record for this (stock, participant) pair already exists.
func (s *HolderStore) Create(h *domain.Holder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.keys.HolderKey(h.StockID, h.ParticipantID)
	if _, exists := s.holders[key]; exists {
		return domain.ErrAlreadyInitialized
	}
	s.holders[key] = h
	return nil
}

// Get retrieves a holder record. It returns domain.ErrHolderNotFound
// if no record exists for the pair.
func (s *HolderStore) Get(stockID, participantID string) (*domain.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.holders[s.keys.HolderKey(stockID, participantID)]
	if !ok {
		return nil, domain.ErrHolderNotFound
	}
	return h, nil
}

// Exists returns true if a holder record exists for the pair.
func (s *HolderStore) Exists(stockID, participantID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.holders[s.keys.HolderKey(stockID, participantID)]
	return ok
}

// ListByStock returns all holder records for a stock. Order is unspecified.
func (s *HolderStore) ListByStock(stockID string) []*domain.Holder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Holder, 0)
	for _, h := range s.holders {
		if h.StockID == stockID {
			result = append(result, h)
		}
	}
	return result
}
