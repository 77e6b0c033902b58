package store

import (
	"sync"
	"time"

	"github.com/equibook/equibook/internal/domain"
)

// ExchangeStore holds the singleton exchange counter record. Bootstrap
// creates it exactly once; all counter mutations go through Mutate so
// that no caller observes a partially applied update.
type ExchangeStore struct {
	mu       sync.RWMutex
	exchange *domain.Exchange
}

// NewExchangeStore creates an empty ExchangeStore.
func NewExchangeStore() *ExchangeStore {
	return &ExchangeStore{}
}

// Bootstrap creates the singleton record with all counters at zero.
// It returns domain.ErrAlreadyInitialized if called twice.
func (s *ExchangeStore) Bootstrap() (*domain.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exchange != nil {
		return nil, domain.ErrAlreadyInitialized
	}
	s.exchange = &domain.Exchange{CreatedAt: time.Now()}
	return s.snapshotLocked(), nil
}

// Get returns a snapshot of the exchange record. It returns
// domain.ErrExchangeNotInitialized before bootstrap.
func (s *ExchangeStore) Get() (*domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.exchange == nil {
		return nil, domain.ErrExchangeNotInitialized
	}
	return s.snapshotLocked(), nil
}

// Mutate applies fn to the exchange record under the write lock. It
// returns domain.ErrExchangeNotInitialized before bootstrap.
func (s *ExchangeStore) Mutate(fn func(*domain.Exchange)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exchange == nil {
		return domain.ErrExchangeNotInitialized
	}
	fn(s.exchange)
	return nil
}

// snapshotLocked copies the record so callers cannot mutate shared state.
// Callers must hold at least the read lock.
func (s *ExchangeStore) snapshotLocked() *domain.Exchange {
	cp := *s.exchange
	return &cp
}
