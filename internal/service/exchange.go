package service

import (
	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/ledger"
)

// ExchangeService handles exchange bootstrap and counter queries.
type ExchangeService struct {
	ledger *ledger.Ledger
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(l *ledger.Ledger) *ExchangeService {
	return &ExchangeService{ledger: l}
}

// Bootstrap creates the singleton exchange record. A second call fails
// with domain.ErrAlreadyInitialized.
func (s *ExchangeService) Bootstrap() (*domain.Exchange, error) {
	return s.ledger.Bootstrap()
}

// Stats returns a snapshot of the exchange counters.
func (s *ExchangeService) Stats() (*domain.Exchange, error) {
	return s.ledger.Exchange()
}
