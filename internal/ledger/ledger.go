// Package ledger implements the issuance side of the exchange: the
// global counter record, per-stock supply, and per-holder balances.
// Every operation is a single atomic transition; a validation failure
// leaves no partial mutation behind.
package ledger

import (
	"time"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/store"
)

// Ledger owns the exchange, stock, and holder records and the
// transitions between them.
type Ledger struct {
	exchange *store.ExchangeStore
	stocks   *store.StockStore
	holders  *store.HolderStore
	keys     domain.Keyer

	// now is swappable in tests that exercise the IPO cutover.
	now func() time.Time
}

// NewLedger creates a Ledger over the given stores.
func NewLedger(
	exchange *store.ExchangeStore,
	stocks *store.StockStore,
	holders *store.HolderStore,
	keys domain.Keyer,
) *Ledger {
	return &Ledger{
		exchange: exchange,
		stocks:   stocks,
		holders:  holders,
		keys:     keys,
		now:      time.Now,
	}
}

// Bootstrap creates the singleton exchange record with all counters at
// zero. It fails with domain.ErrAlreadyInitialized on a second call.
func (l *Ledger) Bootstrap() (*domain.Exchange, error) {
	return l.exchange.Bootstrap()
}

// Exchange returns a snapshot of the exchange counter record.
func (l *Ledger) Exchange() (*domain.Exchange, error) {
	return l.exchange.Get()
}

// registerStock increments the exchange's stock-company counter.
func (l *Ledger) registerStock() error {
	return l.exchange.Mutate(func(e *domain.Exchange) {
		e.TotalStockCompanies++
	})
}

// registerHolder increments the exchange's holder counter.
func (l *Ledger) registerHolder() error {
	return l.exchange.Mutate(func(e *domain.Exchange) {
		e.TotalHolders++
	})
}

// RegisterOffer increments the exchange's offer counter. Called once
// per offer placed on any order book.
func (l *Ledger) RegisterOffer() error {
	return l.exchange.Mutate(func(e *domain.Exchange) {
		e.TotalOffers++
	})
}

// RecordExchange increments the historical exchange counter. Called
// once per completed acceptance.
func (l *Ledger) RecordExchange() error {
	return l.exchange.Mutate(func(e *domain.Exchange) {
		e.HistoricalExchanges++
	})
}
