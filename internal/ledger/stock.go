package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/equibook/equibook/internal/domain"
)

// CreateStockParams are the issuance terms for a new stock.
type CreateStockParams struct {
	Name           string
	TotalSupply    int64
	Dividends      bool
	DividendPeriod time.Duration
	IPODate        time.Time
	IPOPrice       int64
}

// CreateStock issues a new stock with the full supply available for
// primary allocation. TotalSupply and IPOPrice must be positive and
// IPODate must lie in the future relative to the call time; violations
// fail with domain.ErrInvalidParameters. The exchange must be
// bootstrapped first.
func (l *Ledger) CreateStock(p CreateStockParams) (*domain.Stock, error) {
	if _, err := l.exchange.Get(); err != nil {
		return nil, err
	}

	if p.Name == "" || p.TotalSupply <= 0 || p.IPOPrice <= 0 {
		return nil, domain.ErrInvalidParameters
	}
	if p.Dividends && p.DividendPeriod <= 0 {
		return nil, domain.ErrInvalidParameters
	}
	if !p.IPODate.After(l.now()) {
		return nil, domain.ErrInvalidParameters
	}

	st := &domain.Stock{
		StockID:         uuid.New().String(),
		Name:            p.Name,
		TotalSupply:     p.TotalSupply,
		SupplyAvailable: p.TotalSupply,
		Dividends:       p.Dividends,
		DividendPeriod:  p.DividendPeriod,
		IPODate:         p.IPODate,
		IPOPrice:        p.IPOPrice,
		CreatedAt:       l.now(),
	}

	if err := l.stocks.Create(st); err != nil {
		return nil, err
	}
	if err := l.registerStock(); err != nil {
		return nil, err
	}
	return st, nil
}

// GetStock retrieves a stock record by ID.
func (l *Ledger) GetStock(stockID string) (*domain.Stock, error) {
	return l.stocks.Get(stockID)
}

// ListStocks returns all stock records.
func (l *Ledger) ListStocks() []*domain.Stock {
	return l.stocks.List()
}

// allocateFromIPO moves amount shares out of the stock's unallocated
// supply. The caller must hold st.Mu. Fails with
// domain.ErrInsufficientSupply when the supply cannot cover the amount.
func allocateFromIPO(st *domain.Stock, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidParameters
	}
	if amount > st.SupplyAvailable {
		return domain.ErrInsufficientSupply
	}
	st.SupplyAvailable -= amount
	return nil
}
