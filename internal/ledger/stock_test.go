package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/store"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	keys := domain.PathKeyer{}
	l := NewLedger(
		store.NewExchangeStore(),
		store.NewStockStore(keys),
		store.NewHolderStore(keys),
		keys,
	)
	if _, err := l.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return l
}

func validStockParams() CreateStockParams {
	return CreateStockParams{
		Name:        "Acme Corp",
		TotalSupply: 1_000_000,
		IPODate:     time.Now().Add(24 * time.Hour),
		IPOPrice:    100,
	}
}

func TestLedger_CreateStock(t *testing.T) {
	l := newTestLedger(t)

	st, err := l.CreateStock(validStockParams())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if st.StockID == "" {
		t.Fatal("expected a generated stock_id")
	}
	if st.SupplyAvailable != st.TotalSupply {
		t.Fatalf("expected full supply available, got %d", st.SupplyAvailable)
	}

	got, err := l.GetStock(st.StockID)
	if err != nil {
		t.Fatalf("expected stock to be retrievable, got %v", err)
	}
	if got.Name != "Acme Corp" {
		t.Fatalf("unexpected name %s", got.Name)
	}

	e, err := l.Exchange()
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if e.TotalStockCompanies != 1 {
		t.Fatalf("expected total_stock_companies=1, got %d", e.TotalStockCompanies)
	}
}

func TestLedger_CreateStock_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateStockParams)
	}{
		{"empty name", func(p *CreateStockParams) { p.Name = "" }},
		{"zero supply", func(p *CreateStockParams) { p.TotalSupply = 0 }},
		{"negative supply", func(p *CreateStockParams) { p.TotalSupply = -1 }},
		{"zero price", func(p *CreateStockParams) { p.IPOPrice = 0 }},
		{"negative price", func(p *CreateStockParams) { p.IPOPrice = -5 }},
		{"past ipo date", func(p *CreateStockParams) { p.IPODate = time.Now().Add(-time.Hour) }},
		{"dividends without period", func(p *CreateStockParams) { p.Dividends = true; p.DividendPeriod = 0 }},
	}

	l := newTestLedger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validStockParams()
			tt.mutate(&p)

			if _, err := l.CreateStock(p); !errors.Is(err, domain.ErrInvalidParameters) {
				t.Fatalf("expected ErrInvalidParameters, got %v", err)
			}
		})
	}

	// Failed attempts must not bump the counter.
	e, err := l.Exchange()
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if e.TotalStockCompanies != 0 {
		t.Fatalf("expected total_stock_companies=0, got %d", e.TotalStockCompanies)
	}
}

func TestLedger_CreateStock_RequiresBootstrap(t *testing.T) {
	keys := domain.PathKeyer{}
	l := NewLedger(
		store.NewExchangeStore(),
		store.NewStockStore(keys),
		store.NewHolderStore(keys),
		keys,
	)

	if _, err := l.CreateStock(validStockParams()); !errors.Is(err, domain.ErrExchangeNotInitialized) {
		t.Fatalf("expected ErrExchangeNotInitialized, got %v", err)
	}
}

func TestLedger_CreateStock_WithDividends(t *testing.T) {
	l := newTestLedger(t)

	p := validStockParams()
	p.Dividends = true
	p.DividendPeriod = 90 * 24 * time.Hour

	st, err := l.CreateStock(p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !st.Dividends || st.DividendPeriod != p.DividendPeriod {
		t.Fatal("expected dividend terms to be recorded")
	}
}
