package service

import (
	"regexp"
	"time"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/engine"
	"github.com/equibook/equibook/internal/ledger"
)

var stockNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 .&-]{0,63}$`)

// CreateStockRequest represents the input for stock issuance.
type CreateStockRequest struct {
	Name           string
	TotalSupply    int64
	Dividends      bool
	DividendPeriod time.Duration
	IPODate        time.Time
	IPOPrice       int64
}

// BookLevel is one aggregated price level in the book response.
type BookLevel struct {
	Price       int64
	TotalAmount int64
	OfferCount  int
}

// BookResponse is the market-wide book view for one stock.
type BookResponse struct {
	StockID    string
	Sells      []BookLevel
	Buys       []BookLevel
	SnapshotAt time.Time
}

// StockService handles stock issuance and book queries.
type StockService struct {
	ledger *ledger.Ledger
	engine *engine.Engine
}

// NewStockService creates a new StockService.
func NewStockService(l *ledger.Ledger, e *engine.Engine) *StockService {
	return &StockService{ledger: l, engine: e}
}

// CreateStock validates the issuance terms and creates the stock with
// its full supply available for primary allocation.
func (s *StockService) CreateStock(req CreateStockRequest) (*domain.Stock, error) {
	if !stockNameRegex.MatchString(req.Name) {
		return nil, &domain.ValidationError{
			Message: "name must be 1-64 characters: letters, digits, spaces, '.', '&', '-'",
		}
	}
	if req.TotalSupply <= 0 {
		return nil, &domain.ValidationError{
			Message: "total_supply must be a positive integer",
		}
	}
	if req.IPOPrice <= 0 {
		return nil, &domain.ValidationError{
			Message: "ipo_price must be a positive integer",
		}
	}
	if req.Dividends && req.DividendPeriod <= 0 {
		return nil, &domain.ValidationError{
			Message: "dividend_period must be positive when dividends are enabled",
		}
	}
	if !req.IPODate.After(time.Now()) {
		return nil, &domain.ValidationError{
			Message: "ipo_date must be a future timestamp",
		}
	}

	return s.ledger.CreateStock(ledger.CreateStockParams{
		Name:           req.Name,
		TotalSupply:    req.TotalSupply,
		Dividends:      req.Dividends,
		DividendPeriod: req.DividendPeriod,
		IPODate:        req.IPODate,
		IPOPrice:       req.IPOPrice,
	})
}

// GetStock retrieves a stock record by ID.
func (s *StockService) GetStock(stockID string) (*domain.Stock, error) {
	return s.ledger.GetStock(stockID)
}

// ListStocks returns all issued stocks.
func (s *StockService) ListStocks() []*domain.Stock {
	return s.ledger.ListStocks()
}

// GetBook returns the top N aggregated price levels on both sides of
// the stock's market-wide book.
func (s *StockService) GetBook(stockID string, depth int) (*BookResponse, error) {
	if _, err := s.ledger.GetStock(stockID); err != nil {
		return nil, err
	}
	if depth < 1 || depth > 50 {
		return nil, &domain.ValidationError{
			Message: "depth must be between 1 and 50",
		}
	}

	sells := toBookLevels(s.engine.Depth(stockID, domain.SideSell, depth))
	buys := toBookLevels(s.engine.Depth(stockID, domain.SideBuy, depth))

	return &BookResponse{
		StockID:    stockID,
		Sells:      sells,
		Buys:       buys,
		SnapshotAt: time.Now(),
	}, nil
}

func toBookLevels(levels []engine.AggregatedLevel) []BookLevel {
	out := make([]BookLevel, len(levels))
	for i, l := range levels {
		out[i] = BookLevel{
			Price:       l.Price,
			TotalAmount: l.TotalAmount,
			OfferCount:  l.OfferCount,
		}
	}
	return out
}
