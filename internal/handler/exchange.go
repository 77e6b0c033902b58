package handler

import (
	"net/http"
	"time"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/service"
)

// ExchangeHandler handles HTTP requests for exchange-level endpoints.
type ExchangeHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeSvc *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeSvc: exchangeSvc}
}

// exchangeResponse is the JSON shape for the exchange counter record.
type exchangeResponse struct {
	TotalStockCompanies int64  `json:"total_stock_companies"`
	HistoricalExchanges int64  `json:"historical_exchanges"`
	TotalHolders        int64  `json:"total_holders"`
	TotalOffers         int64  `json:"total_offers"`
	CreatedAt           string `json:"created_at"`
}

func toExchangeResponse(e *domain.Exchange) exchangeResponse {
	return exchangeResponse{
		TotalStockCompanies: e.TotalStockCompanies,
		HistoricalExchanges: e.HistoricalExchanges,
		TotalHolders:        e.TotalHolders,
		TotalOffers:         e.TotalOffers,
		CreatedAt:           e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Bootstrap handles POST /exchange/bootstrap.
func (h *ExchangeHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	e, err := h.exchangeSvc.Bootstrap()
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toExchangeResponse(e))
}

// Stats handles GET /exchange/stats.
func (h *ExchangeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	e, err := h.exchangeSvc.Stats()
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toExchangeResponse(e))
}
