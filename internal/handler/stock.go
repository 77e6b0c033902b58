package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/service"
)

// StockHandler handles HTTP requests for stock endpoints.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// createStockRequest is the JSON request for POST /stocks.
type createStockRequest struct {
	Name           string `json:"name"`
	TotalSupply    int64  `json:"total_supply"`
	Dividends      bool   `json:"dividends"`
	DividendPeriod string `json:"dividend_period"` // Go duration string, e.g. "720h"
	IPODate        string `json:"ipo_date"`        // RFC3339
	IPOPrice       int64  `json:"ipo_price"`
}

// stockResponse is the JSON shape for a stock record.
type stockResponse struct {
	StockID         string `json:"stock_id"`
	Name            string `json:"name"`
	TotalSupply     int64  `json:"total_supply"`
	SupplyAvailable int64  `json:"supply_available"`
	Dividends       bool   `json:"dividends"`
	DividendPeriod  string `json:"dividend_period"`
	IPODate         string `json:"ipo_date"`
	IPOPrice        int64  `json:"ipo_price"`
	HolderCount     int64  `json:"holder_count"`
	CreatedAt       string `json:"created_at"`
}

func toStockResponse(st *domain.Stock) stockResponse {
	return stockResponse{
		StockID:         st.StockID,
		Name:            st.Name,
		TotalSupply:     st.TotalSupply,
		SupplyAvailable: st.SupplyAvailable,
		Dividends:       st.Dividends,
		DividendPeriod:  st.DividendPeriod.String(),
		IPODate:         st.IPODate.UTC().Format(time.RFC3339),
		IPOPrice:        st.IPOPrice,
		HolderCount:     st.HolderCount,
		CreatedAt:       st.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /stocks.
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	ipoDate, err := time.Parse(time.RFC3339, req.IPODate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "ipo_date must be an RFC3339 timestamp")
		return
	}

	var period time.Duration
	if req.DividendPeriod != "" {
		period, err = time.ParseDuration(req.DividendPeriod)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "dividend_period must be a valid duration")
			return
		}
	}

	st, err := h.stockSvc.CreateStock(service.CreateStockRequest{
		Name:           req.Name,
		TotalSupply:    req.TotalSupply,
		Dividends:      req.Dividends,
		DividendPeriod: period,
		IPODate:        ipoDate,
		IPOPrice:       req.IPOPrice,
	})
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toStockResponse(st))
}

// List handles GET /stocks.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	stocks := h.stockSvc.ListStocks()
	resp := make([]stockResponse, len(stocks))
	for i, st := range stocks {
		resp[i] = toStockResponse(st)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /stocks/{stock_id}.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.stockSvc.GetStock(chi.URLParam(r, "stock_id"))
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toStockResponse(st))
}

// bookLevelResponse is a single aggregated price level in the book response.
type bookLevelResponse struct {
	Price       int64 `json:"price"`
	TotalAmount int64 `json:"total_amount"`
	OfferCount  int   `json:"offer_count"`
}

// bookResponse is the JSON response for GET /stocks/{stock_id}/book.
type bookResponse struct {
	StockID    string              `json:"stock_id"`
	Sells      []bookLevelResponse `json:"sells"`
	Buys       []bookLevelResponse `json:"buys"`
	SnapshotAt string              `json:"snapshot_at"`
}

// GetBook handles GET /stocks/{stock_id}/book.
func (h *StockHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	stockID := chi.URLParam(r, "stock_id")

	depth := 10
	if d := r.URL.Query().Get("depth"); d != "" {
		var err error
		depth, err = strconv.Atoi(d)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "depth must be a valid integer")
			return
		}
	}

	book, err := h.stockSvc.GetBook(stockID, depth)
	if err != nil {
		MapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, bookResponse{
		StockID:    book.StockID,
		Sells:      toBookLevelResponses(book.Sells),
		Buys:       toBookLevelResponses(book.Buys),
		SnapshotAt: book.SnapshotAt.UTC().Format(time.RFC3339),
	})
}

func toBookLevelResponses(levels []service.BookLevel) []bookLevelResponse {
	out := make([]bookLevelResponse, len(levels))
	for i, l := range levels {
		out[i] = bookLevelResponse{
			Price:       l.Price,
			TotalAmount: l.TotalAmount,
			OfferCount:  l.OfferCount,
		}
	}
	return out
}
