package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/service"
)

// OrderHandler handles HTTP requests for order-book endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// initOrderRequest is the JSON request for POST /stocks/{stock_id}/orders.
type initOrderRequest struct {
	ParticipantID string `json:"participant_id"`
	Side          string `json:"side"`
}

// priceLevelResponse is one resting level in an order response.
type priceLevelResponse struct {
	Price  int64 `json:"price"`
	Amount int64 `json:"amount"`
}

// orderResponse is the JSON shape for an order record.
type orderResponse struct {
	StockID       string               `json:"stock_id"`
	ParticipantID string               `json:"participant_id"`
	Side          string               `json:"side"`
	Levels        []priceLevelResponse `json:"levels"`
	Capacity      int                  `json:"capacity"`
	CreatedAt     string               `json:"created_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	levels := make([]priceLevelResponse, len(o.Levels))
	for i, l := range o.Levels {
		levels[i] = priceLevelResponse{Price: l.Price, Amount: l.Amount}
	}
	return orderResponse{
		StockID:       o.StockID,
		ParticipantID: o.ParticipantID,
		Side:          string(o.Side),
		Levels:        levels,
		Capacity:      o.Capacity,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// InitAccount handles POST /stocks/{stock_id}/orders.
func (h *OrderHandler) InitAccount(w http.ResponseWriter, r *http.Request) {
	var req initOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	side, err := service.ParseSide(req.Side)
	if err != nil {
		MapDomainError(w, err)
		return
	}

	o, err := h.orderSvc.InitOrderAccount(chi.URLParam(r, "stock_id"), req.ParticipantID, side)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toOrderResponse(o))
}

// GetOrder handles GET /stocks/{stock_id}/orders/{participant_id}/{side}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	side, err := service.ParseSide(chi.URLParam(r, "side"))
	if err != nil {
		MapDomainError(w, err)
		return
	}

	o, err := h.orderSvc.GetOrder(
		chi.URLParam(r, "stock_id"),
		chi.URLParam(r, "participant_id"),
		side,
	)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toOrderResponse(o))
}

// placeOfferRequest is the JSON request for POST /stocks/{stock_id}/offers.
type placeOfferRequest struct {
	ParticipantID string `json:"participant_id"`
	Side          string `json:"side"`
	Price         int64  `json:"price"`
	Amount        int64  `json:"amount"`
}

// PlaceOffer handles POST /stocks/{stock_id}/offers.
func (h *OrderHandler) PlaceOffer(w http.ResponseWriter, r *http.Request) {
	var req placeOfferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	side, err := service.ParseSide(req.Side)
	if err != nil {
		MapDomainError(w, err)
		return
	}

	o, err := h.orderSvc.PlaceOffer(chi.URLParam(r, "stock_id"), req.ParticipantID, side, req.Price, req.Amount)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toOrderResponse(o))
}

// cancelOfferRequest is the JSON request for DELETE /stocks/{stock_id}/offers.
type cancelOfferRequest struct {
	ParticipantID string `json:"participant_id"`
	Side          string `json:"side"`
	Price         int64  `json:"price"`
}

// CancelOffer handles DELETE /stocks/{stock_id}/offers.
func (h *OrderHandler) CancelOffer(w http.ResponseWriter, r *http.Request) {
	var req cancelOfferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	side, err := service.ParseSide(req.Side)
	if err != nil {
		MapDomainError(w, err)
		return
	}

	o, err := h.orderSvc.CancelOffer(chi.URLParam(r, "stock_id"), req.ParticipantID, side, req.Price)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toOrderResponse(o))
}

// acceptRequest is the JSON request for POST /stocks/{stock_id}/accepts.
type acceptRequest struct {
	Side     string `json:"side"`
	SellerID string `json:"seller_id"`
	BuyerID  string `json:"buyer_id"`
	Amount   int64  `json:"amount"`
}

// tradeResponse is the JSON shape for a settled trade.
type tradeResponse struct {
	TradeID    string `json:"trade_id"`
	StockID    string `json:"stock_id"`
	SellerID   string `json:"seller_id"`
	BuyerID    string `json:"buyer_id"`
	Side       string `json:"side"`
	Price      int64  `json:"price"`
	Amount     int64  `json:"amount"`
	ExecutedAt string `json:"executed_at"`
}

func toTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:    t.TradeID,
		StockID:    t.StockID,
		SellerID:   t.SellerID,
		BuyerID:    t.BuyerID,
		Side:       string(t.Side),
		Price:      t.Price,
		Amount:     t.Amount,
		ExecutedAt: t.ExecutedAt.UTC().Format(time.RFC3339),
	}
}

// Accept handles POST /stocks/{stock_id}/accepts.
func (h *OrderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	side, err := service.ParseSide(req.Side)
	if err != nil {
		MapDomainError(w, err)
		return
	}

	t, err := h.orderSvc.Accept(chi.URLParam(r, "stock_id"), service.AcceptRequest{
		Side:     side,
		SellerID: req.SellerID,
		BuyerID:  req.BuyerID,
		Amount:   req.Amount,
	})
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toTradeResponse(t))
}

// ListTrades handles GET /stocks/{stock_id}/trades.
func (h *OrderHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades := h.orderSvc.ListTrades(chi.URLParam(r, "stock_id"))
	resp := make([]tradeResponse, len(trades))
	for i, t := range trades {
		resp[i] = toTradeResponse(t)
	}
	WriteJSON(w, http.StatusOK, resp)
}
