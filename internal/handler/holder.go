package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/service"
)

// HolderHandler handles HTTP requests for holder endpoints.
type HolderHandler struct {
	holderSvc *service.HolderService
}

// NewHolderHandler creates a new HolderHandler.
func NewHolderHandler(holderSvc *service.HolderService) *HolderHandler {
	return &HolderHandler{holderSvc: holderSvc}
}

// initHolderRequest is the JSON request for POST /stocks/{stock_id}/holders.
type initHolderRequest struct {
	ParticipantID string `json:"participant_id"`
}

// holderResponse is the JSON shape for a holder record.
type holderResponse struct {
	StockID       string `json:"stock_id"`
	ParticipantID string `json:"participant_id"`
	Participation int64  `json:"participation"`
	CreatedAt     string `json:"created_at"`
}

func toHolderResponse(h *domain.Holder) holderResponse {
	return holderResponse{
		StockID:       h.StockID,
		ParticipantID: h.ParticipantID,
		Participation: h.Participation,
		CreatedAt:     h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Init handles POST /stocks/{stock_id}/holders.
func (h *HolderHandler) Init(w http.ResponseWriter, r *http.Request) {
	var req initHolderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	holder, err := h.holderSvc.InitHolder(chi.URLParam(r, "stock_id"), req.ParticipantID)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toHolderResponse(holder))
}

// GetBalance handles GET /stocks/{stock_id}/holders/{participant_id}.
func (h *HolderHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	holder, err := h.holderSvc.GetBalance(
		chi.URLParam(r, "stock_id"),
		chi.URLParam(r, "participant_id"),
	)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toHolderResponse(holder))
}

// buyInIPORequest is the JSON request for the IPO purchase endpoint.
type buyInIPORequest struct {
	Amount int64 `json:"amount"`
}

// BuyInIPO handles POST /stocks/{stock_id}/holders/{participant_id}/ipo.
func (h *HolderHandler) BuyInIPO(w http.ResponseWriter, r *http.Request) {
	var req buyInIPORequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	holder, err := h.holderSvc.BuyInIPO(
		chi.URLParam(r, "stock_id"),
		chi.URLParam(r, "participant_id"),
		req.Amount,
	)
	if err != nil {
		MapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toHolderResponse(holder))
}
