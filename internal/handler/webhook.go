package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/service"
)

// WebhookHandler handles HTTP requests for webhook endpoints.
type WebhookHandler struct {
	webhookSvc *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// upsertWebhookRequest is the JSON request for POST /webhooks.
type upsertWebhookRequest struct {
	ParticipantID string   `json:"participant_id"`
	URL           string   `json:"url"`
	Events        []string `json:"events"`
}

// webhookResponse is the JSON shape for a webhook subscription.
type webhookResponse struct {
	WebhookID     string `json:"webhook_id"`
	ParticipantID string `json:"participant_id"`
	Event         string `json:"event"`
	URL           string `json:"url"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toWebhookResponse(w *domain.Webhook) webhookResponse {
	return webhookResponse{
		WebhookID:     w.WebhookID,
		ParticipantID: w.ParticipantID,
		Event:         w.Event,
		URL:           w.URL,
		CreatedAt:     w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Upsert handles POST /webhooks.
func (h *WebhookHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertWebhookRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	webhooks, created, err := h.webhookSvc.Upsert(service.UpsertWebhookRequest{
		ParticipantID: req.ParticipantID,
		URL:           req.URL,
		Events:        req.Events,
	})
	if err != nil {
		MapDomainError(w, err)
		return
	}

	resp := make([]webhookResponse, len(webhooks))
	for i, wh := range webhooks {
		resp[i] = toWebhookResponse(wh)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, resp)
}

// List handles GET /webhooks?participant_id=....
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "participant_id query parameter is required")
		return
	}

	webhooks := h.webhookSvc.List(participantID)
	resp := make([]webhookResponse, len(webhooks))
	for i, wh := range webhooks {
		resp[i] = toWebhookResponse(wh)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /webhooks/{webhook_id}.
func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.webhookSvc.Delete(chi.URLParam(r, "webhook_id")); err != nil {
		MapDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
