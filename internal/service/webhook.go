package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/store"
)

// Valid webhook event types.
var validWebhookEvents = map[string]bool{
	"trade.executed":  true,
	"offer.cancelled": true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	ParticipantID string
	URL           string
	Events        []string
}

// WebhookService handles webhook CRUD and event dispatch.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(webhookStore *store.WebhookStore, timeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Upsert validates the request and creates or updates webhook
// subscriptions. Returns the resulting webhooks, whether any new
// subscriptions were created, and any error.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if !participantIDRegex.MatchString(req.ParticipantID) {
		return nil, false, &domain.ValidationError{
			Message: "participant_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	dedupedEvents := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event + ". Must be one of: trade.executed, offer.cancelled",
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID:     uuid.New().String(),
			ParticipantID: req.ParticipantID,
			Event:         event,
			URL:           req.URL,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if s.store.Upsert(w) {
			anyCreated = true
		} else {
			w = s.store.GetByParticipantEvent(req.ParticipantID, event)
		}
		if w != nil {
			webhooks = append(webhooks, w)
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all webhook subscriptions for a participant.
func (s *WebhookService) List(participantID string) []*domain.Webhook {
	return s.store.ListByParticipant(participantID)
}

// Delete removes a webhook subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// tradeExecutedPayload is the JSON payload for trade.executed webhooks.
type tradeExecutedPayload struct {
	Event     string            `json:"event"`
	Timestamp string            `json:"timestamp"`
	Data      tradeExecutedData `json:"data"`
}

type tradeExecutedData struct {
	TradeID  string `json:"trade_id"`
	StockID  string `json:"stock_id"`
	SellerID string `json:"seller_id"`
	BuyerID  string `json:"buyer_id"`
	Side     string `json:"side"`
	Price    int64  `json:"price"`
	Amount   int64  `json:"amount"`
}

// offerCancelledPayload is the JSON payload for offer.cancelled webhooks.
type offerCancelledPayload struct {
	Event     string             `json:"event"`
	Timestamp string             `json:"timestamp"`
	Data      offerCancelledData `json:"data"`
}

type offerCancelledData struct {
	ParticipantID string `json:"participant_id"`
	StockID       string `json:"stock_id"`
	Side          string `json:"side"`
	Price         int64  `json:"price"`
}

// DispatchTradeExecuted dispatches a trade.executed notification to the
// given participant. Fire-and-forget — errors are silently ignored.
func (s *WebhookService) DispatchTradeExecuted(participantID string, t *domain.Trade) {
	wh := s.store.GetByParticipantEvent(participantID, "trade.executed")
	if wh == nil {
		return
	}

	payload := tradeExecutedPayload{
		Event:     "trade.executed",
		Timestamp: t.ExecutedAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: tradeExecutedData{
			TradeID:  t.TradeID,
			StockID:  t.StockID,
			SellerID: t.SellerID,
			BuyerID:  t.BuyerID,
			Side:     string(t.Side),
			Price:    t.Price,
			Amount:   t.Amount,
		},
	}

	go s.deliver(wh, "trade.executed", payload)
}

// DispatchOfferCancelled dispatches an offer.cancelled notification to
// the offer's owner. Fire-and-forget.
func (s *WebhookService) DispatchOfferCancelled(participantID, stockID string, side domain.Side, price int64) {
	wh := s.store.GetByParticipantEvent(participantID, "offer.cancelled")
	if wh == nil {
		return
	}

	payload := offerCancelledPayload{
		Event:     "offer.cancelled",
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: offerCancelledData{
			ParticipantID: participantID,
			StockID:       stockID,
			Side:          string(side),
			Price:         price,
		},
	}

	go s.deliver(wh, "offer.cancelled", payload)
}

// deliver sends the webhook payload via HTTP POST with the required
// headers. Errors are silently ignored (fire-and-forget).
func (s *WebhookService) deliver(wh *domain.Webhook, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
