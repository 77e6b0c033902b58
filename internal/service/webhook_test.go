package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/store"
)

func newTestWebhookService() (*WebhookService, *store.WebhookStore) {
	ws := store.NewWebhookStore()
	svc := NewWebhookService(ws, 5*time.Second)
	return svc, ws
}

func TestWebhookUpsert_NewSubscriptions(t *testing.T) {
	svc, _ := newTestWebhookService()

	webhooks, created, err := svc.Upsert(UpsertWebhookRequest{
		ParticipantID: "alice",
		URL:           "https://example.com/hooks",
		Events:        []string{"trade.executed", "offer.cancelled"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for new subscriptions")
	}
	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(webhooks))
	}
	if webhooks[0].Event != "trade.executed" || webhooks[1].Event != "offer.cancelled" {
		t.Errorf("unexpected events %q, %q", webhooks[0].Event, webhooks[1].Event)
	}
}

func TestWebhookUpsert_UpdateExistingURL(t *testing.T) {
	svc, _ := newTestWebhookService()

	first, _, err := svc.Upsert(UpsertWebhookRequest{
		ParticipantID: "alice",
		URL:           "https://example.com/old",
		Events:        []string{"trade.executed"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, created, err := svc.Upsert(UpsertWebhookRequest{
		ParticipantID: "alice",
		URL:           "https://example.com/new",
		Events:        []string{"trade.executed"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for existing subscription")
	}
	if second[0].WebhookID != first[0].WebhookID {
		t.Error("expected webhook_id to remain stable across updates")
	}
	if second[0].URL != "https://example.com/new" {
		t.Errorf("got URL %q, want updated URL", second[0].URL)
	}
}

func TestWebhookUpsert_DeduplicatesEvents(t *testing.T) {
	svc, _ := newTestWebhookService()

	webhooks, _, err := svc.Upsert(UpsertWebhookRequest{
		ParticipantID: "alice",
		URL:           "https://example.com/hooks",
		Events:        []string{"trade.executed", "trade.executed"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(webhooks) != 1 {
		t.Fatalf("got %d webhooks, want 1", len(webhooks))
	}
}

func TestWebhookUpsert_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  UpsertWebhookRequest
	}{
		{"invalid participant", UpsertWebhookRequest{ParticipantID: "bad id!", URL: "https://example.com", Events: []string{"trade.executed"}}},
		{"missing url", UpsertWebhookRequest{ParticipantID: "alice", Events: []string{"trade.executed"}}},
		{"relative url", UpsertWebhookRequest{ParticipantID: "alice", URL: "/hooks", Events: []string{"trade.executed"}}},
		{"http scheme", UpsertWebhookRequest{ParticipantID: "alice", URL: "http://example.com", Events: []string{"trade.executed"}}},
		{"oversized url", UpsertWebhookRequest{ParticipantID: "alice", URL: "https://example.com/" + strings.Repeat("a", 2048), Events: []string{"trade.executed"}}},
		{"empty events", UpsertWebhookRequest{ParticipantID: "alice", URL: "https://example.com", Events: nil}},
		{"unknown event", UpsertWebhookRequest{ParticipantID: "alice", URL: "https://example.com", Events: []string{"stock.split"}}},
	}

	svc, _ := newTestWebhookService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Upsert(tt.req)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestWebhookListAndDelete(t *testing.T) {
	svc, _ := newTestWebhookService()

	webhooks, _, err := svc.Upsert(UpsertWebhookRequest{
		ParticipantID: "alice",
		URL:           "https://example.com/hooks",
		Events:        []string{"trade.executed", "offer.cancelled"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(svc.List("alice")); got != 2 {
		t.Fatalf("got %d webhooks, want 2", got)
	}

	if err := svc.Delete(webhooks[0].WebhookID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(webhooks[0].WebhookID); !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
	if got := len(svc.List("alice")); got != 1 {
		t.Fatalf("got %d webhooks, want 1", got)
	}
}

func TestDispatchTradeExecuted_Delivery(t *testing.T) {
	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc, ws := newTestWebhookService()

	// Scheme validation only applies at registration; point the stored
	// subscription at the local test server directly.
	now := time.Now()
	ws.Upsert(&domain.Webhook{
		WebhookID:     "wh-1",
		ParticipantID: "bob",
		Event:         "trade.executed",
		URL:           srv.URL,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	trade := &domain.Trade{
		TradeID:    "tr-1",
		StockID:    "s1",
		SellerID:   "alice",
		BuyerID:    "bob",
		Side:       domain.SideSell,
		Price:      120,
		Amount:     50,
		ExecutedAt: now,
	}
	svc.DispatchTradeExecuted("bob", trade)

	select {
	case r := <-received:
		if r.Header.Get("X-Webhook-Id") != "wh-1" {
			t.Errorf("got X-Webhook-Id %q, want wh-1", r.Header.Get("X-Webhook-Id"))
		}
		if r.Header.Get("X-Event-Type") != "trade.executed" {
			t.Errorf("got X-Event-Type %q", r.Header.Get("X-Event-Type"))
		}
		if r.Header.Get("X-Delivery-Id") == "" {
			t.Error("expected X-Delivery-Id to be set")
		}

		var payload tradeExecutedPayload
		if err := json.Unmarshal(<-bodies, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload.Event != "trade.executed" {
			t.Errorf("got event %q", payload.Event)
		}
		if payload.Data.TradeID != "tr-1" || payload.Data.Amount != 50 {
			t.Errorf("unexpected payload data %+v", payload.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook delivery timed out")
	}
}

func TestDispatchTradeExecuted_NoSubscription(t *testing.T) {
	svc, _ := newTestWebhookService()

	// No subscription registered; dispatch must be a silent no-op.
	svc.DispatchTradeExecuted("nobody", &domain.Trade{
		TradeID:    "tr-1",
		ExecutedAt: time.Now(),
	})
}

func TestDispatchOfferCancelled_Delivery(t *testing.T) {
	bodies := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc, ws := newTestWebhookService()
	now := time.Now()
	ws.Upsert(&domain.Webhook{
		WebhookID:     "wh-1",
		ParticipantID: "alice",
		Event:         "offer.cancelled",
		URL:           srv.URL,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	svc.DispatchOfferCancelled("alice", "s1", domain.SideSell, 120)

	select {
	case body := <-bodies:
		var payload offerCancelledPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload.Data.Price != 120 || payload.Data.Side != "sell" {
			t.Errorf("unexpected payload data %+v", payload.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook delivery timed out")
	}
}
