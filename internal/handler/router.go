package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/equibook/equibook/internal/metrics"
	"github.com/equibook/equibook/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, metrics, and Content-Type validation middleware.
func NewRouter(
	exchangeSvc *service.ExchangeService,
	stockSvc *service.StockService,
	holderSvc *service.HolderService,
	orderSvc *service.OrderService,
	webhookSvc *service.WebhookService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(metrics.Middleware)
	r.Use(contentTypeJSON)

	// Create handlers.
	exchangeH := NewExchangeHandler(exchangeSvc)
	stockH := NewStockHandler(stockSvc)
	holderH := NewHolderHandler(holderSvc)
	orderH := NewOrderHandler(orderSvc)
	webhookH := NewWebhookHandler(webhookSvc)

	// Health check and metrics.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Exchange routes.
	r.Post("/exchange/bootstrap", exchangeH.Bootstrap)
	r.Get("/exchange/stats", exchangeH.Stats)

	// Stock routes.
	r.Post("/stocks", stockH.Create)
	r.Get("/stocks", stockH.List)
	r.Get("/stocks/{stock_id}", stockH.Get)
	r.Get("/stocks/{stock_id}/book", stockH.GetBook)
	r.Get("/stocks/{stock_id}/trades", orderH.ListTrades)

	// Holder routes.
	r.Post("/stocks/{stock_id}/holders", holderH.Init)
	r.Get("/stocks/{stock_id}/holders/{participant_id}", holderH.GetBalance)
	r.Post("/stocks/{stock_id}/holders/{participant_id}/ipo", holderH.BuyInIPO)

	// Order routes.
	r.Post("/stocks/{stock_id}/orders", orderH.InitAccount)
	r.Get("/stocks/{stock_id}/orders/{participant_id}/{side}", orderH.GetOrder)
	r.Post("/stocks/{stock_id}/offers", orderH.PlaceOffer)
	r.Delete("/stocks/{stock_id}/offers", orderH.CancelOffer)
	r.Post("/stocks/{stock_id}/accepts", orderH.Accept)

	// Webhook routes.
	r.Post("/webhooks", webhookH.Upsert)
	r.Get("/webhooks", webhookH.List)
	r.Delete("/webhooks/{webhook_id}", webhookH.Delete)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST,
// PUT, PATCH, and DELETE requests that carry a body. If the Content-Type
// header doesn't start with "application/json", it returns 400 Bad
// Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if r.ContentLength == 0 {
				// Body-less POSTs (e.g. bootstrap) skip the check.
				break
			}
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
