// Package metrics provides Prometheus instrumentation for the exchange.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TradesTotal counts completed acceptances, partitioned by the side
	// of the book they consumed.
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equibook_trades_total",
		Help: "Total number of acceptances settled",
	}, []string{"side"})

	// TradeVolume tracks cumulative settled volume in shares.
	TradeVolume = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equibook_trade_volume_total",
		Help: "Cumulative settled volume in shares",
	}, []string{"side"})

	// IPOSharesTotal counts shares allocated through primary offerings.
	IPOSharesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equibook_ipo_shares_total",
		Help: "Shares allocated to holders through IPO purchases",
	})

	// OffersPlacedTotal counts offers placed, partitioned by side.
	OffersPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equibook_offers_placed_total",
		Help: "Total offers placed on order books",
	}, []string{"side"})

	// OffersCancelledTotal counts offers cancelled, partitioned by side.
	OffersCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equibook_offers_cancelled_total",
		Help: "Total offers cancelled from order books",
	}, []string{"side"})

	// StocksListed tracks the number of issued stocks.
	StocksListed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "equibook_stocks_listed",
		Help: "Number of stocks issued on the exchange",
	})

	// Holders tracks the number of holder accounts.
	Holders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "equibook_holders",
		Help: "Number of holder accounts across all stocks",
	})

	// RestingOffers tracks currently resting offers per side.
	RestingOffers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "equibook_resting_offers",
		Help: "Offers currently resting on order books",
	}, []string{"side"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equibook_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "equibook_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
