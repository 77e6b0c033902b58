package engine

import (
	"context"
	"time"

	"github.com/equibook/equibook/internal/ledger"
	"github.com/equibook/equibook/internal/metrics"
)

// Sampler periodically refreshes the exchange-level gauges from the
// ledger counters and the depth index.
type Sampler struct {
	interval time.Duration
	ledger   *ledger.Ledger
	depth    *DepthIndex
}

// NewSampler creates a Sampler with the given interval.
func NewSampler(interval time.Duration, l *ledger.Ledger, depth *DepthIndex) *Sampler {
	return &Sampler{
		interval: interval,
		ledger:   l,
		depth:    depth,
	}
}

// Start launches a background goroutine that ticks at the configured
// interval and refreshes the gauges. It stops when ctx is cancelled.
func (s *Sampler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sample()
			}
		}
	}()
}

// sample reads the current counters and publishes them. Skipped before
// bootstrap, when there is nothing to report.
func (s *Sampler) sample() {
	ex, err := s.ledger.Exchange()
	if err != nil {
		return
	}

	metrics.StocksListed.Set(float64(ex.TotalStockCompanies))
	metrics.Holders.Set(float64(ex.TotalHolders))

	sells, buys := s.depth.RestingOffers()
	metrics.RestingOffers.WithLabelValues("sell").Set(float64(sells))
	metrics.RestingOffers.WithLabelValues("buy").Set(float64(buys))
}
