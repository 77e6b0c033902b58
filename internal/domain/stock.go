package domain

import (
	"sync"
	"time"
)

// Stock is the per-stock issuance record: total supply, supply still
// available for primary (IPO) allocation, and the IPO terms.
//
// Name and TotalSupply are immutable after creation. The invariant
// 0 <= SupplyAvailable <= TotalSupply holds at all times, and together
// with holder balances the supply-conservation law:
//
//	SupplyAvailable + sum(holder.Participation) == TotalSupply
type Stock struct {
	StockID         string
	Name            string
	TotalSupply     int64
	SupplyAvailable int64
	Dividends       bool
	DividendPeriod  time.Duration
	IPODate         time.Time
	IPOPrice        int64
	HolderCount     int64
	CreatedAt       time.Time
	Mu              sync.Mutex // per-stock lock for supply and holder-count mutations
}

// IPOOpen reports whether primary allocation is still open at the given
// instant. Purchases are permitted strictly before the go-public date.
func (s *Stock) IPOOpen(now time.Time) bool {
	return now.Before(s.IPODate)
}
