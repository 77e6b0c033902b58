package domain

import "time"

// Exchange is the process-wide counter record for the whole exchange.
// There is exactly one, created by the bootstrap operation. All counters
// are monotonically non-decreasing.
type Exchange struct {
	TotalStockCompanies int64
	HistoricalExchanges int64
	TotalHolders        int64
	TotalOffers         int64
	CreatedAt           time.Time
}
