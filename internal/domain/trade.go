package domain

import "time"

// Trade records one completed acceptance: a transfer of shares between
// two holders settled against a resting offer.
type Trade struct {
	TradeID    string
	StockID    string
	SellerID   string
	BuyerID    string
	Side       Side // which side's order book the acceptance consumed
	Price      int64
	Amount     int64
	ExecutedAt time.Time
}
