package domain

import "time"

// Side indicates whether an order record holds resting sell offers or
// resting buy offers.
type Side string

const (
	SideSell Side = "sell"
	SideBuy  Side = "buy"
)

// PriceLevel is a single resting offer entry: a unique price and the
// quantity remaining at that price. Amount decreases under partial fills
// and the level is removed when it reaches zero.
type PriceLevel struct {
	Price  int64
	Amount int64
}

// Order holds one participant's resting offers for one stock on one side.
// At most one PriceLevel exists per distinct price, and the level slice
// is bounded by Capacity. The slice stays dense: removal swaps the last
// entry into the vacated slot, so relative order is not preserved across
// a cancel.
type Order struct {
	StockID       string
	ParticipantID string
	Side          Side
	Levels        []PriceLevel
	Capacity      int
	CreatedAt     time.Time
}

// LevelIndex returns the index of the level at the given price, or -1.
func (o *Order) LevelIndex(price int64) int {
	for i := range o.Levels {
		if o.Levels[i].Price == price {
			return i
		}
	}
	return -1
}

// FindLevel returns the level at the given price, if present.
func (o *Order) FindLevel(price int64) (PriceLevel, bool) {
	if i := o.LevelIndex(price); i >= 0 {
		return o.Levels[i], true
	}
	return PriceLevel{}, false
}

// RemoveLevelAt deletes the level at index i with a swap-remove,
// keeping the slice dense.
func (o *Order) RemoveLevelAt(i int) {
	last := len(o.Levels) - 1
	o.Levels[i] = o.Levels[last]
	o.Levels = o.Levels[:last]
}
