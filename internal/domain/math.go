package domain

import "math"

// AddInt64 returns a+b, or ErrOverflow if the sum does not fit in int64.
// Supply, balance, and amount arithmetic must never wrap.
func AddInt64(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
