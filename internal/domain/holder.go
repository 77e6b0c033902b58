package domain

import (
	"sync"
	"time"
)

// Holder is a participant's balance record for one specific stock.
// A holder with zero participation is a valid terminal state; holder
// records are never destroyed.
type Holder struct {
	StockID       string
	ParticipantID string
	Participation int64 // shares owned, always >= 0
	CreatedAt     time.Time
	Mu            sync.Mutex // per-holder lock for balance mutations
}
