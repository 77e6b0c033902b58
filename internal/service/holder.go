package service

import (
	"regexp"

	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/ledger"
	"github.com/equibook/equibook/internal/metrics"
)

var participantIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// HolderService handles holder account creation, IPO purchases, and
// balance queries.
type HolderService struct {
	ledger *ledger.Ledger
}

// NewHolderService creates a new HolderService.
func NewHolderService(l *ledger.Ledger) *HolderService {
	return &HolderService{ledger: l}
}

// InitHolder creates the balance record for a (stock, participant) pair.
func (s *HolderService) InitHolder(stockID, participantID string) (*domain.Holder, error) {
	if !participantIDRegex.MatchString(participantID) {
		return nil, &domain.ValidationError{
			Message: "participant_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	return s.ledger.InitHolderAccount(stockID, participantID)
}

// BuyInIPO allocates shares from the stock's unallocated supply to the
// holder's balance while the primary offering is open.
func (s *HolderService) BuyInIPO(stockID, participantID string, amount int64) (*domain.Holder, error) {
	if !participantIDRegex.MatchString(participantID) {
		return nil, &domain.ValidationError{
			Message: "participant_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if amount <= 0 {
		return nil, &domain.ValidationError{
			Message: "amount must be a positive integer",
		}
	}

	h, err := s.ledger.BuyInIPO(stockID, participantID, amount)
	if err != nil {
		return nil, err
	}
	metrics.IPOSharesTotal.Add(float64(amount))
	return h, nil
}

// GetBalance retrieves the holder record for a (stock, participant) pair.
func (s *HolderService) GetBalance(stockID, participantID string) (*domain.Holder, error) {
	return s.ledger.GetHolder(stockID, participantID)
}
