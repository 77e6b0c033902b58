package ledger

import (
	"github.com/equibook/equibook/internal/domain"
)

// InitHolderAccount creates the balance record for a (stock, participant)
// pair with zero participation. It fails with domain.ErrAlreadyInitialized
// if a record for the pair exists, and increments the stock's holder count
// and the exchange's holder counter.
func (l *Ledger) InitHolderAccount(stockID, participantID string) (*domain.Holder, error) {
	st, err := l.stocks.Get(stockID)
	if err != nil {
		return nil, err
	}
	if _, err := l.exchange.Get(); err != nil {
		return nil, err
	}

	h := &domain.Holder{
		StockID:       stockID,
		ParticipantID: participantID,
		CreatedAt:     l.now(),
	}
	if err := l.holders.Create(h); err != nil {
		return nil, err
	}

	st.Mu.Lock()
	st.HolderCount++
	st.Mu.Unlock()

	if err := l.registerHolder(); err != nil {
		return nil, err
	}
	return h, nil
}

// GetHolder retrieves the balance record for a (stock, participant) pair.
func (l *Ledger) GetHolder(stockID, participantID string) (*domain.Holder, error) {
	return l.holders.Get(stockID, participantID)
}

// BuyInIPO allocates amount shares from the stock's unallocated supply
// to the holder's balance. Purchases are permitted strictly before the
// go-public date; afterwards the operation fails with domain.ErrIPOClosed.
// All validation runs before any mutation, so a failure leaves the supply
// and the balance untouched.
func (l *Ledger) BuyInIPO(stockID, participantID string, amount int64) (*domain.Holder, error) {
	st, err := l.stocks.Get(stockID)
	if err != nil {
		return nil, err
	}
	h, err := l.holders.Get(stockID, participantID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, domain.ErrInvalidParameters
	}

	// Stock lock first, then holder lock. Every multi-record transition
	// takes locks in this order.
	st.Mu.Lock()
	defer st.Mu.Unlock()
	h.Mu.Lock()
	defer h.Mu.Unlock()

	if !st.IPOOpen(l.now()) {
		return nil, domain.ErrIPOClosed
	}
	if amount > st.SupplyAvailable {
		return nil, domain.ErrInsufficientSupply
	}
	newParticipation, err := domain.AddInt64(h.Participation, amount)
	if err != nil {
		return nil, err
	}

	if err := allocateFromIPO(st, amount); err != nil {
		return nil, err
	}
	h.Participation = newParticipation
	return h, nil
}

// Debit removes amount shares from the holder's balance. It fails with
// domain.ErrInsufficientBalance when the balance cannot cover the amount.
// The caller must hold h.Mu.
func (l *Ledger) Debit(h *domain.Holder, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidParameters
	}
	if amount > h.Participation {
		return domain.ErrInsufficientBalance
	}
	h.Participation -= amount
	return nil
}

// Credit adds amount shares to the holder's balance with an explicit
// overflow guard. The caller must hold h.Mu.
func (l *Ledger) Credit(h *domain.Holder, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidParameters
	}
	v, err := domain.AddInt64(h.Participation, amount)
	if err != nil {
		return err
	}
	h.Participation = v
	return nil
}

// Transfer moves amount shares from seller to buyer as one atomic step.
// Both balances are validated before either is touched; any failure
// leaves both unchanged. Locks are taken in canonical key order so that
// concurrent transfers over the same holders serialize without deadlock.
func (l *Ledger) Transfer(seller, buyer *domain.Holder, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidParameters
	}

	if seller == buyer {
		// Self-trade: the debit and credit cancel out, but the balance
		// must still cover the amount.
		seller.Mu.Lock()
		defer seller.Mu.Unlock()
		if amount > seller.Participation {
			return domain.ErrInsufficientBalance
		}
		return nil
	}

	first, second := seller, buyer
	if l.keys.HolderKey(buyer.StockID, buyer.ParticipantID) < l.keys.HolderKey(seller.StockID, seller.ParticipantID) {
		first, second = buyer, seller
	}
	first.Mu.Lock()
	defer first.Mu.Unlock()
	second.Mu.Lock()
	defer second.Mu.Unlock()

	if amount > seller.Participation {
		return domain.ErrInsufficientBalance
	}
	newBuyer, err := domain.AddInt64(buyer.Participation, amount)
	if err != nil {
		return err
	}

	seller.Participation -= amount
	buyer.Participation = newBuyer
	return nil
}
