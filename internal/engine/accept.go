package engine

import (
	"github.com/google/uuid"

	"github.com/equibook/equibook/internal/domain"
)

// AcceptSell settles a buyer's acceptance of a resting sell offer. The
// engine consults the seller's sell-side record, picks the cheapest
// level whose remaining amount covers the request, transfers shares
// from seller to buyer, and reduces the level — removing it only when
// its remaining amount reaches zero. Fails with domain.ErrOrderNotFound
// when no level can cover the amount.
//
// The whole transition is all-or-nothing: every validation runs before
// the first mutation.
func (e *Engine) AcceptSell(stockID, sellerID, buyerID string, amount int64) (*domain.Trade, error) {
	return e.accept(stockID, sellerID, buyerID, amount, domain.SideSell)
}

// AcceptBuy is the mirror of AcceptSell: a seller accepts a resting buy
// offer, so the buyer's buy-side record is consulted and the highest
// bid covering the amount is chosen. Shares still flow seller → buyer.
func (e *Engine) AcceptBuy(stockID, sellerID, buyerID string, amount int64) (*domain.Trade, error) {
	return e.accept(stockID, sellerID, buyerID, amount, domain.SideBuy)
}

func (e *Engine) accept(stockID, sellerID, buyerID string, amount int64, side domain.Side) (*domain.Trade, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidParameters
	}

	lock := e.bookLock(stockID)
	lock.Lock()
	defer lock.Unlock()

	// The consulted record belongs to whichever party placed the
	// resting offer.
	restingOwner := sellerID
	if side == domain.SideBuy {
		restingOwner = buyerID
	}
	o, err := e.orders.Get(stockID, restingOwner, side)
	if err != nil {
		return nil, err
	}

	i := bestLevel(o, amount)
	if i < 0 {
		return nil, domain.ErrOrderNotFound
	}
	price := o.Levels[i].Price

	seller, err := e.ledger.GetHolder(stockID, sellerID)
	if err != nil {
		return nil, err
	}
	buyer, err := e.ledger.GetHolder(stockID, buyerID)
	if err != nil {
		return nil, err
	}

	// Transfer validates both balances before applying either side, so
	// a failure here leaves the book untouched as well.
	if err := e.ledger.Transfer(seller, buyer, amount); err != nil {
		return nil, err
	}

	o.Levels[i].Amount -= amount
	if o.Levels[i].Amount == 0 {
		o.RemoveLevelAt(i)
		e.depth.Remove(stockID, side, restingOwner, price)
	} else {
		e.depth.Upsert(stockID, side, restingOwner, price, o.Levels[i].Amount)
	}

	if err := e.ledger.RecordExchange(); err != nil {
		return nil, err
	}

	t := &domain.Trade{
		TradeID:    uuid.New().String(),
		StockID:    stockID,
		SellerID:   sellerID,
		BuyerID:    buyerID,
		Side:       side,
		Price:      price,
		Amount:     amount,
		ExecutedAt: e.now(),
	}
	e.trades.Append(t)
	return t, nil
}

// bestLevel returns the index of the best-priced level whose remaining
// amount covers the request, or -1. Best means cheapest on the sell
// side and highest on the buy side; price breaks ties over slice order.
func bestLevel(o *domain.Order, amount int64) int {
	best := -1
	for i := range o.Levels {
		if o.Levels[i].Amount < amount {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if o.Side == domain.SideSell && o.Levels[i].Price < o.Levels[best].Price {
			best = i
		}
		if o.Side == domain.SideBuy && o.Levels[i].Price > o.Levels[best].Price {
			best = i
		}
	}
	return best
}
