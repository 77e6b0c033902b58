package service

import (
	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/engine"
	"github.com/equibook/equibook/internal/metrics"
	"github.com/equibook/equibook/internal/store"
)

// ParseSide converts a request string to a domain.Side.
func ParseSide(s string) (domain.Side, error) {
	switch domain.Side(s) {
	case domain.SideSell, domain.SideBuy:
		return domain.Side(s), nil
	}
	return "", &domain.ValidationError{Message: "side must be 'sell' or 'buy'"}
}

// AcceptRequest represents the input for accepting a resting offer.
type AcceptRequest struct {
	Side     domain.Side
	SellerID string
	BuyerID  string
	Amount   int64
}

// OrderService handles order account creation, offer placement and
// cancellation, and acceptance settlement.
type OrderService struct {
	engine     *engine.Engine
	trades     *store.TradeStore
	webhookSvc *WebhookService
}

// NewOrderService creates a new OrderService.
func NewOrderService(e *engine.Engine, trades *store.TradeStore, webhookSvc *WebhookService) *OrderService {
	return &OrderService{
		engine:     e,
		trades:     trades,
		webhookSvc: webhookSvc,
	}
}

// InitOrderAccount creates the empty order record for a
// (stock, participant, side).
func (s *OrderService) InitOrderAccount(stockID, participantID string, side domain.Side) (*domain.Order, error) {
	if !participantIDRegex.MatchString(participantID) {
		return nil, &domain.ValidationError{
			Message: "participant_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if side == domain.SideSell {
		return s.engine.InitSellAccount(stockID, participantID)
	}
	return s.engine.InitBuyAccount(stockID, participantID)
}

// PlaceOffer rests a new price level on the participant's order record.
func (s *OrderService) PlaceOffer(stockID, participantID string, side domain.Side, price, amount int64) (*domain.Order, error) {
	if price <= 0 {
		return nil, &domain.ValidationError{Message: "price must be a positive integer"}
	}
	if amount <= 0 {
		return nil, &domain.ValidationError{Message: "amount must be a positive integer"}
	}

	o, err := s.engine.PlaceOffer(stockID, participantID, side, price, amount)
	if err != nil {
		return nil, err
	}
	metrics.OffersPlacedTotal.WithLabelValues(string(side)).Inc()
	return o, nil
}

// CancelOffer removes the price level matching price from the
// participant's order record.
func (s *OrderService) CancelOffer(stockID, participantID string, side domain.Side, price int64) (*domain.Order, error) {
	o, err := s.engine.CancelOffer(stockID, participantID, side, price)
	if err != nil {
		return nil, err
	}
	metrics.OffersCancelledTotal.WithLabelValues(string(side)).Inc()

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchOfferCancelled(participantID, stockID, side, price)
	}
	return o, nil
}

// Accept settles an acceptance against a resting offer. For the sell
// side the buyer accepts a resting sell offer; for the buy side the
// seller accepts a resting bid. Shares always move seller → buyer.
func (s *OrderService) Accept(stockID string, req AcceptRequest) (*domain.Trade, error) {
	if !participantIDRegex.MatchString(req.SellerID) || !participantIDRegex.MatchString(req.BuyerID) {
		return nil, &domain.ValidationError{
			Message: "seller_id and buyer_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if req.Amount <= 0 {
		return nil, &domain.ValidationError{Message: "amount must be a positive integer"}
	}

	var t *domain.Trade
	var err error
	if req.Side == domain.SideSell {
		t, err = s.engine.AcceptSell(stockID, req.SellerID, req.BuyerID, req.Amount)
	} else {
		t, err = s.engine.AcceptBuy(stockID, req.SellerID, req.BuyerID, req.Amount)
	}
	if err != nil {
		return nil, err
	}

	metrics.TradesTotal.WithLabelValues(string(req.Side)).Inc()
	metrics.TradeVolume.WithLabelValues(string(req.Side)).Add(float64(t.Amount))

	// Notify both parties (outside the book lock, fire-and-forget).
	if s.webhookSvc != nil {
		s.webhookSvc.DispatchTradeExecuted(t.SellerID, t)
		s.webhookSvc.DispatchTradeExecuted(t.BuyerID, t)
	}
	return t, nil
}

// GetOrder returns a snapshot of the order record for a
// (stock, participant, side).
func (s *OrderService) GetOrder(stockID, participantID string, side domain.Side) (*domain.Order, error) {
	return s.engine.GetOrder(stockID, participantID, side)
}

// ListTrades returns all settled trades for a stock in chronological
// order.
func (s *OrderService) ListTrades(stockID string) []*domain.Trade {
	return s.trades.GetByStock(stockID)
}
