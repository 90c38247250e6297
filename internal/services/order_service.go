package services

import (
	"github.com/google/uuid"

	"bazaar/internal/cart"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

// OrderService owns the order lifecycle: creation with all-or-nothing stock
// reservation, the status state machine, payment marks and refunds.
type OrderService struct {
	Orders *repos.OrderRepo
	Stock  *repos.StockRepo
	Promos *repos.PromoRepo
	Notify Notifier

	Pricing cart.Pricing
	// RestockOnRefund: whether refunding a COMPLETED order returns its
	// quantities to the shelf. CANCELLED orders were already released at
	// cancel time, so the flag never applies to them.
	RestockOnRefund bool
}

// LineReq is one (item, quantity) pair from a checkout submission.
type LineReq struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// Create validates the lines, snapshots effective prices, computes the total
// through the cart engine, and reserves stock for every line in a single
// transaction. Either the whole order lands or nothing does.
func (s *OrderService) Create(buyerID, sellerID string, reqs []LineReq, promoCode string) (domain.Order, error) {
	if len(reqs) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}

	c := cart.New()
	var lines []domain.OrderLine
	for _, req := range reqs {
		if req.Qty <= 0 {
			return domain.Order{}, &domain.InvalidQuantityError{Qty: req.Qty, Reason: "must be positive"}
		}
		it, err := s.Stock.Get(req.ItemID)
		if err != nil {
			return domain.Order{}, err
		}
		if !it.Active {
			return domain.Order{}, domain.ErrItemNotFound
		}
		if it.SellerID != sellerID {
			return domain.Order{}, &domain.SellerMismatchError{ItemID: it.ID, SellerID: sellerID}
		}
		if err := c.AddItem(it, req.Qty); err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, domain.OrderLine{ItemID: it.ID, Qty: req.Qty, Price: it.EffectivePrice()})
	}

	if promoCode != "" {
		p, err := s.Promos.Find(promoCode)
		if err != nil {
			return domain.Order{}, err
		}
		c.ApplyPromo(p)
	}

	totals := c.Totals(s.Pricing)
	o := domain.Order{
		ID:            uuid.NewString(),
		BuyerID:       buyerID,
		SellerID:      sellerID,
		Total:         totals.Total,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}
	if err := s.Orders.CreateReserved(o, lines); err != nil {
		return domain.Order{}, err
	}

	// Reservations can push items to their threshold; tell the dispatcher.
	for _, ln := range lines {
		if it, err := s.Stock.Get(ln.ItemID); err == nil {
			if domain.ClassifyStock(it.Qty, it.MinThreshold) != domain.InStock {
				s.Notify.LowStock(it)
			}
		}
	}
	return o, nil
}

// Transition moves an order along the state machine. A cancel from any
// non-terminal state releases the reserved stock in the same transaction as
// the status flip; a COMPLETED order's stock is sold through and stays out.
func (s *OrderService) Transition(orderID string, to domain.OrderStatus) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if to == domain.StatusRefunded {
		// Refunds also touch payment status; keep one path for them.
		return s.Refund(orderID)
	}
	if !domain.CanTransition(o.Status, to) {
		return domain.Order{}, &domain.InvalidTransitionError{OrderID: o.ID, From: o.Status, To: to}
	}

	release := to == domain.StatusCancelled
	ok, err := s.Orders.TransitionCAS(o.ID, o.Status, to, release)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		// Someone else won the race from the same source state.
		cur, gerr := s.Orders.Get(orderID)
		if gerr != nil {
			return domain.Order{}, gerr
		}
		return domain.Order{}, &domain.InvalidTransitionError{OrderID: o.ID, From: cur.Status, To: to}
	}

	s.Notify.StatusChanged(o.ID, o.Status, to)
	return s.Orders.Get(orderID)
}

// Refund is legal only from COMPLETED or CANCELLED with captured payment.
// It flips the payment status to REFUNDED; whether a refunded COMPLETED
// order restocks is policy, not a rule of the machine.
func (s *OrderService) Refund(orderID string) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !domain.CanTransition(o.Status, domain.StatusRefunded) {
		return domain.Order{}, &domain.InvalidTransitionError{OrderID: o.ID, From: o.Status, To: domain.StatusRefunded}
	}
	if o.PaymentStatus != domain.PaymentPaid {
		return domain.Order{}, domain.ErrPaymentNotCaptured
	}

	restock := s.RestockOnRefund && o.Status == domain.StatusCompleted
	ok, err := s.Orders.MarkRefunded(o.ID, o.Status, restock)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		cur, gerr := s.Orders.Get(orderID)
		if gerr != nil {
			return domain.Order{}, gerr
		}
		return domain.Order{}, &domain.InvalidTransitionError{OrderID: o.ID, From: cur.Status, To: domain.StatusRefunded}
	}

	s.Notify.StatusChanged(o.ID, o.Status, domain.StatusRefunded)
	return s.Orders.Get(orderID)
}

// MarkPaid records the gateway's verdict. The gateway itself is out of
// scope; this is the hook it calls back into.
func (s *OrderService) MarkPaid(orderID string, captured bool) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	ps := domain.PaymentPaid
	if !captured {
		ps = domain.PaymentFailed
	}
	if err := s.Orders.SetPaymentStatus(o.ID, ps); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(orderID)
}
