package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidPromoCode   = errors.New("unknown promo code")
	ErrPaymentNotCaptured = errors.New("payment was never captured")
	ErrEmptyOrder         = errors.New("order has no lines")
)

// InsufficientStockError names the item and the numeric conflict so callers
// can render an actionable message instead of a generic failure.
type InsufficientStockError struct {
	ItemID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (need %d, have %d)", e.ItemID, e.Requested, e.Available)
}

// CapacityExceededError reports a restock that would pass the item's
// configured maximum. Surfaced to the seller as a configuration problem.
type CapacityExceededError struct {
	ItemID      string
	Requested   int
	MaxCapacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("restock of %s to %d exceeds capacity %d", e.ItemID, e.Requested, e.MaxCapacity)
}

// InvalidQuantityError rejects a non-positive or out-of-range quantity
// before any mutation happens.
type InvalidQuantityError struct {
	Qty    int
	Reason string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d: %s", e.Qty, e.Reason)
}

// SellerMismatchError rejects a line whose item belongs to a different
// seller than the order's. An order binds one buyer to one seller.
type SellerMismatchError struct {
	ItemID   string
	SellerID string
}

func (e *SellerMismatchError) Error() string {
	return fmt.Sprintf("item %s is not sold by %s", e.ItemID, e.SellerID)
}

// InvalidTransitionError names the illegal source -> target pair verbatim.
type InvalidTransitionError struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: illegal transition %s -> %s", e.OrderID, e.From, e.To)
}
