// Package cart is the client-held cart engine: line accumulation and total
// computation with no server round-trips and no shared state. A Cart belongs
// to exactly one session; nothing here needs locking or persistence.
package cart

import (
	"math"

	"bazaar/internal/domain"
)

// Line stages a quantity of one item for purchase. Prices are snapshotted
// when the line is added; checkout re-captures them server-side.
type Line struct {
	ItemID         string  `json:"itemId"`
	Qty            int     `json:"qty"`
	UnitPrice      float64 `json:"unitPrice"`
	EffectivePrice float64 `json:"effectivePrice"`
}

// Pricing carries the delivery-fee rule. Both values come from config, not
// from call sites.
type Pricing struct {
	FreeDeliveryMin float64
	DeliveryFee     float64
}

// Totals is the full breakdown returned to every view that shows money.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	Savings       float64 `json:"savings"`
	DeliveryFee   float64 `json:"deliveryFee"`
	PromoDiscount float64 `json:"promoDiscount"`
	Total         float64 `json:"total"`
	ItemCount     int     `json:"itemCount"`
}

type Cart struct {
	lines []Line // insertion order, one line per item
	promo *domain.PromoCode
}

func New() *Cart { return &Cart{} }

func (c *Cart) find(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem merges qty into an existing line for the item, or appends a new
// line snapshotting the item's current prices.
func (c *Cart) AddItem(item domain.StockItem, qty int) error {
	if qty <= 0 {
		return &domain.InvalidQuantityError{Qty: qty, Reason: "must be positive"}
	}
	if i := c.find(item.ID); i >= 0 {
		c.lines[i].Qty += qty
		return nil
	}
	c.lines = append(c.lines, Line{
		ItemID:         item.ID,
		Qty:            qty,
		UnitPrice:      item.Price,
		EffectivePrice: item.EffectivePrice(),
	})
	return nil
}

// UpdateQuantity sets a line's quantity directly; zero or negative removes
// the line.
func (c *Cart) UpdateQuantity(itemID string, qty int) {
	i := c.find(itemID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Qty = qty
}

// RemoveItem drops the line if present; no-op otherwise.
func (c *Cart) RemoveItem(itemID string) {
	c.UpdateQuantity(itemID, 0)
}

// ApplyPromo activates a promo code. At most one is active; a second
// replaces the first. Code validity is checked by the caller against the
// promo store before this is reached.
func (c *Cart) ApplyPromo(p domain.PromoCode) {
	c.promo = &p
}

func (c *Cart) ClearPromo() { c.promo = nil }

// Lines returns a copy of the staged lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Totals computes the money breakdown. Pure: same lines and pricing give
// the same result regardless of the order lines were added in.
//
//	subtotal  = sum of effective price x qty
//	savings   = sum of (unit - effective) x qty, reported, not re-subtracted
//	delivery  = 0 once subtotal reaches the free-delivery minimum
//	promo     = round(subtotal x percent / 100)
//	total     = subtotal + delivery - promo, floored at 0
func (c *Cart) Totals(p Pricing) Totals {
	var t Totals
	for _, ln := range c.lines {
		t.Subtotal += ln.EffectivePrice * float64(ln.Qty)
		t.Savings += (ln.UnitPrice - ln.EffectivePrice) * float64(ln.Qty)
		t.ItemCount += ln.Qty
	}
	if t.Subtotal < p.FreeDeliveryMin && len(c.lines) > 0 {
		t.DeliveryFee = p.DeliveryFee
	}
	if c.promo != nil {
		t.PromoDiscount = math.Round(t.Subtotal * float64(c.promo.Percent) / 100)
	}
	t.Total = t.Subtotal + t.DeliveryFee - t.PromoDiscount
	if t.Total < 0 {
		t.Total = 0
	}
	return t
}
