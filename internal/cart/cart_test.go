package cart_test

import (
	"errors"
	"testing"

	"bazaar/internal/cart"
	"bazaar/internal/domain"
)

var pricing = cart.Pricing{FreeDeliveryMin: 299, DeliveryFee: 40}

func item(id string, price float64, discount *float64) domain.StockItem {
	return domain.StockItem{ID: id, Price: price, DiscountPrice: discount}
}

func f(v float64) *float64 { return &v }

func TestAddItem_MergesAndSnapshots(t *testing.T) {
	c := cart.New()
	if err := c.AddItem(item("a", 150, f(129)), 1); err != nil {
		t.Fatal(err)
	}
	if err := c.AddItem(item("a", 150, f(129)), 2); err != nil {
		t.Fatal(err)
	}
	lines := c.Lines()
	if len(lines) != 1 || lines[0].Qty != 3 {
		t.Fatalf("want one merged line of qty 3, got %+v", lines)
	}
	if lines[0].EffectivePrice != 129 || lines[0].UnitPrice != 150 {
		t.Fatalf("price snapshot wrong: %+v", lines[0])
	}
}

func TestAddItem_RejectsBadQty(t *testing.T) {
	c := cart.New()
	var badQty *domain.InvalidQuantityError
	if err := c.AddItem(item("a", 100, nil), 0); !errors.As(err, &badQty) {
		t.Fatalf("want InvalidQuantityError, got %v", err)
	}
	if err := c.AddItem(item("a", 100, nil), -2); !errors.As(err, &badQty) {
		t.Fatalf("want InvalidQuantityError, got %v", err)
	}
	if len(c.Lines()) != 0 {
		t.Fatal("cart should stay empty after rejected adds")
	}
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(item("a", 100, nil), 2)
	c.UpdateQuantity("a", 5)
	if c.Lines()[0].Qty != 5 {
		t.Fatalf("want qty 5, got %+v", c.Lines())
	}
	c.UpdateQuantity("a", 0)
	if len(c.Lines()) != 0 {
		t.Fatal("zero quantity should remove the line")
	}
	c.UpdateQuantity("ghost", 3) // unknown item: no-op
	if len(c.Lines()) != 0 {
		t.Fatal("updating an absent line should not create one")
	}
}

func TestRemoveItem_RoundTripEqualsEmpty(t *testing.T) {
	empty := cart.New().Totals(pricing)

	c := cart.New()
	_ = c.AddItem(item("x", 250, nil), 3)
	c.RemoveItem("x")
	c.RemoveItem("x") // second remove is a no-op
	if got := c.Totals(pricing); got != empty {
		t.Fatalf("add+remove should equal empty cart: got %+v want %+v", got, empty)
	}
}

func TestTotals_PromoAndFreeDelivery(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(item("a", 250, nil), 2) // subtotal 500, past the 299 threshold
	tt := c.Totals(pricing)
	if tt.Subtotal != 500 || tt.DeliveryFee != 0 {
		t.Fatalf("want subtotal 500 fee 0, got %+v", tt)
	}

	c.ApplyPromo(domain.PromoCode{Code: "SAVE10", Percent: 10})
	tt = c.Totals(pricing)
	if tt.PromoDiscount != 50 || tt.Total != 450 {
		t.Fatalf("want discount 50 total 450, got %+v", tt)
	}
}

func TestTotals_DeliveryFeeBelowThreshold(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(item("a", 129, nil), 1)
	tt := c.Totals(pricing)
	if tt.DeliveryFee != 40 || tt.Total != 169 {
		t.Fatalf("want fee 40 total 169, got %+v", tt)
	}

	// Exactly at the threshold ships free.
	c2 := cart.New()
	_ = c2.AddItem(item("b", 299, nil), 1)
	if tt := c2.Totals(pricing); tt.DeliveryFee != 0 {
		t.Fatalf("subtotal == threshold should ship free, got %+v", tt)
	}
}

func TestTotals_SavingsReportedNotSubtracted(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(item("a", 150, f(129)), 2)
	_ = c.AddItem(item("b", 899, nil), 1)
	tt := c.Totals(pricing)
	if tt.Subtotal != 2*129+899 {
		t.Fatalf("subtotal uses effective prices: %+v", tt)
	}
	if tt.Savings != 2*(150-129) {
		t.Fatalf("want savings 42, got %+v", tt)
	}
	if tt.ItemCount != 3 {
		t.Fatalf("want itemCount 3, got %+v", tt)
	}
	if tt.Total != tt.Subtotal { // free delivery, no promo, savings informational
		t.Fatalf("savings must not reduce the total: %+v", tt)
	}
}

func TestTotals_OrderIndependent(t *testing.T) {
	a := cart.New()
	_ = a.AddItem(item("x", 129, nil), 2)
	_ = a.AddItem(item("y", 899, nil), 1)

	b := cart.New()
	_ = b.AddItem(item("y", 899, nil), 1)
	_ = b.AddItem(item("x", 129, nil), 1)
	_ = b.AddItem(item("x", 129, nil), 1)

	ta, tb := a.Totals(pricing), b.Totals(pricing)
	if ta.Subtotal != tb.Subtotal || ta.Total != tb.Total {
		t.Fatalf("insertion order changed the totals: %+v vs %+v", ta, tb)
	}
}

func TestTotals_FullPromoFloorsAtZero(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(item("a", 300, nil), 1)
	c.ApplyPromo(domain.PromoCode{Code: "COMP", Percent: 100})
	if tt := c.Totals(pricing); tt.Total != 0 {
		t.Fatalf("100%% promo on free-delivery cart should total 0, got %+v", tt)
	}
}

func TestApplyPromo_SecondReplacesFirst(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(item("a", 400, nil), 1)
	c.ApplyPromo(domain.PromoCode{Code: "SAVE10", Percent: 10})
	c.ApplyPromo(domain.PromoCode{Code: "WELCOME20", Percent: 20})
	if tt := c.Totals(pricing); tt.PromoDiscount != 80 {
		t.Fatalf("second promo should replace the first, got %+v", tt)
	}
	c.ClearPromo()
	if tt := c.Totals(pricing); tt.PromoDiscount != 0 {
		t.Fatalf("cleared promo should not discount, got %+v", tt)
	}
}
