package domain

// StockItem is one sellable unit and its inventory record. Items are never
// deleted while orders reference them; sellers deactivate instead.
type StockItem struct {
	ID            string   `db:"id"`
	SellerID      string   `db:"seller_id"`
	Title         string   `db:"title"`
	Description   string   `db:"description"`
	Price         float64  `db:"price"`
	DiscountPrice *float64 `db:"discount_price"` // nil when no discount; must be <= Price
	Qty           int      `db:"qty"`
	MinThreshold  int      `db:"min_threshold"`
	MaxCapacity   int      `db:"max_capacity"`
	Active        bool     `db:"active"`
	CreatedAt     string   `db:"created_at"`
	UpdatedAt     string   `db:"updated_at"`
}

// EffectivePrice is the discounted price when present, else the unit price.
func (s StockItem) EffectivePrice() float64 {
	if s.DiscountPrice != nil {
		return *s.DiscountPrice
	}
	return s.Price
}

// Order is one purchase transaction (or service booking) for one buyer
// against one seller.
type Order struct {
	ID            string        `db:"id"`
	BuyerID       string        `db:"buyer_id"`
	SellerID      string        `db:"seller_id"`
	Total         float64       `db:"total"`
	Status        OrderStatus   `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     string        `db:"created_at"`
	UpdatedAt     string        `db:"updated_at"`
}

// OrderLine is one reserved item inside an order. Price is captured at
// order time and never follows later item price changes.
type OrderLine struct {
	OrderID string  `db:"order_id"`
	ItemID  string  `db:"item_id"`
	Qty     int     `db:"qty"`
	Price   float64 `db:"price"`
}

// PromoCode is a named percentage discount off the cart subtotal.
type PromoCode struct {
	Code    string `db:"code"`
	Percent int    `db:"percent"` // 0..100
}

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"` // BUYER | VENDOR | ADMIN
}
