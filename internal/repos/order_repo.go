package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"bazaar/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderLineView joins a line with its item title for order pages.
type OrderLineView struct {
	ItemID   string  `db:"item_id"`
	Title    string  `db:"title"`
	Qty      int     `db:"qty"`
	Price    float64 `db:"price"`
	Subtotal float64 `db:"subtotal"`
}

// CreateReserved inserts the order and reserves every line's stock inside
// one transaction. Each decrement is a guarded UPDATE; the first line that
// cannot be covered aborts the transaction, so a partial reservation is
// never visible outside it.
func (r *OrderRepo) CreateReserved(o domain.Order, lines []domain.OrderLine) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ln := range lines {
		res, err := tx.Exec(`
			UPDATE items SET qty = qty - ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND active = 1 AND qty >= ?
		`, ln.Qty, ln.ItemID, ln.Qty)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			it, gerr := getInTx(tx, ln.ItemID)
			if gerr != nil {
				return gerr
			}
			if !it.Active {
				return domain.ErrItemNotFound
			}
			return &domain.InsufficientStockError{ItemID: ln.ItemID, Requested: ln.Qty, Available: it.Qty}
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO orders(id, buyer_id, seller_id, total, status, payment_status, created_at)
		VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.BuyerID, o.SellerID, o.Total, o.Status, o.PaymentStatus); err != nil {
		return err
	}
	for _, ln := range lines {
		if _, err := tx.Exec(`
			INSERT INTO order_items(order_id, item_id, qty, price)
			VALUES(?,?,?,?)
		`, o.ID, ln.ItemID, ln.Qty, ln.Price); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
		SELECT id, buyer_id, seller_id, total, status, payment_status,
		       created_at, COALESCE(updated_at,'') AS updated_at
		FROM orders WHERE id = ?
	`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, err
}

func (r *OrderRepo) Lines(orderID string) ([]OrderLineView, error) {
	var out []OrderLineView
	err := r.db.Select(&out, `
		SELECT oi.item_id, i.title, oi.qty, oi.price, (oi.qty * oi.price) AS subtotal
		FROM order_items oi JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = ?
		ORDER BY i.title
	`, orderID)
	return out, err
}

// TransitionCAS moves the order from -> to only if it is still in `from`,
// and, when release is set, puts the reserved quantities back in the same
// transaction. Returns false when another writer got there first.
func (r *OrderRepo) TransitionCAS(orderID string, from, to domain.OrderStatus, release bool) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, to, orderID, from)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if release {
		if err := releaseLines(tx, orderID); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

// MarkRefunded flips both the order status and the payment status in one
// transaction, optionally restocking (policy-driven, COMPLETED orders only).
func (r *OrderRepo) MarkRefunded(orderID string, from domain.OrderStatus, restock bool) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE orders SET status = ?, payment_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, domain.StatusRefunded, domain.PaymentRefunded, orderID, from)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if restock {
		if err := releaseLines(tx, orderID); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

// releaseLines compensates the order's reservations. The release is capped
// at each item's capacity: a seller may have shrunk max_capacity since the
// reservation, and the stock invariant wins over an exact give-back.
func releaseLines(tx *sqlx.Tx, orderID string) error {
	var lines []domain.OrderLine
	if err := tx.Select(&lines, `
		SELECT order_id, item_id, qty, price FROM order_items WHERE order_id = ?
	`, orderID); err != nil {
		return err
	}
	for _, ln := range lines {
		if _, err := tx.Exec(`
			UPDATE items SET qty = MIN(qty + ?, max_capacity), updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, ln.Qty, ln.ItemID); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) SetPaymentStatus(orderID string, ps domain.PaymentStatus) error {
	res, err := r.db.Exec(`
		UPDATE orders SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, ps, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, buyer_id, seller_id, total, status, payment_status,
		       created_at, COALESCE(updated_at,'') AS updated_at
		FROM orders ORDER BY datetime(created_at) DESC LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListByBuyer(buyerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, buyer_id, seller_id, total, status, payment_status,
		       created_at, COALESCE(updated_at,'') AS updated_at
		FROM orders WHERE buyer_id = ? ORDER BY datetime(created_at) DESC
	`, buyerID)
	return out, err
}

func (r *OrderRepo) ListBySeller(sellerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, buyer_id, seller_id, total, status, payment_status,
		       created_at, COALESCE(updated_at,'') AS updated_at
		FROM orders WHERE seller_id = ? ORDER BY datetime(created_at) DESC
	`, sellerID)
	return out, err
}
