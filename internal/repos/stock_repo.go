package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bazaar/internal/domain"
)

// StockRepo is the single writer for item quantities. Every mutation is a
// conditional UPDATE whose WHERE clause carries the stock invariant, so the
// check and the write cannot interleave across callers.
type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

const selectItem = `
	SELECT id, seller_id, title, COALESCE(description,'') AS description,
	       price, discount_price, qty, min_threshold, max_capacity, active,
	       created_at, COALESCE(updated_at,'') AS updated_at
	FROM items`

func (r *StockRepo) Get(itemID string) (domain.StockItem, error) {
	var it domain.StockItem
	err := r.db.Get(&it, selectItem+` WHERE id = ?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockItem{}, domain.ErrItemNotFound
	}
	return it, err
}

// Adjust applies delta (either sign) to an item's quantity in one guarded
// update. The result never leaves [0, max_capacity]; when the update matches
// no row the failure is classified from a fresh read.
func (r *StockRepo) Adjust(itemID string, delta int) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE items
		SET qty = qty + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND qty + ? >= 0 AND qty + ? <= max_capacity
	`, delta, itemID, delta, delta)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		it, gerr := getInTx(tx, itemID)
		if gerr != nil {
			return 0, gerr
		}
		if delta < 0 {
			return 0, &domain.InsufficientStockError{ItemID: itemID, Requested: -delta, Available: it.Qty}
		}
		return 0, &domain.CapacityExceededError{ItemID: itemID, Requested: it.Qty + delta, MaxCapacity: it.MaxCapacity}
	}

	var qty int
	if err := tx.Get(&qty, `SELECT qty FROM items WHERE id = ?`, itemID); err != nil {
		return 0, err
	}
	return qty, tx.Commit()
}

// Set overwrites the quantity. The write is still guarded so it serializes
// against concurrent Adjust calls rather than clobbering them mid-flight.
func (r *StockRepo) Set(itemID string, qty int) (int, error) {
	res, err := r.db.Exec(`
		UPDATE items
		SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND ? >= 0 AND ? <= max_capacity
	`, qty, itemID, qty, qty)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		it, gerr := r.Get(itemID)
		if gerr != nil {
			return 0, gerr
		}
		return 0, &domain.InvalidQuantityError{Qty: qty,
			Reason: fmt.Sprintf("outside [0, %d]", it.MaxCapacity)}
	}
	return qty, nil
}

func getInTx(tx *sqlx.Tx, itemID string) (domain.StockItem, error) {
	var it domain.StockItem
	err := tx.Get(&it, selectItem+` WHERE id = ?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockItem{}, domain.ErrItemNotFound
	}
	return it, err
}

// ---------- listing / item management ----------

func (r *StockRepo) ListActive() ([]domain.StockItem, error) {
	var out []domain.StockItem
	err := r.db.Select(&out, selectItem+` WHERE active = 1 ORDER BY title`)
	return out, err
}

func (r *StockRepo) ListAll() ([]domain.StockItem, error) {
	var out []domain.StockItem
	err := r.db.Select(&out, selectItem+` ORDER BY title`)
	return out, err
}

func (r *StockRepo) ListBySeller(sellerID string) ([]domain.StockItem, error) {
	var out []domain.StockItem
	err := r.db.Select(&out, selectItem+` WHERE seller_id = ? ORDER BY title`, sellerID)
	return out, err
}

func (r *StockRepo) Create(it domain.StockItem) error {
	_, err := r.db.Exec(`
		INSERT INTO items(id, seller_id, title, description, price, discount_price,
		                  qty, min_threshold, max_capacity, active)
		VALUES(?,?,?,?,?,?,?,?,?,1)
	`, it.ID, it.SellerID, it.Title, it.Description, it.Price, it.DiscountPrice,
		it.Qty, it.MinThreshold, it.MaxCapacity)
	return err
}

// Deactivate hides an item from the storefront. Rows are never deleted:
// historical order lines keep their item reference.
func (r *StockRepo) Deactivate(itemID string) error {
	res, err := r.db.Exec(`UPDATE items SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *StockRepo) SetPricing(itemID string, price float64, discount *float64) error {
	res, err := r.db.Exec(`
		UPDATE items SET price = ?, discount_price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, price, discount, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
