package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"bazaar/internal/domain"
)

type PromoRepo struct{ db *sqlx.DB }

func NewPromoRepo(db *sqlx.DB) *PromoRepo { return &PromoRepo{db: db} }

// Find resolves a code case-insensitively.
func (r *PromoRepo) Find(code string) (domain.PromoCode, error) {
	var p domain.PromoCode
	err := r.db.Get(&p, `
		SELECT code, percent FROM promo_codes WHERE LOWER(code) = LOWER(?)
	`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PromoCode{}, domain.ErrInvalidPromoCode
	}
	return p, err
}

func (r *PromoRepo) Upsert(p domain.PromoCode) error {
	_, err := r.db.Exec(`
		INSERT INTO promo_codes(code, percent) VALUES(?,?)
		ON CONFLICT(code) DO UPDATE SET percent = excluded.percent
	`, p.Code, p.Percent)
	return err
}

func (r *PromoRepo) ListAll() ([]domain.PromoCode, error) {
	var out []domain.PromoCode
	err := r.db.Select(&out, `SELECT code, percent FROM promo_codes ORDER BY code`)
	return out, err
}
