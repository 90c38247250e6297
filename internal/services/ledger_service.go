package services

import (
	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

// LedgerService fronts the stock ledger: atomic adjustments, absolute
// corrections and classified reads. It is the only path handlers use to
// touch quantities.
type LedgerService struct {
	Stock  *repos.StockRepo
	Notify Notifier
}

func NewLedgerService(stock *repos.StockRepo, notify Notifier) *LedgerService {
	return &LedgerService{Stock: stock, Notify: notify}
}

// StockInfo is the read shape: raw numbers plus the derived badge.
type StockInfo struct {
	ItemID       string            `json:"itemId"`
	Qty          int               `json:"qty"`
	MinThreshold int               `json:"minThreshold"`
	MaxCapacity  int               `json:"maxCapacity"`
	Level        domain.StockLevel `json:"level"`
}

func (s *LedgerService) Get(itemID string) (StockInfo, error) {
	it, err := s.Stock.Get(itemID)
	if err != nil {
		return StockInfo{}, err
	}
	return info(it), nil
}

// Adjust applies a relative delta. A zero delta is rejected before the
// ledger is touched. Decrements that land at or below the item's threshold
// raise a low-stock notification.
func (s *LedgerService) Adjust(itemID string, delta int) (StockInfo, error) {
	if delta == 0 {
		return StockInfo{}, &domain.InvalidQuantityError{Qty: delta, Reason: "delta must be non-zero"}
	}
	newQty, err := s.Stock.Adjust(itemID, delta)
	if err != nil {
		return StockInfo{}, err
	}
	it, err := s.Stock.Get(itemID)
	if err != nil {
		return StockInfo{}, err
	}
	it.Qty = newQty
	if delta < 0 && domain.ClassifyStock(it.Qty, it.MinThreshold) != domain.InStock {
		s.Notify.LowStock(it)
	}
	return info(it), nil
}

// Set is the seller's absolute correction.
func (s *LedgerService) Set(itemID string, qty int) (StockInfo, error) {
	if qty < 0 {
		return StockInfo{}, &domain.InvalidQuantityError{Qty: qty, Reason: "must be non-negative"}
	}
	if _, err := s.Stock.Set(itemID, qty); err != nil {
		return StockInfo{}, err
	}
	return s.Get(itemID)
}

func info(it domain.StockItem) StockInfo {
	return StockInfo{
		ItemID:       it.ID,
		Qty:          it.Qty,
		MinThreshold: it.MinThreshold,
		MaxCapacity:  it.MaxCapacity,
		Level:        domain.ClassifyStock(it.Qty, it.MinThreshold),
	}
}
