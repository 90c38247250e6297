package services

import (
	"bazaar/internal/domain"
	applog "bazaar/internal/log"
)

// Notifier is the seam to the external notification dispatcher. It is told
// about low-stock conditions and order status changes; nothing it does can
// influence ledger or lifecycle decisions.
type Notifier interface {
	LowStock(item domain.StockItem)
	StatusChanged(orderID string, from, to domain.OrderStatus)
}

// LogNotifier writes notifications to the structured log. Stands in for the
// real dispatcher in development and tests.
type LogNotifier struct{}

func (LogNotifier) LowStock(item domain.StockItem) {
	applog.Event("notify.low_stock", map[string]any{
		"item_id":   item.ID,
		"seller_id": item.SellerID,
		"qty":       item.Qty,
		"threshold": item.MinThreshold,
		"level":     string(domain.ClassifyStock(item.Qty, item.MinThreshold)),
	})
}

func (LogNotifier) StatusChanged(orderID string, from, to domain.OrderStatus) {
	applog.Event("notify.order_status", map[string]any{
		"order_id": orderID,
		"from":     string(from),
		"to":       string(to),
	})
}
