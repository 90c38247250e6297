package handlers

import (
	"bazaar/internal/cart"
	"bazaar/internal/config"
	"bazaar/internal/repos"
	"bazaar/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	StockHandler  *StockHandler
	OrderHandler  *OrderHandler
	CartHandler   *CartHandler
	PromoHandler  *PromoHandler
	AdminHandler  *AdminHandler
	VendorHandler *VendorHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, notify services.Notifier) *Deps {
	stockRepo := repos.NewStockRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	promoRepo := repos.NewPromoRepo(db)

	pricing := cart.Pricing{FreeDeliveryMin: cfg.FreeDeliveryMin, DeliveryFee: cfg.DeliveryFee}

	ledgerSvc := services.NewLedgerService(stockRepo, notify)
	cartSvc := services.NewCartService(stockRepo, promoRepo, pricing)
	orderSvc := &services.OrderService{
		Orders:          orderRepo,
		Stock:           stockRepo,
		Promos:          promoRepo,
		Notify:          notify,
		Pricing:         pricing,
		RestockOnRefund: cfg.RestockOnRefund,
	}

	return &Deps{
		StockHandler:  &StockHandler{Ledger: ledgerSvc},
		OrderHandler:  &OrderHandler{Order: orderSvc, Repo: orderRepo},
		CartHandler:   &CartHandler{Cart: cartSvc},
		PromoHandler:  &PromoHandler{Promos: promoRepo},
		AdminHandler:  &AdminHandler{Ledger: ledgerSvc, Order: orderSvc, Orders: orderRepo},
		VendorHandler: &VendorHandler{Ledger: ledgerSvc, Orders: orderRepo},
	}
}
