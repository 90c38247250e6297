package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

// StockHandler exposes the ledger: classified reads, relative adjustments
// and absolute corrections, plus item listing/management for vendors.
type StockHandler struct {
	Ledger *services.LedgerService
}

// GET /api/v1/stock/:id
func (h *StockHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	inf, err := h.Ledger.Get(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(inf)
}

// GET /api/v1/items - active storefront items with their stock badge.
func (h *StockHandler) List(c *fiber.Ctx) error {
	items, err := h.Ledger.Stock.ListActive()
	if err != nil {
		return err
	}
	type itemView struct {
		ID             string            `json:"id"`
		Title          string            `json:"title"`
		Description    string            `json:"description"`
		Price          float64           `json:"price"`
		EffectivePrice float64           `json:"effectivePrice"`
		Level          domain.StockLevel `json:"level"`
	}
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{
			ID:             it.ID,
			Title:          it.Title,
			Description:    it.Description,
			Price:          it.Price,
			EffectivePrice: it.EffectivePrice(),
			Level:          domain.ClassifyStock(it.Qty, it.MinThreshold),
		})
	}
	return c.JSON(out)
}

type adjustReq struct {
	Delta int `json:"delta"`
}

// POST /api/v1/stock/:id/adjust - vendor restock or manual decrement.
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	var req adjustReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	if ok, err := h.ownerAllowed(c, id); !ok {
		return err
	}
	inf, err := h.Ledger.Adjust(id, req.Delta)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "stock.adjust", map[string]any{"item_id": id, "delta": req.Delta, "qty": inf.Qty})
	return c.JSON(inf)
}

type setReq struct {
	Qty int `json:"qty"`
}

// POST /api/v1/stock/:id/set - absolute correction.
func (h *StockHandler) Set(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	var req setReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	if ok, err := h.ownerAllowed(c, id); !ok {
		return err
	}
	inf, err := h.Ledger.Set(id, req.Qty)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "stock.set", map[string]any{"item_id": id, "qty": inf.Qty})
	return c.JSON(inf)
}

type createItemReq struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	Qty           int      `json:"qty"`
	MinThreshold  int      `json:"minThreshold"`
	MaxCapacity   int      `json:"maxCapacity"`
}

// POST /api/v1/items - vendor lists a new sellable unit.
func (h *StockHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req createItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	title, ok := validate.Name(req.Title)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title must be 1-40 characters"})
	}
	if req.Price < 0 || (req.DiscountPrice != nil && (*req.DiscountPrice < 0 || *req.DiscountPrice > req.Price)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "discount must be between 0 and price"})
	}
	if req.MaxCapacity <= 0 || req.Qty < 0 || req.Qty > req.MaxCapacity || req.MinThreshold < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity out of range"})
	}
	it := domain.StockItem{
		ID:            uuid.NewString(),
		SellerID:      u.ID,
		Title:         title,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Qty:           req.Qty,
		MinThreshold:  req.MinThreshold,
		MaxCapacity:   req.MaxCapacity,
	}
	if err := h.Ledger.Stock.Create(it); err != nil {
		return err
	}
	applog.Audit(c, "item.create", map[string]any{"item_id": it.ID, "seller_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": it.ID})
}

type pricingReq struct {
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
}

// POST /api/v1/items/:id/pricing - vendor updates price and discount.
// Order lines already placed keep their captured price.
func (h *StockHandler) SetPricing(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	var req pricingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	if req.Price < 0 || (req.DiscountPrice != nil && (*req.DiscountPrice < 0 || *req.DiscountPrice > req.Price)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "discount must be between 0 and price"})
	}
	if ok, err := h.ownerAllowed(c, id); !ok {
		return err
	}
	if err := h.Ledger.Stock.SetPricing(id, req.Price, req.DiscountPrice); err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "item.pricing", map[string]any{"item_id": id, "price": req.Price})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/items/:id/deactivate
func (h *StockHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	if ok, err := h.ownerAllowed(c, id); !ok {
		return err
	}
	if err := h.Ledger.Stock.Deactivate(id); err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "item.deactivate", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// ownerAllowed admits the item's seller or an admin. When it returns
// false the response has already been written.
func (h *StockHandler) ownerAllowed(c *fiber.Ctx, itemID string) (bool, error) {
	u := currentUser(c)
	if u == nil {
		return false, c.SendStatus(fiber.StatusForbidden)
	}
	if u.Role == "ADMIN" {
		return true, nil
	}
	it, err := h.Ledger.Stock.Get(itemID)
	if err != nil {
		return false, respondErr(c, err)
	}
	if it.SellerID != u.ID {
		applog.Security(c, "access.denied.item", map[string]any{"item_id": itemID, "user_id": u.ID})
		return false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your item"})
	}
	return true, nil
}
