package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bazaar/internal/services"
	"bazaar/internal/validate"
)

// CartHandler prices client-held carts. The server never stores a cart;
// it only answers quotes.
type CartHandler struct {
	Cart *services.CartService
}

type quoteReq struct {
	Lines     []services.LineReq `json:"lines"`
	PromoCode string             `json:"promoCode"`
}

// POST /api/v1/cart/quote
func (h *CartHandler) Quote(c *fiber.Ctx) error {
	var req quoteReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	promo, ok := validate.Promo(req.PromoCode)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid promo code"})
	}
	totals, lines, err := h.Cart.Quote(req.Lines, promo)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"totals": totals, "lines": lines})
}
