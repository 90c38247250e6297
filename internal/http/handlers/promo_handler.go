package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/validate"
)

// PromoHandler is the admin surface for promo codes.
type PromoHandler struct {
	Promos *repos.PromoRepo
}

// GET /api/v1/promos
func (h *PromoHandler) List(c *fiber.Ctx) error {
	promos, err := h.Promos.ListAll()
	if err != nil {
		return err
	}
	return c.JSON(promos)
}

type promoReq struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
}

// POST /api/v1/promos - create or update a code.
func (h *PromoHandler) Upsert(c *fiber.Ctx) error {
	var req promoReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	code, ok := validate.Promo(req.Code)
	if !ok || code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid promo code"})
	}
	if req.Percent < 0 || req.Percent > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "percent must be 0-100"})
	}
	if err := h.Promos.Upsert(domain.PromoCode{Code: code, Percent: req.Percent}); err != nil {
		return err
	}
	applog.Audit(c, "promo.upsert", map[string]any{"code": code, "percent": req.Percent})
	return c.JSON(fiber.Map{"ok": true})
}
