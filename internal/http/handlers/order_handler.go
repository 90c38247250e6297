package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

type placeOrderReq struct {
	SellerID  string             `json:"sellerId"`
	Lines     []services.LineReq `json:"lines"`
	PromoCode string             `json:"promoCode"`
}

// POST /api/v1/orders - checkout submission.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)
	var req placeOrderReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	sellerID, ok := validate.ID(req.SellerID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid seller id"})
	}
	promo, ok := validate.Promo(req.PromoCode)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid promo code"})
	}

	o, err := h.Order.Create(u.ID, sellerID, req.Lines, promo)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"buyer_id": u.ID, "error": err.Error()})
		return respondErr(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": o.Total, "lines": len(req.Lines)})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/v1/orders/:id - buyer, seller or admin.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, err := h.Repo.Get(oid)
	if err != nil {
		return respondErr(c, err)
	}
	if u.ID != o.BuyerID && u.ID != o.SellerID && u.Role != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid, "user_id": u.ID})
		// Not-found rather than forbidden: don't confirm the order exists.
		return respondErr(c, domain.ErrOrderNotFound)
	}
	lines, err := h.Repo.Lines(oid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"order": o, "lines": lines})
}

// GET /api/v1/orders - the caller's own orders (buyer side, seller side for
// vendors).
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	var (
		orders []domain.Order
		err    error
	)
	if u.Role == "VENDOR" {
		orders, err = h.Repo.ListBySeller(u.ID)
	} else {
		orders, err = h.Repo.ListByBuyer(u.ID)
	}
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

type statusReq struct {
	Status string `json:"status"`
}

// POST /api/v1/orders/:id/status - seller or admin moves the order.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	target, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status", "status": req.Status})
	}

	o, err := h.Repo.Get(oid)
	if err != nil {
		return respondErr(c, err)
	}
	// Buyers may cancel their own orders while still open; everything else
	// is the seller's (or admin's) call.
	allowed := u.Role == "ADMIN" || u.ID == o.SellerID ||
		(u.ID == o.BuyerID && target == domain.StatusCancelled)
	if !allowed {
		applog.Security(c, "access.denied.transition", map[string]any{"order_id": oid, "user_id": u.ID})
		return respondErr(c, domain.ErrOrderNotFound)
	}

	updated, err := h.Order.Transition(oid, target)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": oid, "from": string(o.Status), "to": string(target)})
	return c.JSON(updated)
}

// POST /api/v1/orders/:id/refund - seller or admin.
func (h *OrderHandler) Refund(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, err := h.Repo.Get(oid)
	if err != nil {
		return respondErr(c, err)
	}
	if u.Role != "ADMIN" && u.ID != o.SellerID {
		applog.Security(c, "access.denied.refund", map[string]any{"order_id": oid, "user_id": u.ID})
		return respondErr(c, domain.ErrOrderNotFound)
	}
	updated, err := h.Order.Refund(oid)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "order.refund", map[string]any{"order_id": oid})
	return c.JSON(updated)
}

type payReq struct {
	Captured bool `json:"captured"`
}

// POST /api/v1/orders/:id/pay - payment gateway callback seam. Only the
// order's parties (or an admin) may report a capture.
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	var req payReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	o, err := h.Repo.Get(oid)
	if err != nil {
		return respondErr(c, err)
	}
	if u.ID != o.BuyerID && u.ID != o.SellerID && u.Role != "ADMIN" {
		applog.Security(c, "access.denied.pay", map[string]any{"order_id": oid, "user_id": u.ID})
		// Not-found rather than forbidden: don't confirm the order exists.
		return respondErr(c, domain.ErrOrderNotFound)
	}
	updated, err := h.Order.MarkPaid(oid, req.Captured)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "order.pay", map[string]any{"order_id": oid, "captured": req.Captured})
	return c.JSON(updated)
}
