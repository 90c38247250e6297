package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bazaar/internal/domain"
)

// respondErr maps core errors onto JSON responses that name the specific
// item/order and conflict, so clients can render an actionable prompt.
func respondErr(c *fiber.Ctx, err error) error {
	var (
		insufficient *domain.InsufficientStockError
		capacity     *domain.CapacityExceededError
		badQty       *domain.InvalidQuantityError
		badMove      *domain.InvalidTransitionError
		wrongSeller  *domain.SellerMismatchError
	)
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "insufficient_stock",
			"itemId":    insufficient.ItemID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
			"message":   insufficient.Error(),
		})
	case errors.As(err, &capacity):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":       "capacity_exceeded",
			"itemId":      capacity.ItemID,
			"requested":   capacity.Requested,
			"maxCapacity": capacity.MaxCapacity,
			"message":     capacity.Error(),
		})
	case errors.As(err, &badQty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_quantity",
			"qty":     badQty.Qty,
			"message": badQty.Error(),
		})
	case errors.As(err, &badMove):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "invalid_transition",
			"orderId": badMove.OrderID,
			"from":    string(badMove.From),
			"to":      string(badMove.To),
			"message": badMove.Error(),
		})
	case errors.As(err, &wrongSeller):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "seller_mismatch",
			"itemId":   wrongSeller.ItemID,
			"sellerId": wrongSeller.SellerID,
			"message":  wrongSeller.Error(),
		})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item_not_found"})
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order_not_found"})
	case errors.Is(err, domain.ErrInvalidPromoCode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_promo_code"})
	case errors.Is(err, domain.ErrPaymentNotCaptured):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "payment_not_captured"})
	case errors.Is(err, domain.ErrEmptyOrder):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty_order"})
	}
	return err // let the app-level error handler log and mask it
}
