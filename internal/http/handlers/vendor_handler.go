package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

// VendorHandler is the seller back-office: own items with badges, restock
// form, own orders.
type VendorHandler struct {
	Ledger *services.LedgerService
	Orders *repos.OrderRepo
}

// GET /vendor/inventory
func (h *VendorHandler) Inventory(c *fiber.Ctx) error {
	u := currentUser(c)
	items, err := h.Ledger.Stock.ListBySeller(u.ID)
	if err != nil {
		applog.Error(c, "vendor.inventory.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	rows := make([]inventoryRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, inventoryRow{Item: it, Level: domain.ClassifyStock(it.Qty, it.MinThreshold)})
	}
	return render(c, "vendor_inventory", fiber.Map{"Rows": rows})
}

// POST /vendor/inventory/adjust - restock (or manual write-off) by delta.
func (h *VendorHandler) Adjust(c *fiber.Ctx) error {
	u := currentUser(c)
	pid, okID := validate.ID(c.FormValue("item_id"))
	delta, okD := validate.Delta(c.FormValue("delta"))
	if !okID || !okD {
		return c.Status(400).SendString("invalid input")
	}
	it, err := h.Ledger.Stock.Get(pid)
	if err != nil {
		return c.Status(404).SendString("item not found")
	}
	if it.SellerID != u.ID {
		applog.Security(c, "access.denied.item", map[string]any{"item_id": pid, "user_id": u.ID})
		return c.Status(403).SendString("not your item")
	}
	if _, err := h.Ledger.Adjust(pid, delta); err != nil {
		applog.Error(c, "vendor.adjust.fail", err, map[string]any{"item": pid, "delta": delta})
		return c.Status(400).SendString(err.Error())
	}
	applog.Audit(c, "vendor.adjust", map[string]any{"item": pid, "delta": delta})
	return c.Redirect("/vendor/inventory")
}

// GET /vendor/orders
func (h *VendorHandler) OrdersPage(c *fiber.Ctx) error {
	u := currentUser(c)
	ords, err := h.Orders.ListBySeller(u.ID)
	if err != nil {
		applog.Error(c, "vendor.orders.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "vendor_orders", fiber.Map{"Orders": ords})
}
