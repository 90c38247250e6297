package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

// AdminHandler serves the HTML console: every item with its stock badge,
// recent orders with status forms.
type AdminHandler struct {
	Ledger *services.LedgerService
	Order  *services.OrderService
	Orders *repos.OrderRepo
}

type inventoryRow struct {
	Item  domain.StockItem
	Level domain.StockLevel
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	items, err := h.Ledger.Stock.ListAll()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	var low, out int
	for _, it := range items {
		switch domain.ClassifyStock(it.Qty, it.MinThreshold) {
		case domain.LowStock:
			low++
		case domain.OutOfStock:
			out++
		}
	}
	ords, _ := h.Orders.ListLatest(10)
	return render(c, "admin_dashboard", fiber.Map{
		"ItemCount": len(items), "LowCount": low, "OutCount": out, "Orders": ords,
	})
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	items, err := h.Ledger.Stock.ListAll()
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	rows := make([]inventoryRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, inventoryRow{Item: it, Level: domain.ClassifyStock(it.Qty, it.MinThreshold)})
	}
	return render(c, "admin_inventory", fiber.Map{"Rows": rows})
}

// POST /admin/inventory - absolute correction from the console form.
func (h *AdminHandler) UpdateInventory(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.FormValue("item_id"))
	qty, err := strconv.Atoi(c.FormValue("qty"))
	if !okID || err != nil {
		return c.Status(400).SendString("invalid input")
	}
	if _, err := h.Ledger.Set(pid, qty); err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"item": pid, "qty": qty})
		return c.Status(400).SendString(err.Error())
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"item": pid, "qty": qty})
	return c.Redirect("/admin/inventory")
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status - runs through the same state machine as
// the API; the console gets no shortcut around it.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	target, ok := domain.ParseOrderStatus(c.FormValue("status"))
	if !ok {
		return c.Status(400).SendString("unknown status")
	}
	if _, err := h.Order.Transition(id, target); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString(err.Error())
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": string(target)})
	return c.Redirect("/admin/orders")
}
