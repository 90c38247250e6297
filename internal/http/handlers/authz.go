package handlers

import (
	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser enforces a logged-in session; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireRole admits only the named roles. ADMIN passes everywhere.
func RequireRole(auth *services.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		if u.Role != "ADMIN" {
			ok := false
			for _, r := range roles {
				if u.Role == r {
					ok = true
					break
				}
			}
			if !ok {
				applog.Security(c, "access.denied", map[string]any{"sid": sid, "role": u.Role})
				return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
			}
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireVendor(auth *services.AuthService) fiber.Handler {
	return RequireRole(auth, "VENDOR")
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return RequireRole(auth)
}

// currentUser pulls the user RequireUser/RequireRole stashed in Locals.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
