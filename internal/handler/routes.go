package handler

import (
	"go-bizkeeper/internal/middleware"
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/store"
	"go-bizkeeper/internal/ws"
	"go-bizkeeper/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Routes holds everything the HTTP surface is mounted from.
type Routes struct {
	Auth        *AuthHandler
	Products    *ProductHandler
	Customers   *CustomerHandler
	Orders      *OrderHandler
	Reports     *ReportHandler
	Settings    *SettingsHandler
	Issuer      *jwt.Issuer
	Sessions    *store.AuthStore
	AuthLimiter *middleware.RateLimiter
	APILimiter  *middleware.RateLimiter
	Hub         *ws.Hub
}

// Mount registers /api/v1 and, when a hub is set, /ws.
func (r Routes) Mount(app *fiber.App) {
	api := app.Group("/api/v1")
	if r.APILimiter != nil {
		api.Use(r.APILimiter.Handler())
	}

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	if r.AuthLimiter != nil {
		auth.Use(r.AuthLimiter.Handler())
	}
	auth.Post("/login", r.Auth.Login)
	auth.Post("/register", r.Auth.Register)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(r.Issuer, r.Sessions))
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	protected.Post("/auth/logout", r.Auth.Logout)
	protected.Get("/auth/me", r.Auth.Me)

	protected.Get("/products", r.Products.GetProducts)
	protected.Get("/products/categories", r.Products.GetCategories)
	protected.Get("/products/:id", r.Products.GetProduct)
	protected.Post("/products", r.Products.CreateProduct)
	protected.Put("/products/:id", r.Products.UpdateProduct)
	protected.Put("/products/:id/stock", r.Products.UpdateStock)
	protected.Post("/products/:id/image", r.Products.UploadImage)
	protected.Delete("/products/:id", adminOnly, r.Products.DeleteProduct)

	protected.Get("/customers", r.Customers.GetCustomers)
	protected.Get("/customers/:id", r.Customers.GetCustomer)
	protected.Post("/customers", r.Customers.CreateCustomer)
	protected.Put("/customers/:id", r.Customers.UpdateCustomer)
	protected.Delete("/customers/:id", adminOnly, r.Customers.DeleteCustomer)
	protected.Get("/customers/:id/orders", r.Customers.GetCustomerOrders)
	protected.Get("/customers/:id/links", r.Customers.GetLinks)
	protected.Post("/customers/:id/launch/:kind", r.Customers.Launch)

	protected.Get("/orders", r.Orders.GetOrders)
	protected.Post("/orders", r.Orders.CreateOrder)
	protected.Get("/orders/:id", r.Orders.GetOrder)
	protected.Patch("/orders/:id/status", r.Orders.UpdateStatus)
	protected.Post("/orders/:id/items/:itemId/toggle", r.Orders.ToggleItem)
	protected.Post("/orders/:id/receipt", r.Orders.Receipt)
	protected.Delete("/orders/:id", adminOnly, r.Orders.DeleteOrder)

	protected.Get("/reports/dashboard", r.Reports.GetDashboard)
	protected.Get("/reports/sales", r.Reports.GetSales)

	protected.Get("/settings", r.Settings.GetSettings)
	protected.Put("/settings", r.Settings.UpdateSettings)

	if r.Hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !r.Hub.Join(c) {
			return
		}
		defer r.Hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
