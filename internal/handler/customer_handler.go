package handler

import (
	"go-bizkeeper/internal/launcher"
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customers *store.CustomerStore
	orders    *store.OrderStore
	launcher  *launcher.Launcher
	log       *zap.Logger
}

func NewCustomerHandler(customers *store.CustomerStore, orders *store.OrderStore, l *launcher.Launcher, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders, launcher: l, log: log}
}

// GetCustomers searches the directory. q matches name or phone; name and
// phone can also be given separately.
// GET /api/v1/customers?q=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		return c.JSON(h.customers.Search(q, q))
	}
	return c.JSON(h.customers.Search(c.Query("name"), c.Query("phone")))
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	cust, err := h.customers.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cust)
}

// CreateCustomer adds a customer. With ?dedupe=true an existing phone
// returns the existing customer with 200 instead.
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req model.NewCustomer
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if c.QueryBool("dedupe") {
		cust, created, err := h.customers.AddIfPhoneUnseen(req)
		if err != nil {
			return respondError(c, h.log, err)
		}
		if !created {
			return c.JSON(fiber.Map{"message": "Customer already exists", "data": cust})
		}
		return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": cust})
	}

	cust, err := h.customers.Add(req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": cust})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	var patch model.CustomerPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	cust, err := h.customers.Update(id, patch)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": cust})
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	if err := h.customers.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

func (h *CustomerHandler) GetCustomerOrders(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	return c.JSON(h.orders.FindByCustomer(id))
}

// GetLinks returns the call and WhatsApp links for the customer
// GET /api/v1/customers/:id/links
func (h *CustomerHandler) GetLinks(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	cust, err := h.customers.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	links, err := launcher.LinksFor(cust.Phone)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(links)
}

// Launch asks the opener to open the call or WhatsApp link
// POST /api/v1/customers/:id/launch/:kind
func (h *CustomerHandler) Launch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	cust, err := h.customers.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var uri string
	switch c.Params("kind") {
	case "call":
		uri, err = launcher.PhoneURI(cust.Phone)
	case "whatsapp":
		uri, err = launcher.WhatsAppURI(cust.Phone)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "kind must be call or whatsapp"})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.launcher.Open(c.UserContext(), uri); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Link opened", "uri": uri})
}
