package handler

import (
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/service"
	"go-bizkeeper/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *store.OrderStore
	intake service.IntakeService
	log    *zap.Logger
}

func NewOrderHandler(orders *store.OrderStore, intake service.IntakeService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, intake: intake, log: log}
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// CreateOrder places an order through intake. A receipt failure is
// reported in the body; the order is created either way.
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	res, err := h.intake.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if res.ReceiptErr() != nil {
		h.log.Warn("order created without receipt",
			zap.String("code", res.Order.Code),
			zap.String("by", getUserEmail(c)),
			zap.Error(res.ReceiptErr()),
		)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": res})
}

// GetOrders lists orders newest first
// GET /api/v1/orders?status=&customer_id=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders := h.orders.List()
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		orders = h.orders.FindByCustomer(id)
	}
	if status := model.OrderStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown status"})
		}
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	o, err := h.orders.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(o)
}

// UpdateStatus moves the order to a new status
// PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	o, err := h.orders.UpdateStatus(id, req.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated", "data": o})
}

// ToggleItem flips the delivered flag of one item
// POST /api/v1/orders/:id/items/:itemId/toggle
func (h *OrderHandler) ToggleItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	o, err := h.orders.ToggleItemDelivered(id, itemID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": o})
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	if err := h.orders.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}

// Receipt prints and shares the receipt again
// POST /api/v1/orders/:id/receipt?pending=true
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	rr, err := h.intake.Receipt(c.UserContext(), id, c.QueryBool("pending"))
	if err != nil {
		if rr != nil {
			return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error(), "data": rr})
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Receipt published", "data": rr})
}
