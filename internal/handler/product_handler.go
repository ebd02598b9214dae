package handler

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/store"
	"go-bizkeeper/pkg/blob"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products          *store.ProductStore
	blobs             blob.Store
	lowStockThreshold int
	log               *zap.Logger
}

func NewProductHandler(products *store.ProductStore, blobs blob.Store, lowStockThreshold int, log *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, blobs: blobs, lowStockThreshold: lowStockThreshold, log: log}
}

type stockRequest struct {
	Stock *int `json:"stock"`
}

// GetProducts lists the catalog
// GET /api/v1/products?q=&low_stock=true
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	if c.QueryBool("low_stock") {
		return c.JSON(h.products.LowStock(h.lowStockThreshold))
	}
	return c.JSON(h.products.Search(c.Query("q")))
}

func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(model.Categories)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	p, err := h.products.Get(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.NewProduct
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	p, err := h.products.Add(req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": p})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var patch model.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	p, err := h.products.Update(id, patch)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": p})
}

// UpdateStock sets an absolute stock level
// PUT /api/v1/products/:id/stock
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req stockRequest
	if err := c.BodyParser(&req); err != nil || req.Stock == nil {
		return c.Status(400).JSON(fiber.Map{"error": "stock is required"})
	}
	p, err := h.products.UpdateStock(id, *req.Stock)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "data": p})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.products.Delete(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// UploadImage stores the picked image and points the product at it. An
// upload without a file is a cancelled pick and changes nothing.
// POST /api/v1/products/:id/image
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if _, err := h.products.Get(id); err != nil {
		return respondError(c, h.log, err)
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, fasthttp.ErrMissingFile) || (err == nil && fh.Size == 0) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Expected multipart form with an image field"})
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(400).JSON(fiber.Map{"error": "Only image uploads are accepted"})
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, h.log, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, h.log, err)
	}

	name := path.Join("products", id.String(), model.NewID().String()+path.Ext(fh.Filename))
	if err := h.blobs.Put(c.UserContext(), name, data, contentType); err != nil {
		return respondError(c, h.log, fmt.Errorf("store image: %w", err))
	}
	url := h.blobs.URL(name)
	p, err := h.products.Update(id, model.ProductPatch{Image: &url})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Image uploaded", "data": p})
}
