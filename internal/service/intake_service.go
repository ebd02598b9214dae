package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-bizkeeper/internal/metrics"
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/receipt"
	"go-bizkeeper/internal/store"
	"go-bizkeeper/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

type ProductCatalog interface {
	Get(id uuid.UUID) (model.Product, error)
}

type CustomerDirectory interface {
	Get(id uuid.UUID) (model.Customer, error)
	AddIfPhoneUnseen(in model.NewCustomer) (model.Customer, bool, error)
}

type OrderBook interface {
	Add(in model.NewOrder) (model.Order, error)
	Get(id uuid.UUID) (model.Order, error)
}

type ReceiptRenderer interface {
	Render(s receipt.Snapshot) (receipt.Document, error)
}

type ReceiptPublisher interface {
	Publish(ctx context.Context, doc receipt.Document) (string, error)
}

type PlaceOrderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// PlaceOrderRequest names either an existing customer or a name and phone.
// An unseen phone adds the customer to the directory.
type PlaceOrderRequest struct {
	CustomerID     *uuid.UUID       `json:"customer_id,omitempty"`
	CustomerName   string           `json:"customer_name"`
	Phone          string           `json:"phone"`
	Address        *string          `json:"address,omitempty"`
	Items          []PlaceOrderLine `json:"items" validate:"required,min=1,dive"`
	Total          *decimal.Decimal `json:"total,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	PublishReceipt bool             `json:"publish_receipt"`
}

type PlaceOrderResult struct {
	Order           model.Order    `json:"order"`
	Customer        model.Customer `json:"customer"`
	CustomerCreated bool           `json:"customer_created"`
	Receipt         *ReceiptResult `json:"receipt,omitempty"`
	ReceiptError    string         `json:"receipt_error,omitempty"`
	receiptErr      error
}

// ReceiptErr is the receipt failure, if any. The order stands regardless.
func (r *PlaceOrderResult) ReceiptErr() error { return r.receiptErr }

type ReceiptResult struct {
	Code  string          `json:"code"`
	URI   string          `json:"uri"`
	Total decimal.Decimal `json:"total"`
}

type IntakeService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error)
	Receipt(ctx context.Context, orderID uuid.UUID, pendingOnly bool) (*ReceiptResult, error)
}

type intakeService struct {
	products  ProductCatalog
	customers CustomerDirectory
	orders    OrderBook
	renderer  ReceiptRenderer
	publisher ReceiptPublisher
	log       *zap.Logger
}

func NewIntakeService(products ProductCatalog, customers CustomerDirectory, orders OrderBook,
	renderer ReceiptRenderer, publisher ReceiptPublisher, log *zap.Logger) IntakeService {
	return &intakeService{
		products:  products,
		customers: customers,
		orders:    orders,
		renderer:  renderer,
		publisher: publisher,
		log:       log,
	}
}

func (s *intakeService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if err := validator.First(req); err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrValidation, err.Error())
	}

	customer, created, err := s.resolveCustomer(req)
	if err != nil {
		return nil, err
	}

	items := make([]model.NewOrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		p, err := s.products.Get(line.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if p.Stock <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
		items = append(items, model.NewOrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			UnitPrice: p.Price,
			Quantity:  line.Quantity,
		})
	}

	customerID := customer.ID
	order, err := s.orders.Add(model.NewOrder{
		CustomerID:   &customerID,
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		Items:        items,
		Total:        req.Total,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	metrics.OrderRevenue.Add(order.Total.InexactFloat64())
	s.log.Info("order placed",
		zap.String("code", order.Code),
		zap.String("customer", order.CustomerName),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Bool("customer_created", created),
	)

	res := &PlaceOrderResult{Order: order, Customer: customer, CustomerCreated: created}
	if req.PublishReceipt {
		rr, err := s.publish(ctx, order, false)
		if err != nil {
			res.receiptErr = err
			res.ReceiptError = err.Error()
		}
		res.Receipt = rr
	}
	return res, nil
}

func (s *intakeService) Receipt(ctx context.Context, orderID uuid.UUID, pendingOnly bool) (*ReceiptResult, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, order, pendingOnly)
}

func (s *intakeService) resolveCustomer(req PlaceOrderRequest) (model.Customer, bool, error) {
	if req.CustomerID != nil {
		c, err := s.customers.Get(*req.CustomerID)
		return c, false, err
	}
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.Phone) == "" {
		return model.Customer{}, false, store.ErrMissingContact
	}
	return s.customers.AddIfPhoneUnseen(model.NewCustomer{
		Name:    req.CustomerName,
		Phone:   req.Phone,
		Address: req.Address,
	})
}

// publish renders and hands off a receipt. A failed share still returns
// the printed URI.
func (s *intakeService) publish(ctx context.Context, order model.Order, pendingOnly bool) (*ReceiptResult, error) {
	doc, err := s.renderer.Render(receipt.SnapshotFromOrder(order, pendingOnly))
	if err != nil {
		metrics.ObserveReceipt(err)
		return nil, err
	}
	uri, err := s.publisher.Publish(ctx, doc)
	metrics.ObserveReceipt(err)
	if err != nil {
		s.log.Warn("receipt publish failed", zap.String("code", order.Code), zap.Error(err))
		if uri == "" {
			return nil, err
		}
		return &ReceiptResult{Code: doc.Code, URI: uri, Total: doc.Total}, err
	}
	return &ReceiptResult{Code: doc.Code, URI: uri, Total: doc.Total}, nil
}
