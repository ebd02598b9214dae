package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPacked    OrderStatus = "packed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusPacked, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal statuses cannot be left once reached.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order in s may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	return !s.Terminal() || s == next
}

// OrderItem is a value copy of the product at order time. Later product
// edits never reach it.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     *string         `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Delivered bool            `json:"delivered"`
}

// LineTotal is unit price times quantity, rounded to cents.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

type Order struct {
	BaseModel
	Code         string          `json:"code"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	Notes        *string         `json:"notes,omitempty"`
}

func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.Image = cloneString(it.Image)
		items[i] = it
	}
	o.Items = items
	if o.CustomerID != nil {
		id := *o.CustomerID
		o.CustomerID = &id
	}
	o.Notes = cloneString(o.Notes)
	return o
}

// PendingItems returns the items not yet delivered.
func (o Order) PendingItems() []OrderItem {
	var out []OrderItem
	for _, it := range o.Items {
		if !it.Delivered {
			out = append(out, it)
		}
	}
	return out
}

// SumLineTotals is the grand total of a set of items.
func SumLineTotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type NewOrderItem struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Name      string          `json:"name" validate:"notblank"`
	Image     *string         `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
}

// NewOrder carries the line items already priced by the caller.
// Total is optional; when set it must agree with the computed total.
type NewOrder struct {
	CustomerID   *uuid.UUID       `json:"customer_id,omitempty"`
	CustomerName string           `json:"customer_name" validate:"notblank"`
	Phone        string           `json:"phone"`
	Items        []NewOrderItem   `json:"items" validate:"required,min=1,dive"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

func (in NewOrder) Build(now time.Time, code string) Order {
	items := make([]OrderItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = OrderItem{
			ID:        NewID(),
			ProductID: it.ProductID,
			Name:      strings.TrimSpace(it.Name),
			Image:     cloneString(it.Image),
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	o := Order{
		BaseModel:    stamp(now),
		Code:         code,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		Items:        items,
		Total:        SumLineTotals(items),
		Status:       StatusPending,
	}
	if in.CustomerID != nil {
		id := *in.CustomerID
		o.CustomerID = &id
	}
	if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
		o.Notes = cloneString(in.Notes)
	}
	return o
}

var monthCodes = [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// FormatOrderCode renders YYMON-NNN for the creation time and counter.
// The counter is padded to three digits and grows beyond that when needed.
func FormatOrderCode(created time.Time, counter int) string {
	return fmt.Sprintf("%02d%s-%03d", created.Year()%100, monthCodes[created.Month()-1], counter)
}
