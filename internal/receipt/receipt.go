// Package receipt renders order receipts as printable HTML and hands them to
// the print and share collaborators.
package receipt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrEmptyReceipt = errors.New("receipt has no items")

//go:embed receipt.html.tmpl
var receiptTemplate string

// Snapshot is everything a receipt shows, captured from one order.
type Snapshot struct {
	OrderID      uuid.UUID
	Code         string
	CustomerName string
	Phone        string
	Date         time.Time
	Items        []model.OrderItem
	PendingOnly  bool
}

// SnapshotFromOrder captures order for rendering. With pendingOnly only the
// undelivered items are kept, and the total covers just those.
func SnapshotFromOrder(o model.Order, pendingOnly bool) Snapshot {
	o = o.Clone()
	items := o.Items
	if pendingOnly {
		items = o.PendingItems()
	}
	return Snapshot{
		OrderID:      o.ID,
		Code:         o.Code,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Date:         o.CreatedAt,
		Items:        items,
		PendingOnly:  pendingOnly,
	}
}

type Line struct {
	Name      string
	Image     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Document is a rendered receipt.
type Document struct {
	OrderID  uuid.UUID
	Code     string
	Lines    []Line
	Total    decimal.Decimal
	HTML     []byte
	FileName string
}

// Formatter renders snapshots. It holds no state besides its settings and
// is safe for concurrent use.
type Formatter struct {
	businessName string
	currency     string
	tmpl         *template.Template
}

func NewFormatter(businessName, currencyPrefix string) *Formatter {
	f := &Formatter{businessName: businessName, currency: currencyPrefix}
	f.tmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
		"money": f.Money,
		"date":  func(t time.Time) string { return t.Format("02 Jan 2006") },
	}).Parse(receiptTemplate))
	return f
}

// Money formats an amount with the currency prefix and two decimals.
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.currency + " " + d.StringFixed(2)
}

// Render lists every item with its line total and a grand total equal to
// the sum of the line totals.
func (f *Formatter) Render(s Snapshot) (Document, error) {
	if len(s.Items) == 0 {
		return Document{}, ErrEmptyReceipt
	}

	doc := Document{
		OrderID:  s.OrderID,
		Code:     s.Code,
		Lines:    make([]Line, 0, len(s.Items)),
		FileName: fmt.Sprintf("receipt-%s-%s.html", s.Code, s.OrderID),
	}
	// the order id keeps receipt URLs unguessable from the sequential code
	if s.PendingOnly {
		doc.FileName = fmt.Sprintf("receipt-%s-%s-pending.html", s.Code, s.OrderID)
	}
	for _, it := range s.Items {
		line := Line{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
		}
		if it.Image != nil {
			line.Image = *it.Image
		}
		doc.Lines = append(doc.Lines, line)
	}
	doc.Total = model.SumLineTotals(s.Items)

	var buf bytes.Buffer
	err := f.tmpl.Execute(&buf, map[string]any{
		"Business": f.businessName,
		"Snapshot": s,
		"Lines":    doc.Lines,
		"Total":    doc.Total,
	})
	if err != nil {
		return Document{}, fmt.Errorf("render receipt %s: %w", s.Code, err)
	}
	doc.HTML = buf.Bytes()
	return doc, nil
}
