package receipt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-bizkeeper/internal/model"
	"go-bizkeeper/pkg/blob"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleOrder() model.Order {
	in := model.NewOrder{
		CustomerName: "Ann <script>",
		Phone:        "555-1234",
		Items: []model.NewOrderItem{
			{ProductID: model.NewID(), Name: "Widget", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 2},
			{ProductID: model.NewID(), Name: "Gadget", UnitPrice: decimal.RequireFromString("3.00"), Quantity: 1},
		},
	}
	return in.Build(time.Date(2025, time.September, 4, 10, 0, 0, 0, time.UTC), "25SEP-007")
}

func TestFormatter_Render(t *testing.T) {
	f := NewFormatter("The Feathers", "Rs.")
	o := sampleOrder()
	doc, err := f.Render(SnapshotFromOrder(o, false))
	require.NoError(t, err)

	assert.Equal(t, "13.00", doc.Total.StringFixed(2))
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "10.00", doc.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "3.00", doc.Lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, "receipt-25SEP-007-"+o.ID.String()+".html", doc.FileName)

	html := string(doc.HTML)
	assert.Contains(t, html, "The Feathers")
	assert.Contains(t, html, "25SEP-007")
	assert.Contains(t, html, "Rs. 13.00")
	assert.Contains(t, html, "Rs. 10.00")
	assert.Contains(t, html, "04 Sep 2025")
	assert.Contains(t, html, "Ann &lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestFormatter_GrandTotalIsSumOfLines(t *testing.T) {
	in := model.NewOrder{CustomerName: "Bob", Phone: "1"}
	for _, p := range []string{"0.333", "1.005", "2.675"} {
		in.Items = append(in.Items, model.NewOrderItem{ProductID: model.NewID(), Name: "x", UnitPrice: decimal.RequireFromString(p), Quantity: 3})
	}
	doc, err := NewFormatter("Shop", "$").Render(SnapshotFromOrder(in.Build(time.Now(), "25JAN-001"), false))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, l := range doc.Lines {
		sum = sum.Add(l.LineTotal)
	}
	assert.True(t, sum.Equal(doc.Total), "%s != %s", sum, doc.Total)
}

func TestSnapshotFromOrder_PendingOnly(t *testing.T) {
	o := sampleOrder()
	o.Items[0].Delivered = true

	doc, err := NewFormatter("The Feathers", "Rs.").Render(SnapshotFromOrder(o, true))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Gadget", doc.Lines[0].Name)
	assert.Equal(t, "3.00", doc.Total.StringFixed(2))
	assert.Equal(t, "receipt-25SEP-007-"+o.ID.String()+"-pending.html", doc.FileName)
	assert.Contains(t, string(doc.HTML), "Remaining Total")

	o.Items[1].Delivered = true
	_, err = NewFormatter("The Feathers", "Rs.").Render(SnapshotFromOrder(o, true))
	assert.ErrorIs(t, err, ErrEmptyReceipt)
}

// --- Mocks ---

type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) RenderToFile(ctx context.Context, doc Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

type MockSharer struct {
	mock.Mock
}

func (m *MockSharer) Share(ctx context.Context, uri string, doc Document) error {
	args := m.Called(ctx, uri, doc)
	return args.Error(0)
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	doc := Document{Code: "25SEP-007", FileName: "receipt-25SEP-007.html", HTML: []byte("<html></html>")}

	t.Run("Success", func(t *testing.T) {
		printer, sharer := new(MockPrinter), new(MockSharer)
		printer.On("RenderToFile", ctx, doc).Return("file:///r.html", nil)
		sharer.On("Share", ctx, "file:///r.html", doc).Return(nil)

		uri, err := NewPublisher(printer, sharer).Publish(ctx, doc)
		assert.NoError(t, err)
		assert.Equal(t, "file:///r.html", uri)
		printer.AssertExpectations(t)
		sharer.AssertExpectations(t)
	})

	t.Run("Print failure", func(t *testing.T) {
		printer, sharer := new(MockPrinter), new(MockSharer)
		printer.On("RenderToFile", ctx, doc).Return("", errors.New("disk full"))

		_, err := NewPublisher(printer, sharer).Publish(ctx, doc)
		assert.ErrorIs(t, err, ErrPrint)
		assert.ErrorContains(t, err, "disk full")
		sharer.AssertNotCalled(t, "Share", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Share failure", func(t *testing.T) {
		printer, sharer := new(MockPrinter), new(MockSharer)
		printer.On("RenderToFile", ctx, doc).Return("file:///r.html", nil)
		sharer.On("Share", ctx, "file:///r.html", doc).Return(errors.New("no share target"))

		uri, err := NewPublisher(printer, sharer).Publish(ctx, doc)
		assert.ErrorIs(t, err, ErrShare)
		assert.Equal(t, "file:///r.html", uri)
	})
}

func TestBlobPrinter_WritesHTML(t *testing.T) {
	ctx := context.Background()
	store, err := blob.NewLocal(t.TempDir(), "http://localhost:3000/storage")
	require.NoError(t, err)

	o := sampleOrder()
	doc, err := NewFormatter("The Feathers", "Rs.").Render(SnapshotFromOrder(o, false))
	require.NoError(t, err)

	pub := NewPublisher(NewBlobPrinter(store, ""), NewLogSharer(zap.NewNop()))
	uri, err := pub.Publish(ctx, doc)
	require.NoError(t, err)
	name := "receipts/receipt-25SEP-007-" + o.ID.String() + ".html"
	assert.Equal(t, "http://localhost:3000/storage/"+name, uri)

	stored, err := store.Get(ctx, name)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(stored), "Rs. 13.00"))

	_, err = store.Get(ctx, "receipts/receipt-25SEP-007.html")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestFormatter_FileNameNotDerivableFromCode(t *testing.T) {
	f := NewFormatter("The Feathers", "Rs.")
	a, b := sampleOrder(), sampleOrder()
	docA, err := f.Render(SnapshotFromOrder(a, false))
	require.NoError(t, err)
	docB, err := f.Render(SnapshotFromOrder(b, false))
	require.NoError(t, err)

	assert.Equal(t, docA.Code, docB.Code)
	assert.NotEqual(t, docA.FileName, docB.FileName)
	assert.Contains(t, docA.FileName, a.ID.String())
}
