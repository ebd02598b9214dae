package receipt

import (
	"context"
	"errors"
	"fmt"
	"path"

	"go-bizkeeper/pkg/blob"

	"go.uber.org/zap"
)

var (
	ErrPrint = errors.New("receipt print failed")
	ErrShare = errors.New("receipt share failed")
)

// Printer turns a document into a file and returns its URI.
type Printer interface {
	RenderToFile(ctx context.Context, doc Document) (string, error)
}

// Sharer hands a printed file to the user.
type Sharer interface {
	Share(ctx context.Context, uri string, doc Document) error
}

type Publisher struct {
	printer Printer
	sharer  Sharer
}

func NewPublisher(printer Printer, sharer Sharer) *Publisher {
	return &Publisher{printer: printer, sharer: sharer}
}

// Publish prints doc and shares the resulting file. The URI is returned
// even when sharing fails.
func (p *Publisher) Publish(ctx context.Context, doc Document) (string, error) {
	uri, err := p.printer.RenderToFile(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrPrint, doc.Code, err)
	}
	if p.sharer == nil {
		return uri, nil
	}
	if err := p.sharer.Share(ctx, uri, doc); err != nil {
		return uri, fmt.Errorf("%w: %s: %w", ErrShare, doc.Code, err)
	}
	return uri, nil
}

// BlobPrinter writes the receipt HTML to blob storage.
type BlobPrinter struct {
	store  blob.Store
	prefix string
}

func NewBlobPrinter(store blob.Store, prefix string) *BlobPrinter {
	if prefix == "" {
		prefix = "receipts"
	}
	return &BlobPrinter{store: store, prefix: prefix}
}

func (p *BlobPrinter) RenderToFile(ctx context.Context, doc Document) (string, error) {
	name := path.Join(p.prefix, doc.FileName)
	if err := p.store.Put(ctx, name, doc.HTML, "text/html; charset=utf-8"); err != nil {
		return "", err
	}
	return p.store.URL(name), nil
}

// LogSharer records the share hand-off. The client opens the URI itself.
type LogSharer struct {
	log *zap.Logger
}

func NewLogSharer(log *zap.Logger) *LogSharer {
	return &LogSharer{log: log}
}

func (s *LogSharer) Share(_ context.Context, uri string, doc Document) error {
	s.log.Info("receipt ready to share",
		zap.String("code", doc.Code),
		zap.String("uri", uri),
		zap.String("total", doc.Total.StringFixed(2)),
	)
	return nil
}
