// Package store holds the in-memory entity stores. Each store owns one
// collection, serialises its mutations, persists a snapshot of the whole
// collection under its own key after every change and publishes a change
// event for subscribers.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-bizkeeper/internal/metrics"
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/repository"
	"go-bizkeeper/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys, one per store.
const (
	ProductStorageKey  = "product-storage"
	CustomerStorageKey = "customer-storage"
	OrderStorageKey    = "order-storage"
	AuthStorageKey     = "auth-storage"
	ThemeStorageKey    = "theme-storage"
)

// Loader reads a persisted snapshot.
type Loader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

// Persister accepts snapshots for fire-and-forget saving.
type Persister interface {
	Enqueue(key string, value []byte)
}

// Notifier receives a change event after every successful mutation.
type Notifier interface {
	Publish(event model.ChangeEvent)
}

// Deps are the collaborators shared by every store. Zero values are
// replaced with no-op implementations.
type Deps struct {
	Loader    Loader
	Persister Persister
	Notifier  Notifier
	Logger    *zap.Logger
	Clock     func() time.Time
}

type nopPersister struct{}

func (nopPersister) Enqueue(string, []byte) {}

type nopNotifier struct{}

func (nopNotifier) Publish(model.ChangeEvent) {}

type nopLoader struct{}

func (nopLoader) Load(context.Context, string) ([]byte, error) {
	return nil, repository.ErrSnapshotNotFound
}

func (d Deps) withDefaults() Deps {
	if d.Loader == nil {
		d.Loader = nopLoader{}
	}
	if d.Persister == nil {
		d.Persister = nopPersister{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

// load decodes the snapshot under key into dst. A missing snapshot leaves
// dst untouched and reports found=false.
func (d Deps) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := d.Loader.Load(ctx, key)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (d Deps) persist(key string, snapshot any) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		d.Logger.Error("failed to encode snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	d.Persister.Enqueue(key, raw)
}

func (d Deps) publish(entity, action string, id uuid.UUID, data any, message string) {
	metrics.ObserveMutation(entity, action)
	d.Notifier.Publish(model.ChangeEvent{
		Type:    "store_update",
		Action:  action,
		Entity:  entity,
		ID:      id,
		Data:    data,
		Message: message,
		At:      d.Clock(),
	})
}

func validate(input any) error {
	if err := validator.First(input); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}
