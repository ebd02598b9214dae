package repository

import (
	"context"
	"errors"

	"go-bizkeeper/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository is the persisted key-value storage every store writes
// its collection to, one namespaced key per store.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

type snapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepository {
	return &snapshotRepo{db}
}

// Migrate creates the key-value table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.SnapshotEntry{})
}

func (r *snapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var entry model.SnapshotEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Save upserts the value under key; last write wins.
func (r *snapshotRepo) Save(ctx context.Context, key string, value []byte) error {
	entry := model.SnapshotEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *snapshotRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.SnapshotEntry{}).Error
}

func (r *snapshotRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&model.SnapshotEntry{}).Order("key ASC").Pluck("key", &keys).Error
	return keys, err
}
