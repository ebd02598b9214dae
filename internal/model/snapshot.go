package model

import "time"

// SnapshotEntry is one namespaced key in the persisted key-value storage.
type SnapshotEntry struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SnapshotEntry) TableName() string {
	return "kv_entries"
}
