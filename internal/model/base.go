package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel holds the identity and audit timestamps shared by every entity.
// ID and CreatedAt are assigned once by the owning store and never patched.
type BaseModel struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID returns a time-ordered (v7) UUID, so ids sort by creation.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func stamp(now time.Time) BaseModel {
	return BaseModel{ID: NewID(), CreatedAt: now, UpdatedAt: now}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
