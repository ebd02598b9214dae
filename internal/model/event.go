package model

import (
	"time"

	"github.com/google/uuid"
)

// ChangeEvent is emitted after every successful store mutation.
type ChangeEvent struct {
	Type    string    `json:"type"`
	Action  string    `json:"action"`
	Entity  string    `json:"entity"`
	ID      uuid.UUID `json:"id"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

const (
	EntityProduct  = "product"
	EntityCustomer = "customer"
	EntityOrder    = "order"
	EntityAuth     = "auth"
	EntitySettings = "settings"
)
