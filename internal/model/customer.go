package model

import (
	"strings"
	"time"
)

type Customer struct {
	BaseModel
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address *string `json:"address,omitempty"`
}

type NewCustomer struct {
	Name    string  `json:"name" validate:"notblank"`
	Phone   string  `json:"phone" validate:"notblank"`
	Address *string `json:"address,omitempty"`
}

type CustomerPatch struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Address *string `json:"address,omitempty"`
}

func (in NewCustomer) Build(now time.Time) Customer {
	c := Customer{
		BaseModel: stamp(now),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
	}
	if in.Address != nil && strings.TrimSpace(*in.Address) != "" {
		c.Address = cloneString(in.Address)
	}
	return c
}

func (p CustomerPatch) Apply(c *Customer, now time.Time) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		if strings.TrimSpace(*p.Address) == "" {
			c.Address = nil
		} else {
			c.Address = cloneString(p.Address)
		}
	}
	c.UpdatedAt = now
}

func (c Customer) Clone() Customer {
	c.Address = cloneString(c.Address)
	return c
}
