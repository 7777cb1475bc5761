package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Phone     string    `bun:"phone,nullzero" json:"phone,omitempty"`
	Address   string    `bun:"address,nullzero" json:"address,omitempty"`
	Role      string    `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// UserSnapshot is the identity captured on an order at checkout time.
// It is never refreshed afterwards, so a receipt always shows the
// details that were current when the order was placed.
type UserSnapshot struct {
	Name    string `bun:"name" json:"name"`
	Email   string `bun:"email" json:"email"`
	Phone   string `bun:"phone,nullzero" json:"phone,omitempty"`
	Address string `bun:"address,nullzero" json:"address,omitempty"`
}

func SnapshotOf(u User) UserSnapshot {
	return UserSnapshot{
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
	}
}
