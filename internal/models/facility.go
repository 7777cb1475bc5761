package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Facility struct {
	bun.BaseModel `bun:"table:facilities"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Description  string    `bun:"description,nullzero" json:"description,omitempty"`
	PricePerHour float64   `bun:"price_per_hour,notnull" json:"pricePerHour"`
	Location     string    `bun:"location,nullzero" json:"location,omitempty"`
	IsDeleted    bool      `bun:"is_deleted,notnull,default:false" json:"isDeleted"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"createdAt"`
}

type FacilityRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	PricePerHour float64 `json:"pricePerHour"`
	Location     string  `json:"location"`
}
