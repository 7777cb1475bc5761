// Package users is the read side of the identity store. Accounts are
// provisioned by the identity provider; this service only looks them
// up to snapshot payer details onto orders.
package users

import (
	"context"

	"ms-facility-booking/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) Lookup(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}
