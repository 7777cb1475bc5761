package db

import (
	"context"

	"ms-facility-booking/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// CreateFacility → insert new facility
func (d *DB) CreateFacility(facility models.Facility) error {
	_, err := d.Bun.NewInsert().Model(&facility).Exec(context.Background())
	return err
}

// GetFacilityByID → fetch one facility by id, soft-deleted rows excluded
func (d *DB) GetFacilityByID(id string) (*models.Facility, error) {
	var facility models.Facility
	err := d.Bun.NewSelect().
		Model(&facility).
		Where("id = ?", id).
		Where("is_deleted = ?", false).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &facility, nil
}

// UpdateFacility → update catalog fields
func (d *DB) UpdateFacility(facility models.Facility) error {
	_, err := d.Bun.NewUpdate().
		Model(&facility).
		Column("name", "description", "price_per_hour", "location").
		Where("id = ?", facility.ID).
		Exec(context.Background())
	return err
}

// SoftDeleteFacility → mark as deleted, the row stays for old bookings
func (d *DB) SoftDeleteFacility(id string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Facility)(nil)).
		Set("is_deleted = ?", true).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// AllFacilities → the live catalog
func (d *DB) AllFacilities() ([]models.Facility, error) {
	var facilities []models.Facility
	err := d.Bun.NewSelect().
		Model(&facilities).
		Where("is_deleted = ?", false).
		Order("name").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return facilities, nil
}
