package db

import (
	"context"
	"time"

	"ms-facility-booking/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// CreateBooking → insert new booking
func (d *DB) CreateBooking(booking models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&booking).Exec(context.Background())
	return err
}

// GetBookingByID → fetch one booking by its ID
func (d *DB) GetBookingByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking → update the mutable fields of a booking
func (d *DB) UpdateBooking(booking models.Booking) error {
	_, err := d.Bun.NewUpdate().
		Model(&booking).
		Column("status").
		Where("id = ?", booking.ID).
		Exec(context.Background())
	return err
}

// ConfirmedByDate → all confirmed bookings on a calendar date, any facility
func (d *DB) ConfirmedByDate(date time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("date = ?", date).
		Where("status = ?", models.BookingConfirmed).
		Order("start_time").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ConfirmedByFacilityAndDate → confirmed bookings for one facility on a date
func (d *DB) ConfirmedByFacilityAndDate(facilityID string, date time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("facility_id = ?", facilityID).
		Where("date = ?", date).
		Where("status = ?", models.BookingConfirmed).
		Order("start_time").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// AllBookings → admin projection with facility and user resolved
func (d *DB) AllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Relation("Facility").
		Relation("User").
		Order("booking.created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// BookingsByUser → one user's bookings with facility resolved
func (d *DB) BookingsByUser(userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Relation("Facility").
		Where("booking.user_id = ?", userID).
		Order("booking.created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// BookingsByIDs → fetch the given bookings, preserving nothing about order
func (d *DB) BookingsByIDs(ids []string) ([]models.Booking, error) {
	if len(ids) == 0 {
		return []models.Booking{}, nil
	}
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("id IN (?)", bun.In(ids)).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
