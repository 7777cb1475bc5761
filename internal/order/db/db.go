package db

import (
	"context"
	"database/sql"

	"ms-facility-booking/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// CreateOrder → insert new order
func (d *DB) CreateOrder(order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

// GetOrderByID → fetch one order by its ID
func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByTransactionID → fetch by the payment-provider join key
func (d *DB) GetOrderByTransactionID(transactionID string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("transaction_id = ?", transactionID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetPaymentSession → attach the provider session handle to the order
func (d *DB) SetPaymentSession(transactionID, sessionID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("payment_session_id = ?", sessionID).
		Where("transaction_id = ?", transactionID).
		Exec(context.Background())
	return err
}

// Settle finalizes a verified payment in one transaction: the order
// flips Pending to Paid, its booking list is emptied, and the paid
// bookings are removed from the active store. The conditional update
// makes the whole thing idempotent: a concurrent duplicate delivery
// affects zero rows and reports won=false without touching bookings.
func (d *DB) Settle(transactionID string, bookingIDs []string) (bool, error) {
	won := false
	err := d.Bun.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Order)(nil)).
			Set("payment_status = ?", models.PaymentPaid).
			Set("booking_ids = ?", "[]").
			Where("transaction_id = ?", transactionID).
			Where("payment_status = ?", models.PaymentPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		won = true

		if len(bookingIDs) == 0 {
			return nil
		}
		_, err = tx.NewDelete().
			Model((*models.Booking)(nil)).
			Where("id IN (?)", bun.In(bookingIDs)).
			Exec(ctx)
		return err
	})
	if err != nil {
		return false, err
	}
	return won, nil
}
