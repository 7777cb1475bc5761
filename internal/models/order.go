package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

type OrderStatus string

// An order starts Pending and stays there; the terminal outcome lives
// in PaymentStatus.
const (
	OrderPending OrderStatus = "Pending"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID                 string        `bun:"id,pk" json:"id"`
	TransactionID      string        `bun:"transaction_id,unique,notnull" json:"transactionId"`
	UserID             string        `bun:"user_id,notnull" json:"userId"`
	User               UserSnapshot  `bun:"embed:user_" json:"user"`
	BookingIDs         []string      `bun:"booking_ids" json:"bookingIds"`
	TotalPayableAmount float64       `bun:"total_payable_amount,notnull" json:"totalPayableAmount"`
	Status             OrderStatus   `bun:"status,notnull" json:"status"`
	PaymentStatus      PaymentStatus `bun:"payment_status,notnull" json:"paymentStatus"`
	PaymentSessionID   string        `bun:"payment_session_id,nullzero" json:"paymentSessionId,omitempty"`
	CreatedAt          time.Time     `bun:"created_at,notnull" json:"createdAt"`
}

type OrderRequest struct {
	BookingIDs []string `json:"bookingIds"`
}

type OrderResponse struct {
	OrderID            string  `json:"orderId"`
	TransactionID      string  `json:"transactionId"`
	TotalPayableAmount float64 `json:"totalPayableAmount"`
	PaymentURL         string  `json:"paymentUrl,omitempty"`
}
