package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	// BookingUnconfirmed is the zero-value status of a booking before
	// validation. The create path always persists bookings as confirmed,
	// so this status is currently never stored.
	BookingUnconfirmed BookingStatus = "unconfirmed"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingCanceled    BookingStatus = "canceled"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID            string        `bun:"id,pk" json:"id"`
	FacilityID    string        `bun:"facility_id,notnull" json:"facilityId"`
	UserID        string        `bun:"user_id,notnull" json:"userId"`
	Date          time.Time     `bun:"date,notnull" json:"date"`
	StartTime     time.Time     `bun:"start_time,notnull" json:"startTime"`
	EndTime       time.Time     `bun:"end_time,notnull" json:"endTime"`
	PayableAmount float64       `bun:"payable_amount,notnull" json:"payableAmount"`
	Status        BookingStatus `bun:"status,notnull" json:"status"`
	CreatedAt     time.Time     `bun:"created_at,notnull" json:"createdAt"`

	Facility *Facility `bun:"rel:belongs-to,join:facility_id=id" json:"facility,omitempty"`
	User     *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

type BookingRequest struct {
	Date       string `json:"date"`      // YYYY-MM-DD
	StartTime  string `json:"startTime"` // HH:MM
	EndTime    string `json:"endTime"`   // HH:MM
	FacilityID string `json:"facility"`
}

// TimeSlot is a bookable window within the business day, rendered in
// HH:MM form the way the availability endpoint reports it.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
