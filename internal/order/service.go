// Package order coordinates checkout: it turns a set of confirmed
// bookings into a payable order, opens the payment session, and
// reconciles the provider's settlement callback against the order.
package order

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ms-facility-booking/internal/logger"
	"ms-facility-booking/internal/models"
	"ms-facility-booking/internal/payment"
	"ms-facility-booking/internal/utils"

	"github.com/google/uuid"
)

// User-facing settlement outcomes, rendered on the confirmation page.
const (
	SettledMessage  = "Successfully Paid! All bookings have been cleared."
	FailedMessage   = "Payment Failed!"
	NotFoundMessage = "Order not found!"
)

type DBLayer interface {
	CreateOrder(order models.Order) error
	GetOrderByTransactionID(transactionID string) (*models.Order, error)
	SetPaymentSession(transactionID, sessionID string) error
	Settle(transactionID string, bookingIDs []string) (bool, error)
}

// BookingStore is the slice of the booking layer an order needs: load
// the bookings a user wants to pay for.
type BookingStore interface {
	BookingsByIDs(ids []string) ([]models.Booking, error)
}

type UserDirectory interface {
	Lookup(id string) (*models.User, error)
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB       DBLayer
	Bookings BookingStore
	Users    UserDirectory
	Provider payment.Provider
	Kafka    KafkaPublisher
	logger   *logger.Logger

	topicCreated string
	topicPaid    string
}

func NewService(db DBLayer, bookings BookingStore, users UserDirectory, provider payment.Provider, kafka KafkaPublisher, log *logger.Logger, topicCreated, topicPaid string) *Service {
	return &Service{
		DB:           db,
		Bookings:     bookings,
		Users:        users,
		Provider:     provider,
		Kafka:        kafka,
		logger:       log,
		topicCreated: topicCreated,
		topicPaid:    topicPaid,
	}
}

// SettlementResult carries the outcome of a confirmation callback. An
// unknown transaction or an unpaid session is a result, not an error;
// errors are reserved for infrastructure failures.
type SettlementResult struct {
	Settled bool
	Message string
	Order   *models.Order
}

// CreateOrder builds one payable order from the caller's confirmed
// bookings and opens a checkout session for the total. The payer's
// identity is snapshotted onto the order at this moment. If the order
// persists but the session cannot be opened, the order stays Pending
// and the error reports ErrPaymentSessionFailed.
func (s *Service) CreateOrder(userID string, bookingIDs []string) (*models.Order, *payment.Session, error) {
	ids := dedupe(bookingIDs)
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("%w: no bookings given", ErrInvalidBookingSet)
	}

	bookings, err := s.Bookings.BookingsByIDs(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if len(bookings) != len(ids) {
		return nil, nil, fmt.Errorf("%w: %d of %d bookings not found", ErrInvalidBookingSet, len(ids)-len(bookings), len(ids))
	}

	var total float64
	for _, b := range bookings {
		if b.UserID != userID {
			return nil, nil, fmt.Errorf("%w: booking %s belongs to another user", ErrInvalidBookingSet, b.ID)
		}
		if b.Status != models.BookingConfirmed {
			return nil, nil, fmt.Errorf("%w: booking %s is %s", ErrInvalidBookingSet, b.ID, b.Status)
		}
		total += b.PayableAmount
	}

	user, err := s.Users.Lookup(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: user %s not found", ErrInvalidBookingSet, userID)
		}
		return nil, nil, fmt.Errorf("user lookup failed: %w", err)
	}

	order := models.Order{
		ID:                 uuid.NewString(),
		TransactionID:      utils.GenerateTransactionID(),
		UserID:             userID,
		User:               models.SnapshotOf(*user),
		BookingIDs:         ids,
		TotalPayableAmount: total,
		Status:             models.OrderPending,
		PaymentStatus:      models.PaymentPending,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.DB.CreateOrder(order); err != nil {
		return nil, nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.publish(s.topicCreated, order)
	s.info("ORDER", fmt.Sprintf("[CREATE] %s - txn %s, %d bookings, total %.2f", order.ID, order.TransactionID, len(ids), total))

	sess, err := s.Provider.OpenSession(payment.SessionRequest{
		TransactionID:   order.TransactionID,
		Amount:          total,
		Description:     fmt.Sprintf("Facility booking payment (%d bookings)", len(ids)),
		CustomerName:    user.Name,
		CustomerEmail:   user.Email,
		CustomerPhone:   user.Phone,
		CustomerAddress: user.Address,
	})
	if err != nil {
		// The order is already on record. It stays Pending so the
		// client can retry payment against the same transaction.
		s.warn("ORDER", fmt.Sprintf("[ORPHANED] %s - payment session failed: %v", order.TransactionID, err))
		return &order, nil, fmt.Errorf("%w: %v", ErrPaymentSessionFailed, err)
	}

	if err := s.DB.SetPaymentSession(order.TransactionID, sess.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to record payment session: %w", err)
	}
	order.PaymentSessionID = sess.ID

	s.logPayment("SESSION", order.TransactionID, fmt.Sprintf("checkout session %s attached", sess.ID))
	return &order, sess, nil
}

// ConfirmSettlement reconciles a provider callback. The payment is
// verified against the provider before anything changes, and the
// actual settlement is a single conditional transition, so duplicate
// and concurrent callbacks for the same transaction converge on one
// settled order.
func (s *Service) ConfirmSettlement(transactionID string) (*SettlementResult, error) {
	order, err := s.DB.GetOrderByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &SettlementResult{Settled: false, Message: NotFoundMessage}, nil
		}
		return nil, fmt.Errorf("failed to load order %s: %w", transactionID, err)
	}

	if order.PaymentStatus == models.PaymentPaid {
		// Duplicate callback after settlement. Report success again.
		return &SettlementResult{Settled: true, Message: SettledMessage, Order: order}, nil
	}

	if order.PaymentSessionID == "" {
		s.warn("ORDER", fmt.Sprintf("[SETTLE] %s - no payment session to verify", transactionID))
		return &SettlementResult{Settled: false, Message: FailedMessage, Order: order}, nil
	}

	paid, err := s.Provider.Verify(order.PaymentSessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentVerificationFailed, err)
	}
	if !paid {
		s.info("ORDER", fmt.Sprintf("[SETTLE] %s - session %s not paid", transactionID, order.PaymentSessionID))
		return &SettlementResult{Settled: false, Message: FailedMessage, Order: order}, nil
	}

	won, err := s.DB.Settle(transactionID, order.BookingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to settle order %s: %w", transactionID, err)
	}

	order.PaymentStatus = models.PaymentPaid
	order.BookingIDs = nil
	if won {
		s.publish(s.topicPaid, *order)
		s.logPayment("SETTLE", transactionID, "payment settled, bookings cleared")
	}
	return &SettlementResult{Settled: true, Message: SettledMessage, Order: order}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Service) publish(topic string, order models.Order) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(order)
	if err != nil {
		s.warn("KAFKA", fmt.Sprintf("failed to marshal order event: %v", err))
		return
	}
	if err := s.Kafka.Publish(topic, order.TransactionID, value); err != nil {
		s.warn("KAFKA", fmt.Sprintf("publish to %s failed: %v", topic, err))
	}
}

func (s *Service) info(category, message string) {
	if s.logger != nil {
		s.logger.Info(category, message)
	}
}

func (s *Service) warn(category, message string) {
	if s.logger != nil {
		s.logger.Warn(category, message)
	}
}

func (s *Service) logPayment(operation, transactionID, message string) {
	if s.logger != nil {
		s.logger.LogPayment(operation, transactionID, message)
	}
}
