package booking

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ms-facility-booking/internal/logger"
	"ms-facility-booking/internal/models"
	"ms-facility-booking/internal/slots"

	"github.com/google/uuid"
)

type DBLayer interface {
	CreateBooking(booking models.Booking) error
	GetBookingByID(id string) (*models.Booking, error)
	UpdateBooking(booking models.Booking) error
	ConfirmedByDate(date time.Time) ([]models.Booking, error)
	ConfirmedByFacilityAndDate(facilityID string, date time.Time) ([]models.Booking, error)
	AllBookings() ([]models.Booking, error)
	BookingsByUser(userID string) ([]models.Booking, error)
}

// SlotLock serializes conflict-check-and-insert per facility and date.
type SlotLock interface {
	LockSlot(facilityID string, date time.Time, holder string) (bool, error)
	UnlockSlot(facilityID string, date time.Time, holder string) error
}

type FacilityDirectory interface {
	Lookup(id string) (*models.Facility, error)
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB       DBLayer
	Lock     SlotLock
	Facility FacilityDirectory
	Kafka    KafkaPublisher
	Slots    slots.Config
	logger   *logger.Logger

	topicCreated  string
	topicCanceled string
}

func NewService(db DBLayer, lock SlotLock, facility FacilityDirectory, kafka KafkaPublisher, slotCfg slots.Config, log *logger.Logger, topicCreated, topicCanceled string) *Service {
	return &Service{
		DB:            db,
		Lock:          lock,
		Facility:      facility,
		Kafka:         kafka,
		Slots:         slotCfg,
		logger:        log,
		topicCreated:  topicCreated,
		topicCanceled: topicCanceled,
	}
}

// ParseAvailabilityDate accepts the DD-MM-YYYY form the availability
// endpoint takes and normalizes it to a UTC calendar date.
func ParseAvailabilityDate(s string) (time.Time, error) {
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected DD-MM-YYYY", ErrInvalidDate, s)
	}
	return NormalizeDate(t), nil
}

// NormalizeDate truncates an instant to its UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckAvailability returns the catalog windows that do not overlap any
// confirmed booking on the given date. The result is a point-in-time
// snapshot: a window reported free can still be taken by a concurrent
// booking before the caller acts on it.
func (s *Service) CheckAvailability(date time.Time) ([]models.TimeSlot, error) {
	catalog, err := s.Slots.Catalog()
	if err != nil {
		return nil, err
	}

	bookings, err := s.DB.ConfirmedByDate(NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	free := make([]models.TimeSlot, 0, len(catalog))
	for _, slot := range catalog {
		slotStart, err := slots.ParseClock(slot.StartTime)
		if err != nil {
			return nil, err
		}
		slotEnd, err := slots.ParseClock(slot.EndTime)
		if err != nil {
			return nil, err
		}

		taken := false
		for _, b := range bookings {
			if slots.Overlaps(slotStart, slotEnd, slots.MinutesOfDay(b.StartTime), slots.MinutesOfDay(b.EndTime)) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free, nil
}

// CreateBooking validates and prices the request, then runs the
// conflict check and insert as one critical section per facility and
// date so that concurrent overlapping requests cannot both succeed.
func (s *Service) CreateBooking(req models.BookingRequest, userID string) (*models.Booking, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, req.Date)
	}
	date = NormalizeDate(date)

	startMin, err := slots.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	endMin, err := slots.ParseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidTimeRange, req.StartTime, req.EndTime)
	}

	facility, err := s.Facility.Lookup(req.FacilityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, fmt.Errorf("facility lookup failed: %w", err)
	}

	start := date.Add(time.Duration(startMin) * time.Minute)
	end := date.Add(time.Duration(endMin) * time.Minute)

	// Priced once at creation, never recomputed.
	payable := end.Sub(start).Hours() * facility.PricePerHour

	booking := models.Booking{
		ID:            uuid.NewString(),
		FacilityID:    req.FacilityID,
		UserID:        userID,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		PayableAmount: payable,
		Status:        models.BookingConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	ok, err := s.Lock.LockSlot(req.FacilityID, date, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("slot lock error: %w", err)
	}
	if !ok {
		// Another creation for this facility/date holds the critical
		// section; it may be about to take this interval.
		return nil, ErrSlotConflict
	}
	defer func() {
		if err := s.Lock.UnlockSlot(req.FacilityID, date, booking.ID); err != nil {
			s.warn("BOOKING", fmt.Sprintf("failed to release slot lock for %s on %s: %v", req.FacilityID, req.Date, err))
		}
	}()

	existing, err := s.DB.ConfirmedByFacilityAndDate(req.FacilityID, date)
	if err != nil {
		return nil, fmt.Errorf("conflict check failed: %w", err)
	}
	for _, b := range existing {
		if slots.Overlaps(startMin, endMin, slots.MinutesOfDay(b.StartTime), slots.MinutesOfDay(b.EndTime)) {
			return nil, ErrSlotConflict
		}
	}

	if err := s.DB.CreateBooking(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.publish(s.topicCreated, booking)
	s.info("BOOKING", fmt.Sprintf("[CREATE] %s - facility %s %s %s-%s amount %.2f", booking.ID, booking.FacilityID, req.Date, req.StartTime, req.EndTime, payable))
	return &booking, nil
}

// CancelBooking is owner-only and idempotent: canceling a booking that
// is already canceled succeeds without another state change.
func (s *Service) CancelBooking(bookingID, callerID string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	if booking.UserID != callerID {
		return nil, ErrForbidden
	}

	if booking.Status == models.BookingCanceled {
		return booking, nil
	}

	booking.Status = models.BookingCanceled
	if err := s.DB.UpdateBooking(*booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
	}

	s.publish(s.topicCanceled, *booking)
	s.info("BOOKING", fmt.Sprintf("[CANCEL] %s - slot released", booking.ID))
	return booking, nil
}

func (s *Service) AllBookings() ([]models.Booking, error) {
	return s.DB.AllBookings()
}

func (s *Service) UserBookings(userID string) ([]models.Booking, error) {
	return s.DB.BookingsByUser(userID)
}

func (s *Service) publish(topic string, booking models.Booking) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(booking)
	if err != nil {
		s.warn("KAFKA", fmt.Sprintf("failed to marshal booking event: %v", err))
		return
	}
	if err := s.Kafka.Publish(topic, booking.ID, value); err != nil {
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
