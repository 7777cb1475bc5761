package booking_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ms-facility-booking/internal/auth"
	"ms-facility-booking/internal/booking"
	"ms-facility-booking/internal/logger"
	"ms-facility-booking/internal/models"
	"ms-facility-booking/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	BookingService *booking.Service
	Logger         *logger.Logger
}

func NewHandler(bookingService *booking.Service, log *logger.Logger) *Handler {
	return &Handler{
		BookingService: bookingService,
		Logger:         log,
	}
}

// CheckAvailability handles GET /check-availability?date=DD-MM-YYYY.
// Without a date it reports today's free windows.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	h.Logger.Info("API", fmt.Sprintf("CheckAvailability: date=%q", dateParam))

	var date time.Time
	if dateParam == "" {
		date = booking.NormalizeDate(time.Now())
	} else {
		var err error
		date, err = booking.ParseAvailabilityDate(dateParam)
		if err != nil {
			h.Logger.Error("API", fmt.Sprintf("CheckAvailability: %v", err))
			utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}
	}

	slots, err := h.BookingService.CheckAvailability(date)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CheckAvailability: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to check availability"))
		return
	}

	if len(slots) == 0 {
		utils.WriteJSON(w, utils.NoDataResponse())
		return
	}
	utils.WriteJSON(w, utils.SuccessResponse("Availability checked successfully", slots))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("CreateBooking: user=%s", userID))

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	created, err := h.BookingService.CreateBooking(req, userID)
	if err != nil {
		status, message := bookingErrorStatus(err)
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(status, message))
		return
	}

	resp := utils.SuccessResponse("Booking created successfully", created)
	resp.StatusCode = http.StatusCreated
	utils.WriteJSON(w, resp)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("CancelBooking: bookingId=%s user=%s", bookingID, userID))

	canceled, err := h.BookingService.CancelBooking(bookingID, userID)
	if err != nil {
		status, message := bookingErrorStatus(err)
		h.Logger.Error("API", fmt.Sprintf("CancelBooking: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(status, message))
		return
	}

	utils.WriteJSON(w, utils.SuccessResponse("Booking cancelled successfully", canceled))
}

// AllBookings is the admin view across every user.
func (h *Handler) AllBookings(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "AllBookings: received request")

	bookings, err := h.BookingService.AllBookings()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("AllBookings: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to retrieve bookings"))
		return
	}

	if len(bookings) == 0 {
		utils.WriteJSON(w, utils.NoDataResponse())
		return
	}
	utils.WriteJSON(w, utils.SuccessResponse("Bookings retrieved successfully", bookings))
}

func (h *Handler) UserBookings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("UserBookings: user=%s", userID))

	bookings, err := h.BookingService.UserBookings(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UserBookings: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to retrieve bookings"))
		return
	}

	if len(bookings) == 0 {
		utils.WriteJSON(w, utils.NoDataResponse())
		return
	}
	utils.WriteJSON(w, utils.SuccessResponse("Bookings retrieved successfully", bookings))
}

func bookingErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrInvalidTimeRange):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, booking.ErrFacilityNotFound):
		return http.StatusNotFound, "Facility not found"
	case errors.Is(err, booking.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, booking.ErrSlotConflict):
		return http.StatusConflict, "Requested slot is already booked"
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden, "You do not own this booking"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
