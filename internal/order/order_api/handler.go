package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-facility-booking/internal/auth"
	"ms-facility-booking/internal/logger"
	"ms-facility-booking/internal/models"
	"ms-facility-booking/internal/order"
	"ms-facility-booking/internal/payment"
	"ms-facility-booking/internal/utils"
)

type Handler struct {
	OrderService *order.Service
	Logger       *logger.Logger
}

func NewHandler(orderService *order.Service, log *logger.Logger) *Handler {
	return &Handler{
		OrderService: orderService,
		Logger:       log,
	}
}

// PlaceOrder handles POST /orders: one payable order for the caller's
// confirmed bookings, answered with the checkout URL.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("PlaceOrder: user=%s", userID))

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: failed to decode request body: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	created, sess, err := h.OrderService.CreateOrder(userID, req.BookingIDs)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidBookingSet):
			h.Logger.Error("API", fmt.Sprintf("PlaceOrder: %v", err))
			utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.Is(err, order.ErrPaymentSessionFailed):
			// Order exists but checkout could not start. Report the
			// order so the client can retry against the same txn.
			h.Logger.Error("API", fmt.Sprintf("PlaceOrder: %v", err))
			resp := utils.ErrorResponse(http.StatusBadGateway, "Order created but payment session could not be opened")
			resp.Data = models.OrderResponse{
				OrderID:            created.ID,
				TransactionID:      created.TransactionID,
				TotalPayableAmount: created.TotalPayableAmount,
			}
			utils.WriteJSON(w, resp)
		default:
			h.Logger.Error("API", fmt.Sprintf("PlaceOrder: %v", err))
			utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to place order"))
		}
		return
	}

	resp := utils.SuccessResponse("Order placed successfully", models.OrderResponse{
		OrderID:            created.ID,
		TransactionID:      created.TransactionID,
		TotalPayableAmount: created.TotalPayableAmount,
		PaymentURL:         sess.URL,
	})
	resp.StatusCode = http.StatusCreated
	utils.WriteJSON(w, resp)
}

// PaymentConfirmation is the browser return URL from checkout. It
// verifies and settles the payment, then renders an HTML receipt. The
// provider redirects with GET; some gateways POST, so both land here.
func (h *Handler) PaymentConfirmation(w http.ResponseWriter, r *http.Request) {
	transactionID := r.URL.Query().Get("transactionId")
	status := r.URL.Query().Get("status")
	h.Logger.Info("API", fmt.Sprintf("PaymentConfirmation: txn=%s status=%s", transactionID, status))

	if transactionID == "" {
		h.renderConfirmation(w, payment.ConfirmationData{Message: order.NotFoundMessage})
		return
	}

	if status == "failed" {
		// The payer canceled at the gateway. Nothing to verify.
		data := payment.ConfirmationData{Message: order.FailedMessage, TransactionID: transactionID}
		if o, err := h.OrderService.DB.GetOrderByTransactionID(transactionID); err == nil {
			data = confirmationData(order.FailedMessage, false, o)
		}
		h.renderConfirmation(w, data)
		return
	}

	result, err := h.OrderService.ConfirmSettlement(transactionID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PaymentConfirmation: %v", err))
		h.renderConfirmation(w, payment.ConfirmationData{
			Message:       "Payment could not be verified. Please contact support.",
			TransactionID: transactionID,
		})
		return
	}

	data := payment.ConfirmationData{Message: result.Message, Settled: result.Settled, TransactionID: transactionID}
	if result.Order != nil {
		data = confirmationData(result.Message, result.Settled, result.Order)
	}
	h.renderConfirmation(w, data)
}

func (h *Handler) renderConfirmation(w http.ResponseWriter, data payment.ConfirmationData) {
	page, err := payment.RenderConfirmation(data)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PaymentConfirmation: render failed: %v", err))
		http.Error(w, "failed to render confirmation", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func confirmationData(message string, settled bool, o *models.Order) payment.ConfirmationData {
	return payment.ConfirmationData{
		Message:       message,
		Settled:       settled,
		Name:          o.User.Name,
		Email:         o.User.Email,
		Phone:         o.User.Phone,
		Address:       o.User.Address,
		TransactionID: o.TransactionID,
		Amount:        o.TotalPayableAmount,
		Date:          o.CreatedAt.Format("2006-01-02"),
	}
}
