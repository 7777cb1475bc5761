package order

import "errors"

var (
	ErrInvalidBookingSet         = errors.New("booking set is not payable by this user")
	ErrPaymentSessionFailed      = errors.New("payment session could not be opened")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
)
