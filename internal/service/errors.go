package service

import (
	"errors"

	"github.com/campushub/cafe/internal/backend"
)

// Validation errors, raised before any call to the backend.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoItemSelected = errors.New("select an item first")
	ErrNotPending     = errors.New("request is no longer pending")
)

// User-facing messages. The *Failed ones are fallbacks for backend errors that
// carry no message of their own.
const (
	msgOrderFailed   = "error placing order"
	msgStockFailed   = "error updating stock"
	msgApproveFailed = "error approving request"
	msgRejectFailed  = "error rejecting request"
	msgRequestFailed = "error sending request"
	msgOrderPlaced   = "order placed, total Rs. "
	msgStockUpdated  = "stock updated"
	msgApproved      = "request approved"
	msgRejected      = "request rejected"
	msgRequestSent   = "request sent"
)

// Error is a failed user action. Error() is the text shown to the user; the
// underlying backend failure is kept for logging and errors.As.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func actionFailed(err error, fallback string) *Error {
	return &Error{Message: backend.MessageOr(err, fallback), Err: err}
}
