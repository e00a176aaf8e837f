package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Is reports whether err is an AppError carrying the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Domain error kinds. Every core operation returns one of these on a
// precondition failure so callers can branch on a stable code rather than
// message text.

func InsufficientFunds(message string) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func ListingNotAvailable(message string) *AppError {
	return Conflict("LISTING_NOT_AVAILABLE", message)
}

func CannotBuyOwn() *AppError {
	return &AppError{
		Code:    "CANNOT_BUY_OWN",
		Message: "You cannot buy your own listing",
		Status:  http.StatusBadRequest,
	}
}

func NotParty(message string) *AppError {
	return &AppError{
		Code:    "NOT_PARTY",
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func AlreadyConfirmed() *AppError {
	return Conflict("ALREADY_CONFIRMED", "You have already confirmed this trade")
}

func TradeNotPending(message string) *AppError {
	return &AppError{
		Code:    "TRADE_NOT_PENDING",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NotPendingRelease(message string) *AppError {
	return Conflict("NOT_PENDING_RELEASE", message)
}

func DisputeOpen() *AppError {
	return Conflict("DISPUTE_OPEN", "An open dispute blocks this operation")
}

func DuplicateReport() *AppError {
	return Conflict("DUPLICATE_REPORT", "You have already filed a report for this dispute")
}

func DisputeNotOpen() *AppError {
	return &AppError{
		Code:    "DISPUTE_NOT_OPEN",
		Message: "Dispute is not open",
		Status:  http.StatusBadRequest,
	}
}

func InvalidWinner(winner string) *AppError {
	return &AppError{
		Code:    "INVALID_WINNER",
		Message: fmt.Sprintf("Invalid dispute winner %q, must be buyer or seller", winner),
		Status:  http.StatusBadRequest,
	}
}

func AlreadyProcessed(resource string) *AppError {
	return Conflict("ALREADY_PROCESSED", fmt.Sprintf("%s has already been processed", resource))
}

func PayoutFailed(err error) *AppError {
	return &AppError{
		Code:    "PAYOUT_FAILED",
		Message: "External payout could not be completed; funds remain debited and the request stays approved",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}
