package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPhone      = errors.New("phone must be a 10-digit mobile number")
	ErrInvalidCodeFormat = errors.New("code must be 6 digits")
	ErrOTPNotFound       = errors.New("no active code for this phone, request a new one")
	ErrOTPExpired        = errors.New("code expired, request a new one")
	ErrInvalidCode       = errors.New("invalid code")

	ErrOrderNotFound       = errors.New("order not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrTableOccupied       = errors.New("table is occupied by another order")
	ErrAlreadyOccupied     = errors.New("table already occupied")
	ErrPaymentNotConfirmed = errors.New("confirm payment before starting preparation")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrConflict            = errors.New("order was changed concurrently, refresh and retry")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// InvalidCodeError is returned for a wrong OTP and matches ErrInvalidCode.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	if e.Remaining <= 0 {
		return "invalid code, no attempts left, request a new one"
	}
	return fmt.Sprintf("invalid code, %d attempt(s) left", e.Remaining)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// ValidationError reports a bad request field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// TransitionError wraps ErrInvalidTransition with the edge that was refused.
type TransitionError struct {
	From, To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
