package errors

import (
	"errors"
	"fmt"
)

// Common error types for the hostel server
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrLockedOut          = errors.New("too many failed attempts")

	// Signup / OTP errors
	ErrAlreadyExists      = errors.New("already exists")
	ErrNoPendingSignup    = errors.New("no pending signup")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrTooManyOTPAttempts = errors.New("too many otp attempts")
	ErrEmailDelivery      = errors.New("email delivery failed")

	// Domain errors
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrUnknownMenuItem  = errors.New("unknown menu item")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
