package auth

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
)

const InvalidStudentCredentialsMsg = "Invalid student ID or password"

var (
	StudentIDTakenErr = fmt.Errorf("student ID is already registered: %w", apperrors.ErrAlreadyExists)
	EmailTakenErr     = fmt.Errorf("email is already registered: %w", apperrors.ErrAlreadyExists)
)

// CredentialsError is returned for a failed login that did not lock the
// identifier. It matches apperrors.ErrInvalidCredentials.
type CredentialsError struct {
	AttemptsLeft int
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts left", e.AttemptsLeft)
}

func (e *CredentialsError) Is(target error) bool {
	return target == apperrors.ErrInvalidCredentials
}

// LockoutError is returned while an identifier is locked, including for the
// failure that triggered the lock. It matches apperrors.ErrLockedOut.
type LockoutError struct {
	RemainingTime int // seconds
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %d seconds", e.RemainingTime)
}

func (e *LockoutError) Is(target error) bool {
	return target == apperrors.ErrLockedOut
}
