package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-hostel-server/attendance"
	"github.com/jrsteele09/go-hostel-server/auth"
	"github.com/jrsteele09/go-hostel-server/billing"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/requests"
	"github.com/rs/zerolog/log"
)

const (
	msgInternal       = "Internal server error"
	msgUnauthorized   = "Authentication required"
	msgLockedOut      = "Too many failed login attempts. Please try again later."
	msgInvalidAdmin   = "Invalid admin password"
	msgEmailDelivery  = "Failed to send verification email"
	msgNotFound       = "Not found"
	msgNoPending      = "No pending signup found for this email"
	msgInvalidOTP     = "Invalid OTP"
	msgOTPExpired     = "OTP has expired. Please request a new one"
	msgTooManyOTP     = "Too many incorrect attempts. Please request a new OTP"
	msgCheckedIn      = "Already checked in today"
	msgStudentIDTaken = "Student ID is already registered"
	msgEmailTaken     = "Email is already registered"
)

type errorResponse struct {
	Error         string `json:"error"`
	Locked        bool   `json:"locked,omitempty"`
	RemainingTime *int   `json:"remainingTime,omitempty"`
	AttemptsLeft  *int   `json:"attemptsLeft,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeServiceError maps an error from the service layer onto the JSON error
// envelope. Unknown errors are logged and reported as an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *auth.ValidationError
		lockoutErr     *auth.LockoutError
		credentialsErr *auth.CredentialsError
	)

	switch {
	case apperrors.As(err, &validationErr):
		writeErr(w, http.StatusBadRequest, validationErr.Error())
	case apperrors.As(err, &lockoutErr):
		remaining := lockoutErr.RemainingTime
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msgLockedOut, Locked: true, RemainingTime: &remaining})
	case apperrors.As(err, &credentialsErr):
		left := credentialsErr.AttemptsLeft
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.InvalidStudentCredentialsMsg, AttemptsLeft: &left})
	case apperrors.Is(err, auth.StudentIDTakenErr):
		writeErr(w, http.StatusConflict, msgStudentIDTaken)
	case apperrors.Is(err, auth.EmailTakenErr):
		writeErr(w, http.StatusConflict, msgEmailTaken)
	case apperrors.Is(err, apperrors.ErrNoPendingSignup):
		writeErr(w, http.StatusNotFound, msgNoPending)
	case apperrors.Is(err, apperrors.ErrInvalidOTP):
		writeErr(w, http.StatusBadRequest, msgInvalidOTP)
	case apperrors.Is(err, apperrors.ErrOTPExpired):
		writeErr(w, http.StatusBadRequest, msgOTPExpired)
	case apperrors.Is(err, apperrors.ErrTooManyOTPAttempts):
		writeErr(w, http.StatusTooManyRequests, msgTooManyOTP)
	case apperrors.Is(err, apperrors.ErrAlreadyCheckedIn):
		writeErr(w, http.StatusConflict, msgCheckedIn)
	case apperrors.Is(err, requests.ErrReturnByInPast):
		writeErr(w, http.StatusBadRequest, "Return time must be in the future")
	case apperrors.Is(err, attendance.ErrInvalidDate),
		apperrors.Is(err, billing.ErrInvalidQuantity),
		apperrors.Is(err, apperrors.ErrUnknownMenuItem):
		writeErr(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, apperrors.ErrInvalidState):
		writeErr(w, http.StatusConflict, "Request cannot be moved to that status")
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeErr(w, http.StatusNotFound, msgNotFound)
	case apperrors.Is(err, apperrors.ErrEmailDelivery):
		log.Err(err).Str("path", r.URL.Path).Msg("email delivery failed")
		writeErr(w, http.StatusInternalServerError, msgEmailDelivery)
	default:
		log.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, msgInternal)
	}
}
