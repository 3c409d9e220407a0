package otp

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/pkg/errors"
)

const DefaultMaxAttempts = 5

// Service keeps one challenge per email address.
type Service struct {
	records     *store.Collection[Record]
	mailer      *Mailer
	expiry      time.Duration
	maxAttempts int
	nowFunc     func() time.Time
	generate    func() (string, error)
}

type ServiceOption func(*Service)

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func WithExpiry(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.expiry = d
	}
}

func WithMaxAttempts(n int) ServiceOption {
	return func(s *Service) {
		s.maxAttempts = n
	}
}

// WithGenerator replaces the code generator (tests use a fixed code).
func WithGenerator(gen func() (string, error)) ServiceOption {
	return func(s *Service) {
		s.generate = gen
	}
}

func NewService(kv store.KV, mailer *Mailer, options ...ServiceOption) *Service {
	s := &Service{
		records:     store.NewCollection[Record](kv, "otp"),
		mailer:      mailer,
		expiry:      DefaultExpiry,
		maxAttempts: DefaultMaxAttempts,
		nowFunc:     time.Now,
		generate:    Generate,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue replaces any existing challenge for email with a fresh one and mails it.
func (s *Service) Issue(ctx context.Context, email, name string) error {
	email = normalizeEmail(email)

	if err := s.records.Delete(ctx, email); err != nil && !errors.Is(err, store.ErrNotFound) {
		return errors.Wrap(err, "[otp Issue] failed to remove previous code")
	}

	code, err := s.generate()
	if err != nil {
		return errors.Wrap(err, "[otp Issue] failed to generate code")
	}

	rec := &Record{Email: email, OTP: code, CreatedAt: s.nowFunc()}
	if err := s.records.Put(ctx, email, rec); err != nil {
		return errors.Wrap(err, "[otp Issue] failed to store code")
	}

	if !s.mailer.SendOTPEmail(ctx, email, code, name) {
		return apperrors.ErrEmailDelivery
	}
	return nil
}

// Verify checks code against the stored challenge. A matching code consumes the
// challenge; expired challenges and challenges that ran out of attempts are
// deleted too.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if !ValidFormat(code) {
		return apperrors.ErrInvalidOTP
	}

	rec, err := s.records.Get(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.ErrInvalidOTP
	}
	if err != nil {
		return errors.Wrap(err, "[otp Verify] failed to load code")
	}

	if rec.Verified {
		return apperrors.ErrInvalidOTP
	}

	if isExpiredAfter(rec.CreatedAt, s.nowFunc(), s.expiry) {
		_ = s.records.Delete(ctx, email)
		return apperrors.ErrOTPExpired
	}

	if rec.Attempts >= s.maxAttempts {
		_ = s.records.Delete(ctx, email)
		return apperrors.ErrTooManyOTPAttempts
	}

	if subtle.ConstantTimeCompare([]byte(rec.OTP), []byte(code)) != 1 {
		rec.Attempts++
		if rec.Attempts >= s.maxAttempts {
			_ = s.records.Delete(ctx, email)
			return apperrors.ErrTooManyOTPAttempts
		}
		if err := s.records.Put(ctx, email, rec); err != nil {
			return errors.Wrap(err, "[otp Verify] failed to update attempts")
		}
		return apperrors.ErrInvalidOTP
	}

	// Codes are single use.
	if err := s.records.Delete(ctx, email); err != nil {
		return errors.Wrap(err, "[otp Verify] failed to consume code")
	}
	return nil
}

// Discard removes the challenge for email once it has been consumed.
func (s *Service) Discard(ctx context.Context, email string) error {
	err := s.records.Delete(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return errors.Wrap(err, "[otp Discard] failed")
	}
	return nil
}
