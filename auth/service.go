package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/otp"
	"github.com/jrsteele09/go-hostel-server/ratelimit"
	"github.com/jrsteele09/go-hostel-server/students"
	"github.com/jrsteele09/go-hostel-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const adminLockoutPrefix = "admin:"

// Deps holds the collaborators of the Service.
type Deps struct {
	Students      students.Repo
	Hasher        *Hasher
	Tokens        *token.Service
	Limiter       *ratelimit.Limiter
	OTPs          *otp.Service
	AdminPassword string
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token   string
	Payload token.Payload
}

// Service runs the login, signup and verification flows.
type Service struct {
	deps    Deps
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the clock used for new student records.
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.Students == nil {
		return nil, errors.New("[NewService] Students repo is required")
	}
	if deps.Hasher == nil {
		return nil, errors.New("[NewService] Hasher is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewService] Tokens is required")
	}
	if deps.Limiter == nil {
		return nil, errors.New("[NewService] Limiter is required")
	}
	if deps.OTPs == nil {
		return nil, errors.New("[NewService] OTPs is required")
	}
	if deps.AdminPassword == "" {
		return nil, errors.New("[NewService] AdminPassword is required")
	}

	s := &Service{
		deps:    deps,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// StudentLogin checks the lockout before touching the store, so a locked
// identifier never reaches the password check.
func (s *Service) StudentLogin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	key := strings.ToUpper(strings.TrimSpace(req.StudentID))

	if status := s.deps.Limiter.IsLockedOut(key); status.Locked {
		return nil, &LockoutError{RemainingTime: status.RemainingTime}
	}

	student, err := s.deps.Students.GetByStudentID(ctx, key)
	if err != nil && !errors.Is(err, students.ErrNotFound) {
		return nil, errors.Wrap(err, "[StudentLogin] failed to load student")
	}
	if student == nil {
		// Unknown IDs cost as much as a wrong password.
		s.deps.Hasher.VerifyMissing(req.Password)
		return nil, s.recordFailure(key)
	}
	if !s.deps.Hasher.Verify(req.Password, student.PasswordHash) {
		return nil, s.recordFailure(key)
	}

	s.deps.Limiter.ResetAttempts(key)

	payload := token.Payload{
		StudentID: student.StudentID,
		Name:      student.Name,
		Email:     student.Email,
		Type:      token.ActorStudent,
	}
	tok, err := s.deps.Tokens.IssueStudentToken(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[StudentLogin] failed to issue token")
	}
	return &LoginResult{Token: tok, Payload: payload}, nil
}

// AdminLogin authenticates the shared admin password. lockoutID identifies the
// caller (the client address) so one caller cannot lock everybody out.
func (s *Service) AdminLogin(_ context.Context, req AdminLoginRequest, lockoutID string) (*LoginResult, error) {
	key := adminLockoutPrefix + lockoutID

	if status := s.deps.Limiter.IsLockedOut(key); status.Locked {
		return nil, &LockoutError{RemainingTime: status.RemainingTime}
	}

	if !passwordsMatch(req.Password, s.deps.AdminPassword) {
		return nil, s.recordFailure(key)
	}

	s.deps.Limiter.ResetAttempts(key)

	tok, err := s.deps.Tokens.IssueAdminToken()
	if err != nil {
		return nil, errors.Wrap(err, "[AdminLogin] failed to issue token")
	}
	return &LoginResult{Token: tok, Payload: token.Payload{Type: token.ActorAdmin}}, nil
}

func (s *Service) recordFailure(key string) error {
	res := s.deps.Limiter.RecordFailedAttempt(key)
	if res.Locked {
		log.Warn().Str("identifier", key).Int("lockoutSeconds", res.LockoutTime).Msg("login locked out")
		return &LockoutError{RemainingTime: res.LockoutTime}
	}
	return &CredentialsError{AttemptsLeft: res.AttemptsLeft}
}

// passwordsMatch compares digests so the comparison time does not depend on
// either input's length.
func passwordsMatch(given, expected string) bool {
	a := sha256.Sum256([]byte(given))
	b := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// Signup stages a pending student and mails a verification code.
func (s *Service) Signup(ctx context.Context, req SignupRequest) error {
	if err := s.ensureAvailable(ctx, req.StudentID, req.Email); err != nil {
		return err
	}

	digest, err := s.deps.Hasher.Hash(req.Password)
	if err != nil {
		return errors.Wrap(err, "[Signup] failed to hash password")
	}

	pending := &students.Pending{
		Email:        req.Email,
		StudentID:    strings.ToUpper(req.StudentID),
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: digest,
		CreatedAt:    s.nowTime(),
	}
	if err := s.deps.Students.PutPending(ctx, pending); err != nil {
		return errors.Wrap(err, "[Signup] failed to store pending signup")
	}

	if err := s.deps.OTPs.Issue(ctx, req.Email, req.Name); err != nil {
		return errors.Wrap(err, "[Signup] failed to issue verification code")
	}
	return nil
}

// VerifySignup checks the code and turns the pending signup into a student.
func (s *Service) VerifySignup(ctx context.Context, req VerifyOTPRequest) (*students.Student, error) {
	pending, err := s.deps.Students.GetPending(ctx, req.Email)
	if errors.Is(err, students.ErrNotFound) {
		return nil, apperrors.ErrNoPendingSignup
	}
	if err != nil {
		return nil, errors.Wrap(err, "[VerifySignup] failed to load pending signup")
	}

	if err := s.deps.OTPs.Verify(ctx, req.Email, req.OTP); err != nil {
		return nil, err
	}

	// Another signup may have claimed the ID between Signup and now.
	if err := s.ensureAvailable(ctx, pending.StudentID, pending.Email); err != nil {
		return nil, err
	}

	student := pending.Student(uuid.New().String(), s.nowTime())
	if err := s.deps.Students.Create(ctx, student); err != nil {
		return nil, errors.Wrap(err, "[VerifySignup] failed to create student")
	}

	if err := s.deps.Students.DeletePending(ctx, pending.Email); err != nil {
		log.Err(err).Str("email", pending.Email).Msg("failed to delete pending signup")
	}
	if err := s.deps.OTPs.Discard(ctx, pending.Email); err != nil {
		log.Err(err).Str("email", pending.Email).Msg("failed to discard verification code")
	}
	return student, nil
}

// ResendOTP issues a new code for a pending signup.
func (s *Service) ResendOTP(ctx context.Context, req ResendOTPRequest) error {
	pending, err := s.deps.Students.GetPending(ctx, req.Email)
	if errors.Is(err, students.ErrNotFound) {
		return apperrors.ErrNoPendingSignup
	}
	if err != nil {
		return errors.Wrap(err, "[ResendOTP] failed to load pending signup")
	}
	if err := s.deps.OTPs.Issue(ctx, pending.Email, pending.Name); err != nil {
		return errors.Wrap(err, "[ResendOTP] failed to issue verification code")
	}
	return nil
}

// Student returns the record behind a verified student session.
func (s *Service) Student(ctx context.Context, studentID string) (*students.Student, error) {
	return s.deps.Students.GetByStudentID(ctx, studentID)
}

func (s *Service) ensureAvailable(ctx context.Context, studentID, email string) error {
	_, err := s.deps.Students.GetByStudentID(ctx, studentID)
	switch {
	case err == nil:
		return StudentIDTakenErr
	case !errors.Is(err, students.ErrNotFound):
		return errors.Wrap(err, "[ensureAvailable] failed to check student ID")
	}

	_, err = s.deps.Students.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return EmailTakenErr
	case !errors.Is(err, students.ErrNotFound):
		return errors.Wrap(err, "[ensureAvailable] failed to check email")
	}
	return nil
}
