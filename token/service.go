package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrMissingSecret = errors.New("token signing secret is required")

const (
	defaultStudentExpiry = 7 * 24 * time.Hour
	defaultAdminExpiry   = 24 * time.Hour
)

// Claims embeds the session payload next to the registered JWT claims.
type Claims struct {
	Payload
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens. There is no server-side session
// table: everything needed to authorise a request travels in the token.
type Service struct {
	signer        Signer
	studentExpiry time.Duration
	adminExpiry   time.Duration
	nowFunc       func() time.Time
}

type ServiceOption func(*Service)

func WithExpiry(studentExpiry, adminExpiry time.Duration) ServiceOption {
	return func(s *Service) {
		s.studentExpiry = studentExpiry
		s.adminExpiry = adminExpiry
	}
}

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func WithSigner(signer Signer) ServiceOption {
	return func(s *Service) {
		s.signer = signer
	}
}

// New creates a token service signing with an HMAC secret. An empty secret is
// rejected rather than replaced with a default.
func New(secret string, options ...ServiceOption) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	s := &Service{
		signer:        NewHMACSigner(secret),
		studentExpiry: defaultStudentExpiry,
		adminExpiry:   defaultAdminExpiry,
		nowFunc:       time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// IssueStudentToken signs a student payload with the student session expiry.
func (s *Service) IssueStudentToken(p Payload) (string, error) {
	if p.StudentID == "" {
		return "", errors.New("[IssueStudentToken] student id is required")
	}
	p.Type = ActorStudent
	return s.issue(p, s.studentExpiry)
}

func (s *Service) IssueAdminToken() (string, error) {
	return s.issue(Payload{Type: ActorAdmin}, s.adminExpiry)
}

func (s *Service) issue(p Payload, expiry time.Duration) (string, error) {
	now := s.nowFunc()
	claims := Claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	if p.StudentID != "" {
		claims.Subject = p.StudentID
	}

	signed, err := s.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrapf(err, "[token issue] failed to sign %s token", p.Type)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded payload. Any failure,
// whether malformed, expired or forged, gives (nil, false); callers cannot tell them
// apart. The actor type is not checked here.
func (s *Service) Verify(raw string) (*Payload, bool) {
	if raw == "" {
		return nil, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, s.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{s.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.nowFunc),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if !claims.Type.Valid() {
		return nil, false
	}

	p := claims.Payload
	return &p, true
}
