package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/token"
	"github.com/rs/zerolog/log"
)

const (
	StudentCookieName = "student_token"
	AdminCookieName   = "admin_token"
)

// CookieConfig is the static shape of a session cookie. Secure is decided by the
// CookieManager from the environment.
type CookieConfig struct {
	Name     string
	HTTPOnly bool
	SameSite http.SameSite
	MaxAge   int // seconds
	Path     string
}

// DefaultCookieConfigs returns the session cookie for each actor type.
func DefaultCookieConfigs() map[token.ActorType]CookieConfig {
	return map[token.ActorType]CookieConfig{
		token.ActorStudent: {
			Name:     StudentCookieName,
			HTTPOnly: true,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   7 * 24 * 60 * 60,
			Path:     "/",
		},
		token.ActorAdmin: {
			Name:     AdminCookieName,
			HTTPOnly: true,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   24 * 60 * 60,
			Path:     "/",
		},
	}
}

// CookieManager writes, reads and clears session cookies.
type CookieManager struct {
	configs map[token.ActorType]CookieConfig
	secure  bool
	tokens  *token.Service
}

// NewCookieManager sets the Secure attribute on every cookie when secure is true
// (production).
func NewCookieManager(tokens *token.Service, secure bool) *CookieManager {
	return &CookieManager{
		configs: DefaultCookieConfigs(),
		secure:  secure,
		tokens:  tokens,
	}
}

func (m *CookieManager) config(actor token.ActorType) (CookieConfig, bool) {
	cfg, ok := m.configs[actor]
	if !ok {
		log.Warn().Str("actor", string(actor)).Msg("no cookie configuration for actor")
	}
	return cfg, ok
}

func (m *CookieManager) SetAuthCookie(w http.ResponseWriter, tok string, actor token.ActorType) {
	cfg, ok := m.config(actor)
	if !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    tok,
		Path:     cfg.Path,
		MaxAge:   cfg.MaxAge,
		HttpOnly: cfg.HTTPOnly,
		Secure:   m.secure,
		SameSite: cfg.SameSite,
	})
}

// ClearAuthCookie emits the same cookie with an empty value and Max-Age=0.
func (m *CookieManager) ClearAuthCookie(w http.ResponseWriter, actor token.ActorType) {
	cfg, ok := m.config(actor)
	if !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		MaxAge:   -1,
		HttpOnly: cfg.HTTPOnly,
		Secure:   m.secure,
		SameSite: cfg.SameSite,
	})
}

// TokenFromCookies returns the raw session token for actor from the request
// cookies. A missing or empty cookie is reported as absent.
func (m *CookieManager) TokenFromCookies(r *http.Request, actor token.ActorType) (string, bool) {
	cfg, ok := m.config(actor)
	if !ok {
		return "", false
	}
	c, err := r.Cookie(cfg.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// TokenFromRequest prefers the session cookie and falls back to an
// Authorization: Bearer header.
func (m *CookieManager) TokenFromRequest(r *http.Request, actor token.ActorType) (string, bool) {
	if tok, ok := m.TokenFromCookies(r, actor); ok {
		return tok, true
	}
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(authHeader[len(prefix):])
	return tok, tok != ""
}

// VerifyTokenFromCookies verifies the actor's session cookie and checks that the
// token was issued to that actor.
func (m *CookieManager) VerifyTokenFromCookies(r *http.Request, actor token.ActorType) (*token.Payload, bool) {
	tok, ok := m.TokenFromCookies(r, actor)
	if !ok {
		return nil, false
	}
	payload, ok := m.tokens.Verify(tok)
	if !ok || !actorMatches(payload, actor) {
		return nil, false
	}
	return payload, true
}

// VerifyRequest is VerifyTokenFromCookies with the Bearer fallback of
// TokenFromRequest.
func (m *CookieManager) VerifyRequest(r *http.Request, actor token.ActorType) (*token.Payload, bool) {
	payload, err := m.Authenticate(r, actor)
	return payload, err == nil
}

// Authenticate resolves the session for actor. A missing, malformed or expired
// token is ErrUnauthorized; a valid token issued to another actor is
// ErrForbidden.
func (m *CookieManager) Authenticate(r *http.Request, actor token.ActorType) (*token.Payload, error) {
	tok, ok := m.TokenFromRequest(r, actor)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	payload, ok := m.tokens.Verify(tok)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	if !actorMatches(payload, actor) {
		return nil, apperrors.ErrForbidden
	}
	return payload, nil
}

func actorMatches(payload *token.Payload, actor token.ActorType) bool {
	if payload.Type != actor {
		return false
	}
	return actor != token.ActorStudent || payload.IsStudent()
}
