package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-hostel-server/auth"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/token"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *token.Service {
	t.Helper()
	tokens, err := token.New("test-secret")
	require.NoError(t, err)
	return tokens
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestCookieManager_SetAuthCookie(t *testing.T) {
	tests := []struct {
		name   string
		actor  token.ActorType
		cookie string
		maxAge int
		secure bool
	}{
		{"student dev", token.ActorStudent, auth.StudentCookieName, 604800, false},
		{"student production", token.ActorStudent, auth.StudentCookieName, 604800, true},
		{"admin production", token.ActorAdmin, auth.AdminCookieName, 86400, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := auth.NewCookieManager(newTokens(t), tt.secure)
			rec := httptest.NewRecorder()
			m.SetAuthCookie(rec, "tok", tt.actor)

			c := responseCookie(t, rec, tt.cookie)
			require.Equal(t, "tok", c.Value)
			require.Equal(t, tt.maxAge, c.MaxAge)
			require.Equal(t, "/", c.Path)
			require.True(t, c.HttpOnly)
			require.Equal(t, http.SameSiteStrictMode, c.SameSite)
			require.Equal(t, tt.secure, c.Secure)
		})
	}
}

func TestCookieManager_ClearAuthCookie(t *testing.T) {
	m := auth.NewCookieManager(newTokens(t), true)
	rec := httptest.NewRecorder()
	m.ClearAuthCookie(rec, token.ActorAdmin)

	header := rec.Header().Get("Set-Cookie")
	require.Contains(t, header, auth.AdminCookieName+"=;")
	require.Contains(t, header, "Max-Age=0")
	require.Contains(t, header, "HttpOnly")
	require.Contains(t, header, "Secure")
	require.Contains(t, header, "SameSite=Strict")
}

func TestCookieManager_TokenFromCookies(t *testing.T) {
	m := auth.NewCookieManager(newTokens(t), false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "theme=dark; student_token=abc.def.ghi; admin_token=")

	tok, ok := m.TokenFromCookies(r, token.ActorStudent)
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", tok)

	_, ok = m.TokenFromCookies(r, token.ActorAdmin)
	require.False(t, ok, "empty cookie is absent")

	_, ok = m.TokenFromCookies(httptest.NewRequest(http.MethodGet, "/", nil), token.ActorStudent)
	require.False(t, ok)
}

func TestCookieManager_TokenFromRequestFallsBackToBearer(t *testing.T) {
	m := auth.NewCookieManager(newTokens(t), false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	tok, ok := m.TokenFromRequest(r, token.ActorStudent)
	require.True(t, ok)
	require.Equal(t, "header-token", tok)

	r.AddCookie(&http.Cookie{Name: auth.StudentCookieName, Value: "cookie-token"})
	tok, ok = m.TokenFromRequest(r, token.ActorStudent)
	require.True(t, ok)
	require.Equal(t, "cookie-token", tok)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	_, ok = m.TokenFromRequest(r, token.ActorStudent)
	require.False(t, ok)
}

func TestCookieManager_Verify(t *testing.T) {
	tokens := newTokens(t)
	m := auth.NewCookieManager(tokens, false)

	studentTok, err := tokens.IssueStudentToken(token.Payload{StudentID: "AB-123", Name: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.StudentCookieName, Value: studentTok})

	p, ok := m.VerifyTokenFromCookies(r, token.ActorStudent)
	require.True(t, ok)
	require.Equal(t, "AB-123", p.StudentID)
	require.Equal(t, token.ActorStudent, p.Type)

	// A student token presented as an admin bearer token is rejected.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+studentTok)
	_, ok = m.VerifyRequest(r, token.ActorAdmin)
	require.False(t, ok)

	r.AddCookie(&http.Cookie{Name: auth.StudentCookieName, Value: "garbage"})
	_, ok = m.VerifyTokenFromCookies(r, token.ActorStudent)
	require.False(t, ok)
}

func TestCookieManager_VerifyTokenFromCookiesChecksActor(t *testing.T) {
	tokens := newTokens(t)
	m := auth.NewCookieManager(tokens, false)

	studentTok, err := tokens.IssueStudentToken(token.Payload{StudentID: "AB-123", Name: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)
	adminTok, err := tokens.IssueAdminToken()
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: studentTok})
	p, ok := m.VerifyTokenFromCookies(r, token.ActorAdmin)
	require.False(t, ok)
	require.Nil(t, p)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.StudentCookieName, Value: adminTok})
	_, ok = m.VerifyTokenFromCookies(r, token.ActorStudent)
	require.False(t, ok)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: adminTok})
	p, ok = m.VerifyTokenFromCookies(r, token.ActorAdmin)
	require.True(t, ok)
	require.True(t, p.IsAdmin())
}

func TestCookieManager_Authenticate(t *testing.T) {
	tokens := newTokens(t)
	m := auth.NewCookieManager(tokens, false)

	studentTok, err := tokens.IssueStudentToken(token.Payload{StudentID: "AB-123"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = m.Authenticate(r, token.ActorStudent)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	r.Header.Set("Authorization", "Bearer not-a-token")
	_, err = m.Authenticate(r, token.ActorStudent)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	r.Header.Set("Authorization", "Bearer "+studentTok)
	_, err = m.Authenticate(r, token.ActorAdmin)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	p, err := m.Authenticate(r, token.ActorStudent)
	require.NoError(t, err)
	require.Equal(t, "AB-123", p.StudentID)
}
