package server

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyPayload stores the verified session payload
const ContextKeyPayload ContextKey = "session_payload"

// RequireStudent accepts a student session from the student cookie or a Bearer
// token and injects its payload into the request context.
func (s *Server) RequireStudent() middleware {
	return s.requireActor(token.ActorStudent)
}

// RequireAdmin is the admin equivalent of RequireStudent. A valid student token
// is rejected with 403.
func (s *Server) RequireAdmin() middleware {
	return s.requireActor(token.ActorAdmin)
}

func (s *Server) requireActor(actor token.ActorType) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			payload, err := s.svc.Cookies.Authenticate(r, actor)
			if apperrors.Is(err, apperrors.ErrForbidden) {
				writeErr(w, http.StatusForbidden, "Access denied")
				return
			}
			if err != nil {
				writeErr(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPayload, payload)
			next(w, r.WithContext(ctx))
		}
	}
}

// payloadFromContext returns the payload injected by requireActor.
func payloadFromContext(ctx context.Context) *token.Payload {
	p, _ := ctx.Value(ContextKeyPayload).(*token.Payload)
	return p
}
