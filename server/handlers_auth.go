package server

import (
	"net/http"

	"github.com/jrsteele09/go-hostel-server/auth"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/token"
	"github.com/rs/zerolog/log"
)

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    *token.Payload `json:"user"`
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[auth.SignupRequest](r.Body, auth.SignupSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if err := s.svc.Auth.Signup(r.Context(), req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "Verification code sent to your email",
			"email":   req.Email,
		})
	}
}

func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[auth.VerifyOTPRequest](r.Body, auth.VerifyOTPSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		student, err := s.svc.Auth.VerifySignup(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.Info().Str("studentId", student.StudentID).Msg("student registered")
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Email verified, account created",
			"student": student.Public(),
		})
	}
}

func (s *Server) ResendOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[auth.ResendOTPRequest](r.Body, auth.ResendOTPSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if err := s.svc.Auth.ResendOTP(r.Context(), req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Verification code resent"})
	}
}

func (s *Server) StudentLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[auth.LoginRequest](r.Body, auth.LoginSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		res, err := s.svc.Auth.StudentLogin(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		s.svc.Cookies.SetAuthCookie(w, res.Token, token.ActorStudent)
		writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", Token: res.Token, User: &res.Payload})
	}
}

func (s *Server) StudentLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.svc.Cookies.ClearAuthCookie(w, token.ActorStudent)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := payloadFromContext(r.Context())

		student, err := s.svc.Auth.Student(r.Context(), payload.StudentID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Token outlived the account.
			s.svc.Cookies.ClearAuthCookie(w, token.ActorStudent)
			writeErr(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"student": student.Public()})
	}
}

func (s *Server) AdminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[auth.AdminLoginRequest](r.Body, auth.AdminLoginSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		res, err := s.svc.Auth.AdminLogin(r.Context(), req, s.clientAddress(r))
		var credentialsErr *auth.CredentialsError
		if apperrors.As(err, &credentialsErr) {
			left := credentialsErr.AttemptsLeft
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgInvalidAdmin, AttemptsLeft: &left})
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		s.svc.Cookies.SetAuthCookie(w, res.Token, token.ActorAdmin)
		writeJSON(w, http.StatusOK, loginResponse{Message: "Admin login successful", Token: res.Token, User: &res.Payload})
	}
}

func (s *Server) AdminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.svc.Cookies.ClearAuthCookie(w, token.ActorAdmin)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}
