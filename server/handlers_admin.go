package server

import (
	"net/http"

	"github.com/jrsteele09/go-hostel-server/auth"
	"github.com/jrsteele09/go-hostel-server/requests"
	"github.com/jrsteele09/go-hostel-server/students"
	"github.com/rs/zerolog/log"
)

// AttendanceReportHandler reports attendance for ?date=YYYY-MM-DD, today when
// the parameter is absent.
func (s *Server) AttendanceReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.svc.Attendance.Report(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) AdminListLatePassesHandler() http.HandlerFunc {
	return s.listAllRequests(requests.KindLatePass, "latePasses")
}

func (s *Server) AdminListMaintenanceHandler() http.HandlerFunc {
	return s.listAllRequests(requests.KindMaintenance, "requests")
}

func (s *Server) AdminDecideLatePassHandler() http.HandlerFunc {
	return s.decideRequest(requests.KindLatePass, latePassDecisionSchema)
}

func (s *Server) AdminDecideMaintenanceHandler() http.HandlerFunc {
	return s.decideRequest(requests.KindMaintenance, maintenanceDecisionSchema)
}

func (s *Server) AdminListStudentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.svc.Students.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		public := make([]students.Public, 0, len(list))
		for _, st := range list {
			public = append(public, st.Public())
		}
		writeJSON(w, http.StatusOK, map[string]any{"students": public})
	}
}

// listAllRequests filters by ?status= when given.
func (s *Server) listAllRequests(kind requests.Kind, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.svc.Requests.ListAll(r.Context(), kind, requests.Status(r.URL.Query().Get("status")))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{field: list})
	}
}

func (s *Server) decideRequest(kind requests.Kind, schema auth.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[decisionRequest](r.Body, schema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		id := r.PathValue("id")
		decided, err := s.svc.Requests.Decide(r.Context(), kind, id, req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.Info().Str("kind", string(kind)).Str("id", id).Str("status", string(req.Status)).Msg("request decided")
		writeJSON(w, http.StatusOK, map[string]any{"request": decided})
	}
}
