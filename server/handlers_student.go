package server

import (
	"net/http"

	"github.com/jrsteele09/go-hostel-server/auth"
	"github.com/jrsteele09/go-hostel-server/requests"
)

func (s *Server) CheckInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := payloadFromContext(r.Context())
		entry, err := s.svc.Attendance.CheckIn(r.Context(), payload.StudentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Checked in", "entry": entry})
	}
}

func (s *Server) AttendanceHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := payloadFromContext(r.Context())
		history, err := s.svc.Attendance.History(r.Context(), payload.StudentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"attendance": history})
	}
}

func (s *Server) MenuHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"menu": s.svc.Billing.Menu()})
	}
}

func (s *Server) PlaceOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[foodOrderRequest](r.Body, foodOrderSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		payload := payloadFromContext(r.Context())
		order, err := s.svc.Billing.PlaceOrder(r.Context(), payload.StudentID, req.Items)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"order": order})
	}
}

func (s *Server) ListOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := payloadFromContext(r.Context())
		orders, err := s.svc.Billing.Orders(r.Context(), payload.StudentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
	}
}

func (s *Server) FeesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := payloadFromContext(r.Context())
		balance, err := s.svc.Billing.Balance(r.Context(), payload.StudentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		payments, err := s.svc.Billing.Payments(r.Context(), payload.StudentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"balance": balance, "payments": payments})
	}
}

func (s *Server) PayFeesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[paymentRequest](r.Body, paymentSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		payload := payloadFromContext(r.Context())
		payment, err := s.svc.Billing.Pay(r.Context(), payload.StudentID, req.Amount)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"payment": payment})
	}
}

func (s *Server) CreateLatePassHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[latePassRequest](r.Body, latePassSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		payload := payloadFromContext(r.Context())
		created, err := s.svc.Requests.CreateLatePass(r.Context(), payload.StudentID, req.Reason, req.ReturnBy)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"latePass": created})
	}
}

func (s *Server) ListLatePassesHandler() http.HandlerFunc {
	return s.listOwnRequests(requests.KindLatePass, "latePasses")
}

func (s *Server) CreateMaintenanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := auth.DecodeAndValidate[maintenanceRequest](r.Body, maintenanceSchema)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		payload := payloadFromContext(r.Context())
		created, err := s.svc.Requests.CreateMaintenance(r.Context(), payload.StudentID, req.Category, req.Description)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"request": created})
	}
}

func (s *Server) ListMaintenanceHandler() http.HandlerFunc {
	return s.listOwnRequests(requests.KindMaintenance, "requests")
}

func (s *Server) listOwnRequests(kind requests.Kind, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := payloadFromContext(r.Context())
		list, err := s.svc.Requests.ListForStudent(r.Context(), kind, payload.StudentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{field: list})
	}
}
