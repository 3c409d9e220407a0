package server

import (
	"net/http"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteVerifyOTP, ChainMiddleware(s.VerifyOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteResendOTP, ChainMiddleware(s.ResendOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.StudentLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.StudentLogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCurrentMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireStudent())...))
	s.RegisterRouteHandler("POST "+RouteAdminLogin, ChainMiddleware(s.AdminLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAdminLogout, ChainMiddleware(s.AdminLogoutHandler(), s.APIMiddleware()...))

	// STUDENT
	student := s.APIMiddleware(s.RequireStudent())
	s.RegisterRouteHandler("POST "+RouteCheckIn, ChainMiddleware(s.CheckInHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteAttendance, ChainMiddleware(s.AttendanceHistoryHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteFoodMenu, ChainMiddleware(s.MenuHandler(), student...))
	s.RegisterRouteHandler("POST "+RouteFoodOrders, ChainMiddleware(s.PlaceOrderHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteFoodOrders, ChainMiddleware(s.ListOrdersHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteFees, ChainMiddleware(s.FeesHandler(), student...))
	s.RegisterRouteHandler("POST "+RouteFeePayments, ChainMiddleware(s.PayFeesHandler(), student...))
	s.RegisterRouteHandler("POST "+RouteLatePasses, ChainMiddleware(s.CreateLatePassHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteLatePasses, ChainMiddleware(s.ListLatePassesHandler(), student...))
	s.RegisterRouteHandler("POST "+RouteMaintenance, ChainMiddleware(s.CreateMaintenanceHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteMaintenance, ChainMiddleware(s.ListMaintenanceHandler(), student...))

	// ADMIN
	admin := s.APIMiddleware(s.RequireAdmin())
	s.RegisterRouteHandler("GET "+RouteAdminAttendance, ChainMiddleware(s.AttendanceReportHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminLatePasses, ChainMiddleware(s.AdminListLatePassesHandler(), admin...))
	s.RegisterRouteHandler("PATCH "+RouteAdminLatePass, ChainMiddleware(s.AdminDecideLatePassHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminMaintenance, ChainMiddleware(s.AdminListMaintenanceHandler(), admin...))
	s.RegisterRouteHandler("PATCH "+RouteAdminRepair, ChainMiddleware(s.AdminDecideMaintenanceHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminStudents, ChainMiddleware(s.AdminListStudentsHandler(), admin...))

	// CORS preflight for every API route, JSON 404 for everything else
	s.RegisterRouteHandler("OPTIONS "+RouteAPIPreflight, ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, msgNotFound)
	}
}
