package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/healthz"

	// Student auth
	RouteSignup    = "/api/auth/signup"
	RouteVerifyOTP = "/api/auth/verify-otp"
	RouteResendOTP = "/api/auth/resend-otp"
	RouteLogin     = "/api/auth/login"
	RouteLogout    = "/api/auth/logout"
	RouteCurrentMe = "/api/auth/me"

	// Admin auth
	RouteAdminLogin  = "/api/admin/login"
	RouteAdminLogout = "/api/admin/logout"

	// Student routes
	RouteCheckIn      = "/api/attendance/check-in"
	RouteAttendance   = "/api/attendance"
	RouteFoodMenu     = "/api/food/menu"
	RouteFoodOrders   = "/api/food/orders"
	RouteFees         = "/api/fees"
	RouteFeePayments  = "/api/fees/payments"
	RouteLatePasses   = "/api/late-passes"
	RouteMaintenance  = "/api/maintenance"
	RouteAPIPreflight = "/api/"

	// Admin routes
	RouteAdminAttendance  = "/api/admin/attendance"
	RouteAdminLatePasses  = "/api/admin/late-passes"
	RouteAdminLatePass    = "/api/admin/late-passes/{id}"
	RouteAdminMaintenance = "/api/admin/maintenance"
	RouteAdminRepair      = "/api/admin/maintenance/{id}"
	RouteAdminStudents    = "/api/admin/students"
)
