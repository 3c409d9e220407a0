package server

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/jrsteele09/go-hostel-server/attendance"
	"github.com/jrsteele09/go-hostel-server/auth"
	"github.com/jrsteele09/go-hostel-server/billing"
	"github.com/jrsteele09/go-hostel-server/internal/config"
	"github.com/jrsteele09/go-hostel-server/requests"
	"github.com/jrsteele09/go-hostel-server/students"
	"github.com/rs/zerolog/log"
)

// Services are the collaborators the HTTP layer calls into.
type Services struct {
	Auth       *auth.Service
	Cookies    *auth.CookieManager
	Students   students.Repo
	Attendance *attendance.Service
	Requests   *requests.Service
	Billing    *billing.Service
}

func (s Services) validate() error {
	switch {
	case s.Auth == nil:
		return fmt.Errorf("auth service is required")
	case s.Cookies == nil:
		return fmt.Errorf("cookie manager is required")
	case s.Students == nil:
		return fmt.Errorf("students repo is required")
	case s.Attendance == nil:
		return fmt.Errorf("attendance service is required")
	case s.Requests == nil:
		return fmt.Errorf("requests service is required")
	case s.Billing == nil:
		return fmt.Errorf("billing service is required")
	}
	return nil
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PRODUCTION")
	mux    *http.ServeMux
	routes []string
	config config.Config
	svc    Services

	trustedProxies []netip.Prefix
}

func New(config config.Config, services Services) (*Server, error) {
	if err := services.validate(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		svc:    services,

		trustedProxies: config.GetTrustedProxies(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(scheme, ",")[0]))
	}
	return "http"
}

// clientAddress identifies the caller for the admin lockout. X-Forwarded-For is
// only read when the direct peer is a trusted proxy, and then the client is the
// right-most hop that is not itself a trusted proxy.
func (s *Server) clientAddress(r *http.Request) string {
	peer := remoteHost(r)
	if !s.isTrustedProxy(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !s.isTrustedProxy(hop) {
			return hop
		}
	}
	return peer
}

func (s *Server) isTrustedProxy(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range s.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
