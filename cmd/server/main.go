package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-hostel-server/attendance"
	"github.com/jrsteele09/go-hostel-server/auth"
	"github.com/jrsteele09/go-hostel-server/billing"
	"github.com/jrsteele09/go-hostel-server/email"
	"github.com/jrsteele09/go-hostel-server/internal/config"
	"github.com/jrsteele09/go-hostel-server/internal/logging"
	"github.com/jrsteele09/go-hostel-server/otp"
	"github.com/jrsteele09/go-hostel-server/ratelimit"
	"github.com/jrsteele09/go-hostel-server/requests"
	"github.com/jrsteele09/go-hostel-server/server"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/jrsteele09/go-hostel-server/students"
	"github.com/jrsteele09/go-hostel-server/token"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		// Missing secrets will not fix themselves on restart.
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	handler, err := buildServer(c)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(httpServer) }()

	if err := waitForStopSignal(errCh); err != nil {
		return err
	}
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config) (*server.Server, error) {
	kv, err := openStore(c.GetDataFile())
	if err != nil {
		return nil, err
	}

	tokens, err := token.New(c.GetJWTSecret(), token.WithExpiry(c.GetStudentSessionExpiry(), c.GetAdminSessionExpiry()))
	if err != nil {
		return nil, fmt.Errorf("token.New: %w", err)
	}

	limiter := ratelimit.New(ratelimit.NewMemoryStore(),
		ratelimit.WithMaxAttempts(c.GetMaxLoginAttempts()),
		ratelimit.WithLockoutWindow(c.GetLockoutWindow()),
		ratelimit.WithResetWindow(c.GetResetWindow()),
	)

	otps := otp.NewService(kv, otp.NewMailer(emailSender(c)),
		otp.WithExpiry(c.GetOTPExpiry()),
		otp.WithMaxAttempts(c.GetMaxOTPAttempts()),
	)

	studentRepo := students.NewKVRepo(kv)
	authService, err := auth.NewService(auth.Deps{
		Students:      studentRepo,
		Hasher:        auth.NewHasher(c.GetBcryptCost()),
		Tokens:        tokens,
		Limiter:       limiter,
		OTPs:          otps,
		AdminPassword: c.GetAdminPassword(),
	})
	if err != nil {
		return nil, fmt.Errorf("auth.NewService: %w", err)
	}

	return server.New(c, server.Services{
		Auth:       authService,
		Cookies:    auth.NewCookieManager(tokens, c.IsProduction()),
		Students:   studentRepo,
		Attendance: attendance.NewService(kv, studentRepo),
		Requests:   requests.NewService(kv),
		Billing:    billing.NewService(kv),
	})
}

func openStore(dataFile string) (store.KV, error) {
	if dataFile == "" {
		log.Warn().Msg("DATA_FILE not set, data is kept in memory only")
		return store.NewMemory(), nil
	}
	kv, err := store.NewFile(dataFile)
	if err != nil {
		return nil, fmt.Errorf("store.NewFile: %w", err)
	}
	log.Info().Str("file", dataFile).Msg("using file store")
	return kv, nil
}

func emailSender(c config.Config) email.Sender {
	if c.GetEmailAPIKey() == "" {
		log.Warn().Msg("RESEND_API_KEY not set, verification emails are only logged")
		return email.LogSender{}
	}
	return email.NewResendSender(c.GetEmailAPIKey(), c.GetEmailFromDomain(), email.WithAPIURL(c.GetEmailAPIURL()))
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal(errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
		return nil
	case err := <-errCh:
		return err
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
