package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var (
	ErrMissingJWTSecret     = errors.New("JWT_SECRET must be set")
	ErrMissingAdminPassword = errors.New("ADMIN_PASSWORD must be set")
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	SessionConfig
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Session
}

// New loads the configuration from the environment. Any envFiles are loaded first
// (a local .env is picked up when none are given). The signing secret and the admin
// password have no defaults: starting without them is an error.
func New(envFiles ...string) (Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, fmt.Errorf("[config New] %w", err)
	}

	c := mainConfig{}
	if err := env.Parse(&c.EnvVars); err != nil {
		return nil, errors.Wrap(err, "[config New] failed to parse environment")
	}
	if err := env.Parse(&c.Cors); err != nil {
		return nil, errors.Wrap(err, "[config New] failed to parse cors environment")
	}

	if c.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if c.AdminPassword == "" {
		return nil, ErrMissingAdminPassword
	}
	if _, err := parseTrustedProxies(c.TrustedProxies); err != nil {
		return nil, errors.Wrap(err, "[config New]")
	}
	return c, nil
}

func loadEnvFiles(envFiles ...string) error {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		return errors.Wrap(err, "failed to load env files")
	}
	return nil
}
