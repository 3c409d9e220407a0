package config

import "time"

type SecurityConfig interface {
	GetMaxLoginAttempts() int
	GetLockoutWindow() time.Duration
	GetResetWindow() time.Duration
	GetOTPExpiry() time.Duration
	GetMaxOTPAttempts() int
	GetBcryptCost() int
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetMaxLoginAttempts() int {
	return 5
}

func (Security) GetLockoutWindow() time.Duration {
	return 15 * time.Minute
}

// GetResetWindow is how long a failure history is kept before it is forgiven
func (Security) GetResetWindow() time.Duration {
	return 15 * time.Minute
}

func (Security) GetOTPExpiry() time.Duration {
	return 10 * time.Minute
}

func (Security) GetMaxOTPAttempts() int {
	return 5
}

func (Security) GetBcryptCost() int {
	return 10
}
