// Package otp issues and checks the six digit codes used to verify email ownership
// at signup.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	codeLength    = 6
	minCode       = 100000
	maxCode       = 999999
	DefaultExpiry = 10 * time.Minute
)

// Record is the pending challenge for one email address.
type Record struct {
	Email     string    `json:"email"`
	OTP       string    `json:"otp"`
	CreatedAt time.Time `json:"createdAt"`
	Verified  bool      `json:"verified"`
	Attempts  int       `json:"attempts"`
}

// Generate returns a code drawn uniformly from [100000, 999999].
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", fmt.Errorf("[otp Generate] %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+minCode), nil
}

// ValidFormat reports whether code is exactly six ASCII digits.
func ValidFormat(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// IsExpired is true once more than DefaultExpiry has passed since createdAt.
func IsExpired(createdAt, now time.Time) bool {
	return isExpiredAfter(createdAt, now, DefaultExpiry)
}

func isExpiredAfter(createdAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(createdAt) > ttl
}
