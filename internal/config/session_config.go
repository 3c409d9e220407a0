package config

import "time"

type SessionConfig interface {
	GetStudentSessionExpiry() time.Duration
	GetAdminSessionExpiry() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetStudentSessionExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (Session) GetAdminSessionExpiry() time.Duration {
	return 24 * time.Hour
}
