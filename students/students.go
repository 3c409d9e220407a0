package students

import (
	"time"
)

type Student struct {
	ID           string    `json:"id,omitempty"`
	StudentID    string    `json:"studentId"` // University student ID, used to log in
	Name         string    `json:"name"`
	Email        string    `json:"email"` // Verified email address
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash"` // bcrypt digest
	RoomNumber   string    `json:"roomNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public is the student without credential material, safe to return from the API
type Public struct {
	StudentID  string    `json:"studentId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	RoomNumber string    `json:"roomNumber,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *Student) Public() Public {
	return Public{
		StudentID:  s.StudentID,
		Name:       s.Name,
		Email:      s.Email,
		Phone:      s.Phone,
		RoomNumber: s.RoomNumber,
		CreatedAt:  s.CreatedAt,
	}
}

// Pending is a signup waiting for email verification. It is keyed by email and
// becomes a Student once the OTP has been verified.
type Pending struct {
	Email        string    `json:"email"`
	StudentID    string    `json:"studentId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p *Pending) Student(id string, now time.Time) *Student {
	return &Student{
		ID:           id,
		StudentID:    p.StudentID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: p.PasswordHash,
		CreatedAt:    now,
	}
}
