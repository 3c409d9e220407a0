package token

// ActorType discriminates session payloads and selects the session cookie.
type ActorType string

const (
	ActorStudent ActorType = "student"
	ActorAdmin   ActorType = "admin"
)

func (a ActorType) Valid() bool {
	return a == ActorStudent || a == ActorAdmin
}

// Payload is the session carried inside a signed token. Admin payloads only set Type.
type Payload struct {
	StudentID string    `json:"studentId,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Type      ActorType `json:"type"`
}

// IsStudent reports whether the payload belongs to an authenticated student
func (p *Payload) IsStudent() bool {
	return p != nil && p.Type == ActorStudent && p.StudentID != ""
}

func (p *Payload) IsAdmin() bool {
	return p != nil && p.Type == ActorAdmin
}
