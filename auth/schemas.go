package auth

import (
	"regexp"
)

var (
	studentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	namePattern      = regexp.MustCompile(`^[\p{L} .'-]+$`)
	emailPattern     = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	otpPattern       = regexp.MustCompile(`^[0-9]{6}$`)
)

var studentIDRules = concat(
	Length(3, 50, "Student ID must be at least 3 characters", "Student ID must be at most 50 characters"),
	[]Rule{Matches(studentIDPattern, "Student ID can only contain letters, numbers, hyphens and underscores")},
)

var passwordRules = Length(6, 128, "Password must be at least 6 characters", "Password must be at most 128 characters")

var emailRules = []Rule{
	Matches(emailPattern, "Invalid email address"),
	{Message: "Email must be at most 255 characters", Valid: func(v any) bool { return len(v.(string)) <= 255 }},
}

var nameRules = concat(
	Length(2, 100, "Name must be at least 2 characters", "Name must be at most 100 characters"),
	[]Rule{Matches(namePattern, "Name can only contain letters, spaces, periods, apostrophes and hyphens")},
)

var (
	LoginSchema = Schema{Fields: []Field{
		{Name: "studentId", Rules: studentIDRules},
		{Name: "password", Rules: passwordRules},
	}}

	AdminLoginSchema = Schema{Fields: []Field{
		{Name: "password", Rules: concat(
			Length(1, 128, "Password is required", "Password must be at most 128 characters"),
		)},
	}}

	SignupSchema = Schema{Fields: []Field{
		{Name: "studentId", Rules: studentIDRules},
		{Name: "password", Rules: passwordRules},
		{Name: "name", Rules: nameRules, Normalize: TrimSpace},
		{Name: "email", Rules: emailRules, Normalize: LowerEmail},
		{Name: "phone", Rules: []Rule{Matches(phonePattern, "Phone number must be 10 to 15 digits with an optional leading +")}},
	}}

	VerifyOTPSchema = Schema{Fields: []Field{
		{Name: "email", Rules: emailRules, Normalize: LowerEmail},
		{Name: "otp", Rules: []Rule{Matches(otpPattern, "OTP must be exactly 6 digits")}},
	}}

	ResendOTPSchema = Schema{Fields: []Field{
		{Name: "email", Rules: emailRules, Normalize: LowerEmail},
	}}
)

type LoginRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type SignupRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}
