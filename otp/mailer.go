package otp

import (
	"bytes"
	"context"
	"html/template"

	"github.com/jrsteele09/go-hostel-server/email"
	"github.com/rs/zerolog/log"
)

var otpEmailTmpl = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}},</p>
  <p>Use the code below to finish creating your hostel account. It expires in {{.Minutes}} minutes.</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>If you did not sign up, you can ignore this email.</p>
</body>
</html>`))

// Mailer renders and sends verification emails.
type Mailer struct {
	sender email.Sender
}

func NewMailer(sender email.Sender) *Mailer {
	return &Mailer{sender: sender}
}

// SendOTPEmail reports whether the email was handed to the provider. Failures are
// logged here and never surface provider detail to the caller.
func (m *Mailer) SendOTPEmail(ctx context.Context, to, code, name string) bool {
	var body bytes.Buffer
	err := otpEmailTmpl.Execute(&body, struct {
		Name    string
		Code    string
		Minutes int
	}{Name: name, Code: code, Minutes: int(DefaultExpiry.Minutes())})
	if err != nil {
		log.Err(err).Str("to", to).Msg("Failed to render OTP email")
		return false
	}

	if err := m.sender.Send(ctx, email.Message{
		To:      to,
		Subject: "Your hostel verification code",
		HTML:    body.String(),
	}); err != nil {
		log.Err(err).Str("to", to).Msg("Failed to send OTP email")
		return false
	}
	return true
}
