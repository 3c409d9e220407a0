package otp_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jrsteele09/go-hostel-server/email"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/otp"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerate_AlwaysSixDigits(t *testing.T) {
	for range 500 {
		code, err := otp.Generate()
		require.NoError(t, err)
		require.Regexp(t, sixDigits, code)
		require.NotEqual(t, '0', rune(code[0]))
	}
}

func TestValidFormat(t *testing.T) {
	require.True(t, otp.ValidFormat("123456"))
	require.True(t, otp.ValidFormat("000000"))
	require.False(t, otp.ValidFormat("12345"))
	require.False(t, otp.ValidFormat("1234567"))
	require.False(t, otp.ValidFormat("12a456"))
	require.False(t, otp.ValidFormat("١٢٣٤٥٦"))
	require.False(t, otp.ValidFormat(""))
}

func TestIsExpired_TransitionsOnce(t *testing.T) {
	created := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	require.False(t, otp.IsExpired(created, created))
	require.False(t, otp.IsExpired(created, created.Add(10*time.Minute)))
	require.True(t, otp.IsExpired(created, created.Add(10*time.Minute+time.Millisecond)))

	expired := false
	for s := 0; s <= 1200; s += 30 {
		now := otp.IsExpired(created, created.Add(time.Duration(s)*time.Second))
		if expired {
			require.True(t, now, "expiry must not revert at %ds", s)
		}
		expired = now
	}
	require.True(t, expired)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T, sender email.Sender, c *clock) *otp.Service {
	t.Helper()
	return otp.NewService(store.NewMemory(), otp.NewMailer(sender),
		otp.WithNowFunc(c.Now),
		otp.WithGenerator(func() (string, error) { return "482913", nil }),
	)
}

func TestService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	sender := &email.RecordingSender{}
	c := &clock{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	s := newService(t, sender, c)

	require.NoError(t, s.Issue(ctx, "Jane@X.com ", "Jane Doe"))

	msg, ok := sender.Last()
	require.True(t, ok)
	require.Equal(t, "jane@x.com", msg.To)
	require.Contains(t, msg.HTML, "482913")
	require.Contains(t, msg.HTML, "Jane Doe")

	c.now = c.now.Add(5 * time.Minute)
	require.NoError(t, s.Verify(ctx, "jane@x.com", "482913"))
}

func TestService_IssueReplacesPreviousCode(t *testing.T) {
	ctx := context.Background()
	codes := []string{"111111", "222222"}
	c := &clock{now: time.Now()}
	s := otp.NewService(store.NewMemory(), otp.NewMailer(&email.RecordingSender{}),
		otp.WithNowFunc(c.Now),
		otp.WithGenerator(func() (string, error) {
			code := codes[0]
			codes = codes[1:]
			return code, nil
		}),
	)

	require.NoError(t, s.Issue(ctx, "jane@x.com", "Jane"))
	require.NoError(t, s.Issue(ctx, "jane@x.com", "Jane"))

	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "111111"), apperrors.ErrInvalidOTP)
	require.NoError(t, s.Verify(ctx, "jane@x.com", "222222"))
}

func TestService_ExpiredCodeIsRejected(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Now()}
	s := newService(t, &email.RecordingSender{}, c)
	require.NoError(t, s.Issue(ctx, "jane@x.com", "Jane"))

	c.now = c.now.Add(11 * time.Minute)
	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "482913"), apperrors.ErrOTPExpired)
	// the expired record is gone
	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "482913"), apperrors.ErrInvalidOTP)
}

func TestService_TooManyAttempts(t *testing.T) {
	ctx := context.Background()
	s := newService(t, &email.RecordingSender{}, &clock{now: time.Now()})
	require.NoError(t, s.Issue(ctx, "jane@x.com", "Jane"))

	for i := 0; i < otp.DefaultMaxAttempts-1; i++ {
		require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "000000"), apperrors.ErrInvalidOTP)
	}
	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "000000"), apperrors.ErrTooManyOTPAttempts)
	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "482913"), apperrors.ErrInvalidOTP)
}

func TestService_MalformedCode(t *testing.T) {
	ctx := context.Background()
	s := newService(t, &email.RecordingSender{}, &clock{now: time.Now()})
	require.NoError(t, s.Issue(ctx, "jane@x.com", "Jane"))
	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "48291"), apperrors.ErrInvalidOTP)
}

func TestService_DeliveryFailure(t *testing.T) {
	ctx := context.Background()
	sender := &email.RecordingSender{Err: errors.New("provider down")}
	s := newService(t, sender, &clock{now: time.Now()})

	require.ErrorIs(t, s.Issue(ctx, "jane@x.com", "Jane"), apperrors.ErrEmailDelivery)
}

func TestMailer_SendOTPEmailReportsFailure(t *testing.T) {
	m := otp.NewMailer(&email.RecordingSender{Err: errors.New("boom")})
	require.False(t, m.SendOTPEmail(context.Background(), "jane@x.com", "123456", "Jane"))

	m = otp.NewMailer(&email.RecordingSender{})
	require.True(t, m.SendOTPEmail(context.Background(), "jane@x.com", "123456", "<b>Jane</b>"))
}

func TestMailer_EscapesName(t *testing.T) {
	sender := &email.RecordingSender{}
	m := otp.NewMailer(sender)
	require.True(t, m.SendOTPEmail(context.Background(), "jane@x.com", "123456", "<script>x</script>"))

	msg, _ := sender.Last()
	require.NotContains(t, msg.HTML, "<script>")
}

func TestService_CodeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := newService(t, &email.RecordingSender{}, &clock{now: time.Now()})
	require.NoError(t, s.Issue(ctx, "jane@x.com", "Jane"))

	require.NoError(t, s.Verify(ctx, "jane@x.com", "482913"))
	require.ErrorIs(t, s.Verify(ctx, "jane@x.com", "482913"), apperrors.ErrInvalidOTP)
}
