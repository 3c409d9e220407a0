package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultAPIURL = "https://api.resend.com/emails"

// ResendSender posts messages to a Resend-compatible JSON API.
type ResendSender struct {
	apiKey string
	from   string
	apiURL string
	client *http.Client
}

var _ Sender = (*ResendSender)(nil)

type ResendOption func(*ResendSender)

func WithAPIURL(url string) ResendOption {
	return func(s *ResendSender) {
		if url != "" {
			s.apiURL = url
		}
	}
}

func WithHTTPClient(client *http.Client) ResendOption {
	return func(s *ResendSender) {
		s.client = client
	}
}

func NewResendSender(apiKey, fromDomain string, options ...ResendOption) *ResendSender {
	s := &ResendSender{
		apiKey: apiKey,
		from:   fmt.Sprintf("Hostel <noreply@%s>", fromDomain),
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return errors.Wrap(err, "[ResendSender Send] failed to encode message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "[ResendSender Send] failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "[ResendSender Send] request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("[ResendSender Send] provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
