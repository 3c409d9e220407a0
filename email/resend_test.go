package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-hostel-server/email"
	"github.com/stretchr/testify/require"
)

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	s := email.NewResendSender("re_key", "hostel.example.edu", email.WithAPIURL(srv.URL))
	err := s.Send(context.Background(), email.Message{To: "jane@x.com", Subject: "Hi", HTML: "<p>hi</p>"})
	require.NoError(t, err)

	require.Equal(t, "Bearer re_key", auth)
	require.Equal(t, "Hostel <noreply@hostel.example.edu>", got["from"])
	require.Equal(t, []any{"jane@x.com"}, got["to"])
	require.Equal(t, "Hi", got["subject"])
}

func TestResendSender_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := email.NewResendSender("bad", "hostel.example.edu", email.WithAPIURL(srv.URL))
	err := s.Send(context.Background(), email.Message{To: "jane@x.com"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestRecordingSender(t *testing.T) {
	r := &email.RecordingSender{}
	_, ok := r.Last()
	require.False(t, ok)

	require.NoError(t, r.Send(context.Background(), email.Message{To: "a@b.co"}))
	last, ok := r.Last()
	require.True(t, ok)
	require.Equal(t, "a@b.co", last.To)
}
