package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/config"
)

func testConfig(endpoint string) config.NotificationConfig {
	return config.NotificationConfig{
		EmailFrom:      "GrievEase <onboarding@resend.dev>",
		APIKey:         "re_test",
		Endpoint:       endpoint,
		TimeoutSeconds: 2,
	}
}

func TestResendSender_PostsJSON(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	sender := NewResendSender(testConfig(srv.URL), zap.NewNop())
	err := sender.Send(context.Background(), Email{To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"a@example.com"}, got.To)
	assert.Equal(t, "Hi", got.Subject)
	assert.Equal(t, "GrievEase <onboarding@resend.dev>", got.From)
}

func TestResendSender_MissingKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	sender := NewResendSender(cfg, nil)

	err := sender.Send(context.Background(), Email{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResendSender_ProviderErrorOpensBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewResendSender(testConfig(srv.URL), zap.NewNop())
	for i := 0; i < 3; i++ {
		assert.Error(t, sender.Send(context.Background(), Email{To: "a@example.com"}))
	}
	assert.Equal(t, circuitbreaker.OpenState, sender.State())

	err := sender.Send(context.Background(), Email{To: "a@example.com"})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(3), calls.Load())
}

func TestResendSender_CanceledContext(t *testing.T) {
	sender := NewResendSender(testConfig("http://127.0.0.1:1"), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sender.Send(ctx, Email{To: "a@example.com"}), context.Canceled)
}
