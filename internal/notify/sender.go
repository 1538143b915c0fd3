package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/observability"
)

// ErrNotConfigured is returned when no provider API key is set.
var ErrNotConfigured = errors.New("email provider not configured")

// Sender delivers rendered emails.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// ResendSender posts emails to a Resend-compatible HTTP API behind a circuit breaker.
type ResendSender struct {
	cfg    config.NotificationConfig
	cb     circuitbreaker.CircuitBreaker[any]
	logger *zap.Logger
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NewResendSender builds the sender. Three consecutive failures open the
// breaker for 30 seconds.
func NewResendSender(cfg config.NotificationConfig, logger *zap.Logger) *ResendSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(3).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			logger.Warn("email circuit breaker state changed",
				zap.String("from", e.OldState.String()),
				zap.String("to", e.NewState.String()))
			observability.EmailCircuitState.Set(stateToFloat(e.NewState))
		}).
		Build()

	return &ResendSender{cfg: cfg, cb: cb, logger: logger}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// Send posts one email.
func (s *ResendSender) Send(ctx context.Context, email Email) error {
	if s.cfg.APIKey == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.cb.TryAcquirePermit() {
		return fmt.Errorf("send email: %w", circuitbreaker.ErrOpen)
	}

	agent := fiber.Post(s.cfg.Endpoint)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+s.cfg.APIKey)
	agent.Timeout(s.cfg.Timeout())
	agent.JSON(resendRequest{
		From:    s.cfg.EmailFrom,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		s.cb.RecordError(err)
		return fmt.Errorf("send email: %w", err)
	}
	if status >= fiber.StatusBadRequest {
		err := fmt.Errorf("email provider returned %d: %s", status, truncate(string(body), 200))
		s.cb.RecordError(err)
		return err
	}
	s.cb.RecordSuccess()
	return nil
}

// State reports the breaker state.
func (s *ResendSender) State() circuitbreaker.State {
	return s.cb.State()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
