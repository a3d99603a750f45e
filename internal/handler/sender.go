package handler

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/selam-school/result-bot/internal/service"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

// Sender delivers outbound replies with bounded exponential backoff
// (1s, 2s, 4s between attempts). After the final failure the message is
// degraded to a local log entry; identity state is never rolled back for a
// delivery failure.
type Sender struct {
	maxAttempts int
	metrics     *service.MetricsService
	logger      *zap.Logger
}

// NewSender constructs a Sender.
func NewSender(maxAttempts int, metrics *service.MetricsService, logger *zap.Logger) *Sender {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{maxAttempts: maxAttempts, metrics: metrics, logger: logger}
}

// Send replies on the context's chat, retrying transient delivery failures.
func (s *Sender) Send(c tele.Context, what interface{}, opts ...interface{}) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(1<<(attempt-2)) * time.Second)
			s.metrics.SendRetry()
		}
		if err = c.Send(what, opts...); err == nil {
			return nil
		}
		s.logger.Sugar().Warnw("outbound delivery failed", "attempt", attempt, "error", err)
	}

	s.logger.Sugar().Errorw("outbound delivery abandoned", "attempts", s.maxAttempts, "error", err)
	return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "outbound delivery failed")
}
