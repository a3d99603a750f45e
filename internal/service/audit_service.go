package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/selam-school/result-bot/internal/models"
	"github.com/selam-school/result-bot/pkg/jobs"
)

type auditSink interface {
	Append(ev models.AuditEvent) error
}

// AuditService dispatches identity events to the audit trail off the update
// path, riding the retrying job queue so a slow or failing write never
// stalls event handling.
type AuditService struct {
	queue  *jobs.Queue[models.AuditEvent]
	logger *zap.Logger
}

// NewAuditService builds the audit dispatcher around the given sink.
func NewAuditService(sink auditSink, logger *zap.Logger, cfg jobs.QueueConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger

	return &AuditService{
		logger: logger,
		queue: jobs.NewQueue("audit", func(_ context.Context, ev models.AuditEvent) error {
			return sink.Append(ev)
		}, cfg),
	}
}

// Start begins background dispatch.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the dispatcher.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Notify queues one audit event; delivery failures are retried by the queue
// and finally logged, never surfaced to the triggering chat event.
func (s *AuditService) Notify(ev models.AuditEvent) {
	if err := s.queue.Enqueue(ev); err != nil {
		s.logger.Sugar().Warnw("audit event dropped", "event_id", ev.ID, "error", err)
	}
}
