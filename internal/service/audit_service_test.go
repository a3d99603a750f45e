package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
	"github.com/selam-school/result-bot/pkg/jobs"
)

type recordingSink struct {
	mu       sync.Mutex
	events   []models.AuditEvent
	failures int
}

func (s *recordingSink) Append(ev models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return appErrors.Clone(appErrors.ErrInternal, "sink unavailable")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestAuditServiceDeliversEvents(t *testing.T) {
	sink := &recordingSink{}
	svc := NewAuditService(sink, nil, jobs.QueueConfig{})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Notify(models.AuditEvent{ID: "ev-1", Action: models.AuditActionRegister, ChatID: "chat-1", At: time.Now().UTC()})

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "ev-1", sink.events[0].ID)
}

func TestAuditServiceRetriesFailedWrites(t *testing.T) {
	sink := &recordingSink{failures: 2}
	svc := NewAuditService(sink, nil, jobs.QueueConfig{RetryDelay: 10 * time.Millisecond})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Notify(models.AuditEvent{ID: "ev-1", Action: models.AuditActionLogin, ChatID: "chat-1", At: time.Now().UTC()})

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
}
