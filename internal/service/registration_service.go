package service

import (
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

type registrationStore interface {
	GetChat(chatID string) (*models.ChatIdentity, bool)
	EnrollmentTaken(section, roll string) bool
	ExistingPINs() map[string]struct{}
	SaveRegistration(chatID string, lang models.Language, enr models.Enrollment) error
}

type pinIssuer interface {
	Issue(existing map[string]struct{}) (string, error)
}

type auditNotifier interface {
	Notify(ev models.AuditEvent)
}

type beginRequest struct {
	Section string `validate:"required"`
	Roll    int    `validate:"min=1,max=60"`
}

type pendingEntry struct {
	models.PendingRegistration
	timer *time.Timer
}

// RegistrationService owns the pending-registration state machine:
// NoPending -> Pending -> {Expired, Completed}. Entries are keyed by chat
// identity, each owning a single cancellable timer; expiry and completion
// serialize on the same lock. On restart all pending entries are lost, which
// is acceptable for this short-lived state.
type RegistrationService struct {
	store     registrationStore
	pins      pinIssuer
	audit     auditNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEntry
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(store registrationStore, pins pinIssuer, audit auditNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &RegistrationService{
		store:     store,
		pins:      pins,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		ttl:       ttl,
		pending:   make(map[string]*pendingEntry),
	}
}

// Begin validates a /register request and opens (or replaces) the pending
// entry for the chat. A fresh request while one is pending wins, replacing
// the previous entry and its timer.
func (s *RegistrationService) Begin(chatID, username, section, roll string) (*models.PendingRegistration, error) {
	if !models.IsValidSection(section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade/section code")
	}

	n, err := strconv.Atoi(roll)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roll number must be an integer")
	}
	if err := s.validator.Struct(beginRequest{Section: section, Roll: n}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "roll number must be between 1 and 60")
	}
	roll = strconv.Itoa(n)

	if rec, ok := s.store.GetChat(chatID); ok && rec.Enrollment != nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyBound, "this chat is already registered")
	}
	if s.store.EnrollmentTaken(section, roll) {
		return nil, appErrors.Clone(appErrors.ErrStudentTaken, "student already registered")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[chatID]; ok {
		old.timer.Stop()
		s.logger.Sugar().Infow("pending registration replaced", "chat_id", chatID)
	}

	entry := &pendingEntry{
		PendingRegistration: models.PendingRegistration{
			ChatID:    chatID,
			Username:  username,
			Section:   section,
			Roll:      roll,
			CreatedAt: time.Now().UTC(),
		},
	}
	entry.timer = time.AfterFunc(s.ttl, func() { s.expire(chatID, entry) })
	s.pending[chatID] = entry

	s.logger.Sugar().Infow("registration pending", "chat_id", chatID, "section", section, "roll", roll)
	p := entry.PendingRegistration
	return &p, nil
}

// Complete promotes the pending entry into a persisted enrollment and pin
// record, keyed off the language-selection event. Uniqueness invariants are
// re-validated at commit time; on conflict nothing is persisted.
func (s *RegistrationService) Complete(chatID string, lang models.Language) (*models.Enrollment, error) {
	if !lang.IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported language")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[chatID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrExpired, "registration session expired")
	}
	entry.timer.Stop()
	delete(s.pending, chatID)

	if rec, ok := s.store.GetChat(chatID); ok && rec.Enrollment != nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyBound, "this chat is already registered")
	}
	if s.store.EnrollmentTaken(entry.Section, entry.Roll) {
		return nil, appErrors.Clone(appErrors.ErrStudentTaken, "student already registered")
	}

	pin, err := s.pins.Issue(s.store.ExistingPINs())
	if err != nil {
		s.logger.Sugar().Errorw("pin issuance failed", "chat_id", chatID, "error", err)
		return nil, err
	}

	enr := models.Enrollment{Section: entry.Section, Roll: entry.Roll, PIN: pin}
	if err := s.store.SaveRegistration(chatID, lang, enr); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist registration")
	}

	s.metrics.RegistrationCompleted()
	if s.audit != nil {
		s.audit.Notify(models.AuditEvent{
			ID:      uuid.NewString(),
			Action:  models.AuditActionRegister,
			ChatID:  chatID,
			Section: enr.Section,
			Roll:    enr.Roll,
			At:      time.Now().UTC(),
		})
	}

	s.logger.Sugar().Infow("registration completed", "chat_id", chatID, "section", enr.Section, "roll", enr.Roll)
	return &enr, nil
}

// HasPending reports whether the chat currently awaits language selection.
func (s *RegistrationService) HasPending(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[chatID]
	return ok
}

func (s *RegistrationService) expire(chatID string, entry *pendingEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A replacement or completion may have raced the timer; only discard the
	// exact entry this timer belongs to.
	if current, ok := s.pending[chatID]; !ok || current != entry {
		return
	}
	delete(s.pending, chatID)
	s.metrics.RegistrationExpired()
	s.logger.Sugar().Infow("pending registration expired", "chat_id", chatID, "section", entry.Section, "roll", entry.Roll)
}
