package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

type sessionStore interface {
	GetChat(chatID string) (*models.ChatIdentity, bool)
	GetPIN(pin string) (*models.PINRecord, bool)
	BindChat(chatID string, enr models.Enrollment) error
	SetLanguage(chatID string, lang models.Language) error
}

// SessionService maps chat identities to their bound enrollments.
type SessionService struct {
	store  sessionStore
	audit  auditNotifier
	logger *zap.Logger
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(store sessionStore, audit auditNotifier, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{store: store, audit: audit, logger: logger}
}

// Resolve returns the enrollment bound to the chat, or NOT_LOGGED_IN.
func (s *SessionService) Resolve(chatID string) (*models.Enrollment, error) {
	rec, ok := s.store.GetChat(chatID)
	if !ok || rec.Enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotLoggedIn, "no enrollment bound to this chat")
	}
	enr := *rec.Enrollment
	return &enr, nil
}

// Redeem exchanges a pin for the enrollment it proves. Redemption only
// succeeds for the chat identity the pin was issued to; the binding is
// refreshed and persisted, preserving a previously chosen language.
func (s *SessionService) Redeem(chatID, pin string) (*models.Enrollment, error) {
	if len(pin) != 6 || !allDigits(pin) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pin must be 6 digits")
	}

	rec, ok := s.store.GetPIN(pin)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidPIN, "invalid pin")
	}
	if rec.OwnerChatID != chatID {
		s.logger.Sugar().Warnw("pin presented by non-owner", "chat_id", chatID, "owner", rec.OwnerChatID)
		return nil, appErrors.Clone(appErrors.ErrNotOwner, "pin belongs to another chat")
	}

	enr := models.Enrollment{Section: rec.Section, Roll: rec.Roll, PIN: rec.PIN}
	if err := s.store.BindChat(chatID, enr); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session binding")
	}

	if s.audit != nil {
		s.audit.Notify(models.AuditEvent{
			ID:      uuid.NewString(),
			Action:  models.AuditActionLogin,
			ChatID:  chatID,
			Section: enr.Section,
			Roll:    enr.Roll,
			At:      time.Now().UTC(),
		})
	}
	return &enr, nil
}

// Authorize reports whether the chat's own enrollment matches the section
// exactly. Used to gate result viewing regardless of menu state.
func (s *SessionService) Authorize(chatID, section string) bool {
	enr, err := s.Resolve(chatID)
	if err != nil {
		return false
	}
	return enr.Section == section
}

// SetLanguage records the chat's preferred reply language.
func (s *SessionService) SetLanguage(chatID string, lang models.Language) error {
	if !lang.IsValid() {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported language")
	}
	if err := s.store.SetLanguage(chatID, lang); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist language")
	}
	return nil
}

// Language returns the chat's preferred language, defaulting to English.
func (s *SessionService) Language(chatID string) models.Language {
	if rec, ok := s.store.GetChat(chatID); ok && rec.Language.IsValid() {
		return rec.Language
	}
	return models.LangEnglish
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
