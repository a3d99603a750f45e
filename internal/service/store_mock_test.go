package service

import (
	"sync"

	"github.com/selam-school/result-bot/internal/models"
)

// mockIdentityStore is an in-memory stand-in for the flat-file identity
// repository, satisfying both the registration and session store interfaces.
type mockIdentityStore struct {
	chats   map[string]*models.ChatIdentity
	pins    map[string]*models.PINRecord
	saveErr error
	bindErr error
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{
		chats: make(map[string]*models.ChatIdentity),
		pins:  make(map[string]*models.PINRecord),
	}
}

func (m *mockIdentityStore) GetChat(chatID string) (*models.ChatIdentity, bool) {
	rec, ok := m.chats[chatID]
	if !ok {
		return nil, false
	}
	clone := *rec
	if rec.Enrollment != nil {
		e := *rec.Enrollment
		clone.Enrollment = &e
	}
	return &clone, true
}

func (m *mockIdentityStore) GetPIN(pin string) (*models.PINRecord, bool) {
	rec, ok := m.pins[pin]
	if !ok {
		return nil, false
	}
	clone := *rec
	return &clone, true
}

func (m *mockIdentityStore) ExistingPINs() map[string]struct{} {
	set := make(map[string]struct{}, len(m.pins))
	for pin := range m.pins {
		set[pin] = struct{}{}
	}
	return set
}

func (m *mockIdentityStore) EnrollmentTaken(section, roll string) bool {
	for _, rec := range m.pins {
		if rec.Section == section && rec.Roll == roll {
			return true
		}
	}
	return false
}

func (m *mockIdentityStore) SaveRegistration(chatID string, lang models.Language, enr models.Enrollment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.pins[enr.PIN] = &models.PINRecord{PIN: enr.PIN, Section: enr.Section, Roll: enr.Roll, OwnerChatID: chatID}
	e := enr
	m.chats[chatID] = &models.ChatIdentity{ChatID: chatID, Language: lang, Enrollment: &e}
	return nil
}

func (m *mockIdentityStore) BindChat(chatID string, enr models.Enrollment) error {
	if m.bindErr != nil {
		return m.bindErr
	}
	lang := models.LangEnglish
	if rec, ok := m.chats[chatID]; ok && rec.Language.IsValid() {
		lang = rec.Language
	}
	e := enr
	m.chats[chatID] = &models.ChatIdentity{ChatID: chatID, Language: lang, Enrollment: &e}
	return nil
}

func (m *mockIdentityStore) SetLanguage(chatID string, lang models.Language) error {
	rec, ok := m.chats[chatID]
	if !ok {
		rec = &models.ChatIdentity{ChatID: chatID}
		m.chats[chatID] = rec
	}
	rec.Language = lang
	return nil
}

// recordingAudit captures notified events.
type recordingAudit struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (r *recordingAudit) Notify(ev models.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
