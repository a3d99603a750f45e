package models

import "time"

// Language is a student's preferred reply language.
type Language string

const (
	LangEnglish Language = "en"
	LangAmharic Language = "am"
)

// IsValid reports whether the language code is supported.
func (l Language) IsValid() bool {
	return l == LangEnglish || l == LangAmharic
}

// Enrollment is the durable binding of a chat to one student row. Immutable
// once created; at most one per (section, roll) pair and one per chat.
type Enrollment struct {
	Section string `json:"section"`
	Roll    string `json:"roll"`
	PIN     string `json:"pin"`
}

// ChatIdentity is the persisted record for one remote chat.
type ChatIdentity struct {
	ChatID     string      `json:"chat_id"`
	Language   Language    `json:"language"`
	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

// PINRecord maps an issued PIN back to its enrollment and issuing chat.
// The PIN is the sole redemption token and is honoured only when presented
// by OwnerChatID.
type PINRecord struct {
	PIN         string `json:"pin"`
	Section     string `json:"section"`
	Roll        string `json:"roll"`
	OwnerChatID string `json:"owner_chat_id"`
}

// PendingRegistration is the ephemeral state between /register and the
// language-selection event that completes it.
type PendingRegistration struct {
	ChatID    string
	Username  string
	Section   string
	Roll      string
	CreatedAt time.Time
}

// Audit actions recorded for identity changes.
const (
	AuditActionRegister = "registration_completed"
	AuditActionLogin    = "pin_redeemed"
)

// AuditEvent is one line of the append-only audit trail.
type AuditEvent struct {
	ID      string    `json:"id"`
	Action  string    `json:"action"`
	ChatID  string    `json:"chat_id"`
	Section string    `json:"section"`
	Roll    string    `json:"roll"`
	At      time.Time `json:"at"`
}
