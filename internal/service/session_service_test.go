package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

func seedPin(store *mockIdentityStore, owner, pin, section, roll string) {
	store.pins[pin] = &models.PINRecord{PIN: pin, Section: section, Roll: roll, OwnerChatID: owner}
}

func TestSessionResolveNotLoggedIn(t *testing.T) {
	svc := NewSessionService(newMockIdentityStore(), nil, nil)

	_, err := svc.Resolve("chat-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotLoggedIn.Code, appErrors.FromError(err).Code)
}

func TestSessionRedeemValidation(t *testing.T) {
	svc := NewSessionService(newMockIdentityStore(), nil, nil)

	for _, pin := range []string{"", "12345", "1234567", "12a456"} {
		_, err := svc.Redeem("chat-1", pin)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestSessionRedeemUnknownPin(t *testing.T) {
	svc := NewSessionService(newMockIdentityStore(), nil, nil)

	_, err := svc.Redeem("chat-1", "123456")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPIN.Code, appErrors.FromError(err).Code)
}

func TestSessionRedeemNotOwner(t *testing.T) {
	store := newMockIdentityStore()
	seedPin(store, "chat-1", "123456", "2A", "5")
	svc := NewSessionService(store, nil, nil)

	_, err := svc.Redeem("chat-2", "123456")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotOwner.Code, appErrors.FromError(err).Code)
}

func TestSessionRedeemBindsAndAudits(t *testing.T) {
	store := newMockIdentityStore()
	seedPin(store, "chat-1", "123456", "2A", "5")
	require.NoError(t, store.SetLanguage("chat-1", models.LangAmharic))
	audit := &recordingAudit{}
	svc := NewSessionService(store, audit, nil)

	enr, err := svc.Redeem("chat-1", "123456")
	require.NoError(t, err)
	assert.Equal(t, "2A", enr.Section)
	assert.Equal(t, "5", enr.Roll)
	assert.Equal(t, 1, audit.count())

	// Binding must not clobber the previously chosen language.
	assert.Equal(t, models.LangAmharic, svc.Language("chat-1"))

	got, err := svc.Resolve("chat-1")
	require.NoError(t, err)
	assert.Equal(t, enr, got)
}

func TestSessionAuthorize(t *testing.T) {
	store := newMockIdentityStore()
	seedPin(store, "chat-1", "123456", "2A", "5")
	svc := NewSessionService(store, nil, nil)

	_, err := svc.Redeem("chat-1", "123456")
	require.NoError(t, err)

	assert.True(t, svc.Authorize("chat-1", "2A"))
	assert.False(t, svc.Authorize("chat-1", "2B"))
	assert.False(t, svc.Authorize("chat-2", "2A"))
}

func TestSessionLanguageDefaultsToEnglish(t *testing.T) {
	svc := NewSessionService(newMockIdentityStore(), nil, nil)

	assert.Equal(t, models.LangEnglish, svc.Language("chat-1"))

	err := svc.SetLanguage("chat-1", models.Language("fr"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.SetLanguage("chat-1", models.LangAmharic))
	assert.Equal(t, models.LangAmharic, svc.Language("chat-1"))
}
