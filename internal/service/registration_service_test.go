package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

type stubPinIssuer struct {
	pin string
	err error
}

func (s *stubPinIssuer) Issue(existing map[string]struct{}) (string, error) {
	return s.pin, s.err
}

func newTestRegistrations(store *mockIdentityStore, pins pinIssuer, audit auditNotifier, ttl time.Duration) *RegistrationService {
	return NewRegistrationService(store, pins, audit, nil, nil, nil, ttl)
}

func TestRegistrationBeginValidation(t *testing.T) {
	svc := newTestRegistrations(newMockIdentityStore(), &stubPinIssuer{pin: "123456"}, nil, time.Minute)

	cases := []struct {
		name    string
		section string
		roll    string
	}{
		{"unknown section", "9Z", "10"},
		{"non-numeric roll", "1A", "ten"},
		{"roll too low", "1A", "0"},
		{"roll too high", "1A", "61"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Begin("chat-1", "user", tc.section, tc.roll)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestRegistrationBeginAlreadyBound(t *testing.T) {
	store := newMockIdentityStore()
	require.NoError(t, store.SaveRegistration("chat-1", models.LangEnglish, models.Enrollment{Section: "2B", Roll: "7", PIN: "654321"}))
	svc := newTestRegistrations(store, &stubPinIssuer{pin: "123456"}, nil, time.Minute)

	_, err := svc.Begin("chat-1", "user", "1A", "10")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyBound.Code, appErrors.FromError(err).Code)
}

func TestRegistrationBeginStudentTaken(t *testing.T) {
	store := newMockIdentityStore()
	require.NoError(t, store.SaveRegistration("chat-1", models.LangEnglish, models.Enrollment{Section: "1A", Roll: "10", PIN: "654321"}))
	svc := newTestRegistrations(store, &stubPinIssuer{pin: "123456"}, nil, time.Minute)

	_, err := svc.Begin("chat-2", "user", "1A", "10")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStudentTaken.Code, appErrors.FromError(err).Code)
}

func TestRegistrationCompleteHappyPath(t *testing.T) {
	store := newMockIdentityStore()
	audit := &recordingAudit{}
	svc := newTestRegistrations(store, &stubPinIssuer{pin: "123456"}, audit, time.Minute)

	pending, err := svc.Begin("chat-1", "user", "3A", "15")
	require.NoError(t, err)
	assert.Equal(t, "3A", pending.Section)
	assert.Equal(t, "15", pending.Roll)
	assert.True(t, svc.HasPending("chat-1"))

	enr, err := svc.Complete("chat-1", models.LangAmharic)
	require.NoError(t, err)
	assert.Equal(t, "123456", enr.PIN)
	assert.Equal(t, "3A", enr.Section)
	assert.False(t, svc.HasPending("chat-1"))
	assert.Equal(t, 1, audit.count())

	rec, ok := store.GetChat("chat-1")
	require.True(t, ok)
	require.NotNil(t, rec.Enrollment)
	assert.Equal(t, models.LangAmharic, rec.Language)
}

func TestRegistrationCompleteWithoutPending(t *testing.T) {
	svc := newTestRegistrations(newMockIdentityStore(), &stubPinIssuer{pin: "123456"}, nil, time.Minute)

	_, err := svc.Complete("chat-1", models.LangEnglish)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpired.Code, appErrors.FromError(err).Code)
}

func TestRegistrationPendingExpires(t *testing.T) {
	svc := newTestRegistrations(newMockIdentityStore(), &stubPinIssuer{pin: "123456"}, nil, 20*time.Millisecond)

	_, err := svc.Begin("chat-1", "user", "1A", "10")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !svc.HasPending("chat-1") }, time.Second, 10*time.Millisecond)

	_, err = svc.Complete("chat-1", models.LangEnglish)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpired.Code, appErrors.FromError(err).Code)
}

func TestRegistrationBeginReplacesPending(t *testing.T) {
	store := newMockIdentityStore()
	svc := newTestRegistrations(store, &stubPinIssuer{pin: "123456"}, nil, time.Minute)

	_, err := svc.Begin("chat-1", "user", "1A", "10")
	require.NoError(t, err)
	_, err = svc.Begin("chat-1", "user", "4B", "22")
	require.NoError(t, err)

	enr, err := svc.Complete("chat-1", models.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "4B", enr.Section)
	assert.Equal(t, "22", enr.Roll)
}

func TestRegistrationCommitTimeConflict(t *testing.T) {
	store := newMockIdentityStore()
	svc := newTestRegistrations(store, &stubPinIssuer{pin: "123456"}, nil, time.Minute)

	_, err := svc.Begin("chat-1", "alice", "1A", "10")
	require.NoError(t, err)
	_, err = svc.Begin("chat-2", "bob", "1A", "10")
	require.NoError(t, err)

	_, err = svc.Complete("chat-1", models.LangEnglish)
	require.NoError(t, err)

	_, err = svc.Complete("chat-2", models.LangEnglish)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStudentTaken.Code, appErrors.FromError(err).Code)

	_, ok := store.GetChat("chat-2")
	assert.False(t, ok)
}

func TestRegistrationCompletePinExhausted(t *testing.T) {
	svc := newTestRegistrations(newMockIdentityStore(), &stubPinIssuer{err: appErrors.Clone(appErrors.ErrPINExhausted, "no free pin")}, nil, time.Minute)

	_, err := svc.Begin("chat-1", "user", "1A", "10")
	require.NoError(t, err)

	_, err = svc.Complete("chat-1", models.LangEnglish)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPINExhausted.Code, appErrors.FromError(err).Code)
}
