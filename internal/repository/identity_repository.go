package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

const identityFormatVersion = 1

// chatsFile is the on-disk envelope for the chat-identity mapping.
type chatsFile struct {
	Version int                             `json:"version"`
	Chats   map[string]*models.ChatIdentity `json:"chats"`
}

// pinsFile is the on-disk envelope for the pin mapping.
type pinsFile struct {
	Version int                          `json:"version"`
	Pins    map[string]*models.PINRecord `json:"pins"`
}

// IdentityRepository persists the chat->enrollment and pin->owner mappings as
// two flat JSON files. Both are held fully in memory, mutated under a single
// writer lock and rewritten atomically (temp file + rename) on every change.
type IdentityRepository struct {
	chatsPath string
	pinsPath  string
	logger    *zap.Logger

	mu    sync.Mutex
	chats map[string]*models.ChatIdentity
	pins  map[string]*models.PINRecord
}

// NewIdentityRepository loads (or initialises) the identity files under dir.
func NewIdentityRepository(dir string, logger *zap.Logger) (*IdentityRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	r := &IdentityRepository{
		chatsPath: filepath.Join(dir, "chats.json"),
		pinsPath:  filepath.Join(dir, "pins.json"),
		logger:    logger,
		chats:     make(map[string]*models.ChatIdentity),
		pins:      make(map[string]*models.PINRecord),
	}

	var cf chatsFile
	if err := readJSONFile(r.chatsPath, &cf); err != nil {
		return nil, err
	}
	if cf.Chats != nil {
		r.chats = cf.Chats
	}

	var pf pinsFile
	if err := readJSONFile(r.pinsPath, &pf); err != nil {
		return nil, err
	}
	if pf.Pins != nil {
		r.pins = pf.Pins
	}

	logger.Sugar().Infow("identity store loaded", "chats", len(r.chats), "pins", len(r.pins))
	return r, nil
}

// GetChat returns a copy of the chat record, if one exists.
func (r *IdentityRepository) GetChat(chatID string) (*models.ChatIdentity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.chats[chatID]
	if !ok {
		return nil, false
	}
	return copyChat(rec), true
}

// GetPIN returns a copy of the pin record, if one exists.
func (r *IdentityRepository) GetPIN(pin string) (*models.PINRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.pins[pin]
	if !ok {
		return nil, false
	}
	clone := *rec
	return &clone, true
}

// ExistingPINs returns the set of issued pins.
func (r *IdentityRepository) ExistingPINs() map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := make(map[string]struct{}, len(r.pins))
	for pin := range r.pins {
		set[pin] = struct{}{}
	}
	return set
}

// EnrollmentTaken reports whether a pin record already claims the pair.
func (r *IdentityRepository) EnrollmentTaken(section, roll string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enrollmentTakenLocked(section, roll)
}

func (r *IdentityRepository) enrollmentTakenLocked(section, roll string) bool {
	for _, rec := range r.pins {
		if rec.Section == section && rec.Roll == roll {
			return true
		}
	}
	return false
}

// SaveRegistration persists a completed registration: the pin record and the
// chat binding, committed together. Both files are staged as temp files
// before either is renamed into place, so a failed write commits neither; on
// any error the in-memory maps are restored to their prior state.
func (r *IdentityRepository) SaveRegistration(chatID string, lang models.Language, enr models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prevPin, hadPin := r.pins[enr.PIN]
	prevChat, hadChat := r.chats[chatID]

	r.pins[enr.PIN] = &models.PINRecord{
		PIN:         enr.PIN,
		Section:     enr.Section,
		Roll:        enr.Roll,
		OwnerChatID: chatID,
	}
	e := enr
	r.chats[chatID] = &models.ChatIdentity{
		ChatID:     chatID,
		Language:   lang,
		Enrollment: &e,
	}

	if err := r.persistBothLocked(); err != nil {
		if hadPin {
			r.pins[enr.PIN] = prevPin
		} else {
			delete(r.pins, enr.PIN)
		}
		if hadChat {
			r.chats[chatID] = prevChat
		} else {
			delete(r.chats, chatID)
		}
		return err
	}
	return nil
}

// BindChat sets (or refreshes) the enrollment on a chat record, preserving a
// previously chosen language. The in-memory record is restored if the write
// fails.
func (r *IdentityRepository) BindChat(chatID string, enr models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, had := r.chats[chatID]

	lang := models.LangEnglish
	if had && prev.Language.IsValid() {
		lang = prev.Language
	}
	e := enr
	r.chats[chatID] = &models.ChatIdentity{
		ChatID:     chatID,
		Language:   lang,
		Enrollment: &e,
	}

	if err := r.persistChatsLocked(); err != nil {
		if had {
			r.chats[chatID] = prev
		} else {
			delete(r.chats, chatID)
		}
		return err
	}
	return nil
}

// SetLanguage records the preferred language, creating the chat record on
// first selection. The in-memory record is restored if the write fails.
func (r *IdentityRepository) SetLanguage(chatID string, lang models.Language) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, had := r.chats[chatID]
	if had {
		next := copyChat(prev)
		next.Language = lang
		r.chats[chatID] = next
	} else {
		r.chats[chatID] = &models.ChatIdentity{ChatID: chatID, Language: lang}
	}

	if err := r.persistChatsLocked(); err != nil {
		if had {
			r.chats[chatID] = prev
		} else {
			delete(r.chats, chatID)
		}
		return err
	}
	return nil
}

func (r *IdentityRepository) persistChatsLocked() error {
	return writeJSONFile(r.chatsPath, chatsFile{Version: identityFormatVersion, Chats: r.chats})
}

// persistBothLocked commits the pin and chat files together: both payloads
// are staged before either rename, so a failure while staging leaves the
// previous on-disk state fully intact.
func (r *IdentityRepository) persistBothLocked() error {
	pinsTmp, err := stageJSONFile(r.pinsPath, pinsFile{Version: identityFormatVersion, Pins: r.pins})
	if err != nil {
		return err
	}
	chatsTmp, err := stageJSONFile(r.chatsPath, chatsFile{Version: identityFormatVersion, Chats: r.chats})
	if err != nil {
		_ = os.Remove(pinsTmp)
		return err
	}

	if err := os.Rename(pinsTmp, r.pinsPath); err != nil {
		_ = os.Remove(chatsTmp)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "replace identity file")
	}
	if err := os.Rename(chatsTmp, r.chatsPath); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "replace identity file")
	}
	return nil
}

func copyChat(rec *models.ChatIdentity) *models.ChatIdentity {
	clone := *rec
	if rec.Enrollment != nil {
		e := *rec.Enrollment
		clone.Enrollment = &e
	}
	return &clone
}

func readJSONFile(path string, dest interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func stageJSONFile(path string, value interface{}) (string, error) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode identity file")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write identity file")
	}
	return tmp, nil
}

func writeJSONFile(path string, value interface{}) error {
	tmp, err := stageJSONFile(path, value)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "replace identity file")
	}
	return nil
}
