package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/selam-school/result-bot/internal/models"
)

// AuditRepository appends identity events to an append-only JSONL file.
type AuditRepository struct {
	path string
	mu   sync.Mutex
}

// NewAuditRepository constructs the audit trail under dir.
func NewAuditRepository(dir string) (*AuditRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &AuditRepository{path: filepath.Join(dir, "audit.jsonl")}, nil
}

// Append writes one event as a single JSON line.
func (r *AuditRepository) Append(ev models.AuditEvent) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
