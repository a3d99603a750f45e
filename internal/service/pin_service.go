package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

const pinSpace = 1000000 // 000000-999999

// PINService issues collision-free 6-digit access credentials.
type PINService struct {
	maxAttempts int
	draw        func() (string, error)
}

// NewPINService constructs a PIN issuer with a bounded collision-retry cap.
func NewPINService(maxAttempts int) *PINService {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	s := &PINService{maxAttempts: maxAttempts}
	s.draw = s.randomPIN
	return s
}

// Issue draws uniformly from the zero-padded 6-digit space, rejecting
// collisions against existing pins. After maxAttempts collisions it fails
// with PIN_EXHAUSTED so the caller aborts registration instead of looping.
func (s *PINService) Issue(existing map[string]struct{}) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		pin, err := s.draw()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "draw pin")
		}
		if _, taken := existing[pin]; !taken {
			return pin, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrPINExhausted,
		fmt.Sprintf("no free pin after %d attempts", s.maxAttempts))
}

func (s *PINService) randomPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pinSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
