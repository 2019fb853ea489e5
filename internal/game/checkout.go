package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/langaas500/Hvemistua/internal/questions"
)

// CheckoutStatus is the state of a mock checkout.
type CheckoutStatus string

const (
	CheckoutOpen     CheckoutStatus = "open"
	CheckoutPaid     CheckoutStatus = "paid"
	CheckoutCanceled CheckoutStatus = "canceled"
)

// Checkout is a mock payment for the 18+ unlock. It moves from open to
// paid or canceled, and never back.
type Checkout struct {
	ID         string         `json:"id"`
	Status     CheckoutStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	ResolvedAt time.Time      `json:"resolvedAt,omitzero"`
}

// CreateCheckout opens a checkout for the 18+ pack.
func (s *Session) CreateCheckout(now time.Time) (Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.phase != PhaseLobby:
		return Checkout{}, ErrWrongPhase
	case s.mode != questions.ModeAdult:
		return Checkout{}, ErrCheckoutNotAllowed
	case s.unlocked(now):
		return Checkout{}, ErrAlreadyUnlocked
	case s.checkout != nil && s.checkout.Status == CheckoutOpen:
		return Checkout{}, ErrCheckoutOpen
	}
	s.checkout = &Checkout{ID: uuid.NewString(), Status: CheckoutOpen, CreatedAt: now}
	return *s.checkout, nil
}

// MarkPaid confirms the open checkout and unlocks the 18+ pack for the
// unlock window.
func (s *Session) MarkPaid(id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolvable(id); err != nil {
		return err
	}
	s.checkout.Status = CheckoutPaid
	s.checkout.ResolvedAt = now
	s.unlockUntil = now.Add(s.rules.UnlockWindow)
	return nil
}

// MarkCanceled closes the open checkout without unlocking anything.
func (s *Session) MarkCanceled(id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolvable(id); err != nil {
		return err
	}
	s.checkout.Status = CheckoutCanceled
	s.checkout.ResolvedAt = now
	return nil
}

func (s *Session) resolvable(id string) error {
	if s.checkout == nil || s.checkout.ID != id {
		return ErrCheckoutNotFound
	}
	if s.checkout.Status != CheckoutOpen {
		return ErrCheckoutResolved
	}
	return nil
}

// Checkout returns the current checkout, if any.
func (s *Session) Checkout() (Checkout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout == nil {
		return Checkout{}, false
	}
	return *s.checkout, true
}

// UnlockedUntil returns the end of the unlock window, zero if never paid.
func (s *Session) UnlockedUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlockUntil
}
