package terminal

import (
	"context"
	"sync"

	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
)

// Session owns the identity of the currently active transaction and mediates
// every state-changing call against it. The mutex serializes mutations so a
// settlement can never race an item change against the same handle.
type Session struct {
	mu      sync.Mutex
	backend Backend
	current string
}

// NewSession builds a session with no active transaction.
func NewSession(backend Backend) *Session {
	return &Session{backend: backend}
}

// EnsureOpen returns the held handle, opening a transaction first when none
// exists. Repeated calls while a transaction is open never create a second
// one.
func (s *Session) EnsureOpen(ctx context.Context, customer, paymentMethod string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureOpenLocked(ctx, customer, paymentMethod)
}

func (s *Session) ensureOpenLocked(ctx context.Context, customer, paymentMethod string) (string, error) {
	if s.current != "" {
		return s.current, nil
	}
	id, err := s.backend.OpenTransaction(ctx, customer, paymentMethod)
	if err != nil {
		return "", err
	}
	s.current = id
	return id, nil
}

// AddItem appends-or-merges an item on the active transaction, opening one
// first if needed. Quantity must already be clamped to at least 1 by the
// caller's presentation layer; anything lower is rejected.
func (s *Session) AddItem(ctx context.Context, sku string, qty int, priceOverride *int64) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureOpenLocked(ctx, "", "")
	if err != nil {
		return err
	}
	return s.backend.AddItem(ctx, id, sku, qty, priceOverride)
}

// SetItemQuantity replaces an item's quantity; zero signals removal. Calling
// with no open transaction is a defined no-op, not an error.
func (s *Session) SetItemQuantity(ctx context.Context, sku string, qty int) error {
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "qty must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return nil
	}
	return s.backend.SetItemQuantity(ctx, s.current, sku, qty)
}

// Current returns the held handle, if any. Pure read.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

// Discard clears the held handle without contacting the backend. Used after
// settlement, where the backend has already closed the transaction.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}
