package terminal

import (
	"context"

	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
)

// FailureKind classifies settlement failures so the presentation layer never
// inspects error contents.
type FailureKind int

const (
	// FailureNone means the call succeeded or was a defined no-op.
	FailureNone FailureKind = iota
	// FailureStock is the stock-insufficiency rejection: the transaction
	// stays open so the operator can adjust quantities and retry inline.
	FailureStock
	// FailureBlocking is every other failure (insufficient payment,
	// transport, validation); surfaced as a blocking notification.
	FailureBlocking
)

// Receipt reports a completed settlement. Settled distinguishes a real
// settlement from the no-op path where no transaction was open.
type Receipt struct {
	Settled bool
	Total   int64
	Change  int64
}

// Settlement drives pay and void against the session's active transaction.
type Settlement struct {
	session *Session
	backend Backend
}

// NewSettlement builds a settlement controller over the session.
func NewSettlement(session *Session, backend Backend) *Settlement {
	return &Settlement{session: session, backend: backend}
}

// Pay settles the active transaction. With no open handle it is a defined
// no-op. On success the handle is discarded; on any failure the handle is
// kept so the next refresh reconciles against the backend's state.
func (s *Settlement) Pay(ctx context.Context, paymentMethod string, amountTendered int64) (Receipt, error) {
	id, ok := s.session.Current()
	if !ok {
		return Receipt{}, nil
	}

	view, err := s.backend.Pay(ctx, id, paymentMethod, amountTendered)
	if err != nil {
		return Receipt{}, err
	}

	s.session.Discard()
	return Receipt{Settled: true, Total: view.Total, Change: view.Change}, nil
}

// Void cancels the active transaction. With no open handle it is a defined
// no-op. The handle is only discarded once the backend confirms.
func (s *Settlement) Void(ctx context.Context) (bool, error) {
	id, ok := s.session.Current()
	if !ok {
		return false, nil
	}

	if err := s.backend.Void(ctx, id); err != nil {
		return false, err
	}

	s.session.Discard()
	return true, nil
}

// Classify maps a settlement error onto its failure kind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if pkgerrors.CodeOf(err) == pkgerrors.CodeInsufficientStock {
		return FailureStock
	}
	return FailureBlocking
}
