package terminal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
)

func TestEnsureOpenReusesHandle(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	session := NewSession(backend)

	first, err := session.EnsureOpen(ctx, "umum", "cash")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := session.EnsureOpen(ctx, "umum", "cash")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.openCalls)
}

func TestAddItemOpensTransactionWhenNoneActive(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	session := NewSession(backend)

	_, ok := session.Current()
	require.False(t, ok)

	require.NoError(t, session.AddItem(ctx, "BRG-001", 2, nil))

	id, ok := session.Current()
	require.True(t, ok)
	assert.Len(t, backend.views[id].Items, 1)
	assert.Equal(t, 1, backend.openCalls)
}

func TestAddItemRejectsNonPositiveQty(t *testing.T) {
	session := NewSession(newStubBackend())

	err := session.AddItem(context.Background(), "BRG-001", 0, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestSetItemQuantityWithoutTransactionIsNoOp(t *testing.T) {
	backend := newStubBackend()
	session := NewSession(backend)

	require.NoError(t, session.SetItemQuantity(context.Background(), "BRG-001", 3))
	assert.Equal(t, 0, backend.openCalls)
}

func TestSetItemQuantityRejectsNegativeQty(t *testing.T) {
	session := NewSession(newStubBackend())

	err := session.SetItemQuantity(context.Background(), "BRG-001", -1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestDiscardClearsHandleWithoutBackendCall(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	session := NewSession(backend)

	_, err := session.EnsureOpen(ctx, "", "")
	require.NoError(t, err)

	session.Discard()

	_, ok := session.Current()
	assert.False(t, ok)
	// The backend record stays untouched; discard is purely local.
	assert.Equal(t, "OPEN", backend.views["trx-1"].Header.Status)
}
