package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "calling backend")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "DEPENDENCY_ERROR: calling backend", err.Error())
}

func TestAsUnwrapsNestedError(t *testing.T) {
	inner := New(CodeInsufficientStock, "stok_kurang").WithDetails([]map[string]any{
		{"sku": "SY001", "stock": 1, "need": 3},
	})
	wrapped := fmt.Errorf("settle: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeInsufficientStock, typed.Code())
	assert.NotNil(t, typed.Details())
}

func TestMetadataForSettlementCodes(t *testing.T) {
	stock := MetadataFor(CodeInsufficientStock)
	assert.Equal(t, http.StatusConflict, stock.HTTPStatus)
	assert.True(t, stock.DetailsAllowed)

	payment := MetadataFor(CodeInsufficientPayment)
	assert.Equal(t, http.StatusBadRequest, payment.HTTPStatus)

	unknown := MetadataFor(Code("NO_SUCH_CODE"))
	assert.Equal(t, http.StatusInternalServerError, unknown.HTTPStatus)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, CodeStateConflict, CodeOf(New(CodeStateConflict, "transaksi sudah tidak OPEN")))
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeForStatus(http.StatusConflict))
	assert.Equal(t, CodeValidation, CodeForStatus(http.StatusBadRequest))
	assert.Equal(t, CodeRateLimited, CodeForStatus(http.StatusTooManyRequests))
	assert.Equal(t, CodeDependency, CodeForStatus(http.StatusBadGateway))
}
