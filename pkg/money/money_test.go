package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTax(t *testing.T) {
	assert.Equal(t, int64(200), Tax(2000, 10))
	assert.Equal(t, int64(0), Tax(0, 10))
	assert.Equal(t, int64(0), Tax(2000, 0))

	// 25 * 10% = 2.5, half-up to 3
	assert.Equal(t, int64(3), Tax(25, 10))
	assert.Equal(t, int64(2), Tax(24, 10))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(2000), LineTotal(2, 1000))
	assert.Equal(t, int64(0), LineTotal(0, 1000))
	assert.Equal(t, int64(0), LineTotal(-1, 1000))
}

func TestChange(t *testing.T) {
	assert.Equal(t, int64(3000), Change(5000, 2000))
	assert.Equal(t, int64(0), Change(2000, 2000))
	assert.Equal(t, int64(0), Change(1000, 2000))
}
