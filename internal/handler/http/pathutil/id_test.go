package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "4x", "99999999999999999999"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestValidInstance(t *testing.T) {
	assert.True(t, ValidInstance("0b9f6a52-8d0e-4c43-9d1f-1f3c2f9b7a10"))
	assert.False(t, ValidInstance(""))
	assert.False(t, ValidInstance("../etc"))
	assert.False(t, ValidInstance("not an id"))
}
