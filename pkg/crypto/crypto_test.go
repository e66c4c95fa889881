package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", string(hashed))

	assert.True(t, VerifyPassword("password1", hashed))
	assert.False(t, VerifyPassword("password2", hashed))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	first, err := HashPassword("password1")
	require.NoError(t, err)
	second, err := HashPassword("password1")
	require.NoError(t, err)

	// Salt baru tiap pemanggilan, hash tidak boleh sama.
	assert.NotEqual(t, string(first), string(second))
}
