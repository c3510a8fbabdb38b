package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("S3cret!pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, CheckPassword(hash, "S3cret!pass"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("S3cret!pass")
	require.NoError(t, err)
	second, err := HashPassword("S3cret!pass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword(first, "S3cret!pass"))
	assert.True(t, CheckPassword(second, "S3cret!pass"))
}

func TestCheckPasswordRejectsMalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("", "anything"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
	assert.False(t, CheckPassword("$bcrypt$whatever$x$y$z", "anything"))
}
