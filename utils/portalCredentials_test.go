package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePortalUsername(t *testing.T) {
	exists := func(ctx context.Context, username string) (bool, error) {
		return false, nil
	}
	username, err := GeneratePortalUsername(context.Background(), "Maria", "Santos", exists)
	require.NoError(t, err)
	assert.Equal(t, "mariasantos", username)
}

func TestGeneratePortalUsernameResolvesCollisions(t *testing.T) {
	taken := map[string]bool{"mariasantos": true, "mariasantos1": true}
	exists := func(ctx context.Context, username string) (bool, error) {
		return taken[username], nil
	}
	username, err := GeneratePortalUsername(context.Background(), "Maria", "Santos", exists)
	require.NoError(t, err)
	assert.Equal(t, "mariasantos2", username)
}

func TestGeneratePortalUsernameStripsSpaces(t *testing.T) {
	exists := func(ctx context.Context, username string) (bool, error) {
		return false, nil
	}
	username, err := GeneratePortalUsername(context.Background(), "Maria Clara", "De La Cruz", exists)
	require.NoError(t, err)
	assert.Equal(t, "mariaclaradelacruz", username)
}

func TestGeneratePortalPassword(t *testing.T) {
	password, err := GeneratePortalPassword()
	require.NoError(t, err)
	assert.Len(t, password, portalPasswordLength)

	assert.True(t, strings.ContainsAny(password, upperChars), "missing uppercase: %s", password)
	assert.True(t, strings.ContainsAny(password, lowerChars), "missing lowercase: %s", password)
	assert.True(t, strings.ContainsAny(password, digitChars), "missing digit: %s", password)
	assert.True(t, strings.ContainsAny(password, specialChars), "missing special: %s", password)
}

func TestGeneratedPasswordPassesComplexityRules(t *testing.T) {
	for i := 0; i < 20; i++ {
		password, err := GeneratePortalPassword()
		require.NoError(t, err)
		assert.NoError(t, validatePassword(password))
	}
}
