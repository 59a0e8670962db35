package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cretpass", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cretpass", hash)

	require.True(t, VerifyPassword(hash, "s3cretpass"))
	require.False(t, VerifyPassword(hash, "wrongpass"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	require.False(t, VerifyPassword("not-a-bcrypt-hash", "whatever"))
	require.False(t, VerifyPassword("", "whatever"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
