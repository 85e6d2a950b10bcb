package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	require.NotEqual(t, "Abcdef1!", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, h.Verify("Abcdef1!", hash))
	require.False(t, h.Verify("wrong", hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{Cost: bcrypt.MinCost}

	h1, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	h2, err := h.Hash("Abcdef1!")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.True(t, h.Verify("Abcdef1!", h1))
	require.True(t, h.Verify("Abcdef1!", h2))
}

func TestBcryptHasher_BrokenHash_IsFalse(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{}
	require.False(t, h.Verify("Abcdef1!", "not-a-bcrypt-hash"))
	require.False(t, h.Verify("Abcdef1!", ""))
}

func TestBcryptHasher_TooLongPassword_Errors(t *testing.T) {
	t.Parallel()

	// bcrypt ограничен 72 байтами входа.
	h := BcryptHasher{Cost: bcrypt.MinCost}
	_, err := h.Hash(strings.Repeat("a", 100))
	require.Error(t, err)
}

func TestValidatePassword_Policy(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, validatePassword(""), ErrEmptyPassword)
	require.ErrorIs(t, validatePassword("Ab1!"), ErrWeakPassword)
	require.ErrorIs(t, validatePassword("abcdefg1!"), ErrWeakPassword)
	require.ErrorIs(t, validatePassword("ABCDEFG1!"), ErrWeakPassword)
	require.ErrorIs(t, validatePassword("Abcdefgh!"), ErrWeakPassword)
	require.ErrorIs(t, validatePassword("Abcdefg1"), ErrWeakPassword)

	require.NoError(t, validatePassword("Abcdef1!"))
	require.NoError(t, validatePassword("Very-Strong-Passw0rd"))
}
