package password

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("CorrectHorse9!xyz")
	require.NoError(t, err)

	needsUpgrade, err := hasher.Compare(hash, "CorrectHorse9!xyz")
	require.NoError(t, err)
	assert.False(t, needsUpgrade)

	_, err = hasher.Compare(hash, "wrong-password")
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestLegacyMD5Upgrade(t *testing.T) {
	hasher := NewBcryptHasher(4)

	digest := md5.Sum([]byte("legacy-secret"))
	legacy := hex.EncodeToString(digest[:])

	needsUpgrade, err := hasher.Compare(legacy, "legacy-secret")
	require.NoError(t, err)
	assert.True(t, needsUpgrade)

	_, err = hasher.Compare(legacy, "not-the-secret")
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	hasher := NewBcryptHasher(4)
	_, err := hasher.Hash("")
	require.Error(t, err)
}
