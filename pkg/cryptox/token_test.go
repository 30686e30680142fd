package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret(SecretSize256)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(secret)
	require.NoError(t, err)
	require.Len(t, raw, SecretSize256)

	other, err := GenerateSecret(SecretSize256)
	require.NoError(t, err)
	require.NotEqual(t, secret, other, "secrets should be unique")
}

func TestGenerateSecret_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		secret, err := GenerateSecret(size)
		require.Error(t, err)
		require.Empty(t, secret)
	}
}

func TestFingerprint(t *testing.T) {
	fp1a := FingerprintToken("token-1")
	fp1b := FingerprintToken("token-1")
	fp2 := FingerprintToken("token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 16)
	require.NotContains(t, fp1a, "token")

	require.Empty(t, FingerprintToken(""))
}
