package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublicOmitsPasswordHash(t *testing.T) {
	u := User{
		ID:           "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		Username:     "ann1",
		PasswordHash: "$2a$08$secret-hash-material",
		Name:         "Ann",
		Role:         "admin",
		MobileNumber: "555-0100",
		CreatedAt:    time.Unix(1700000000, 0).UTC(),
	}

	raw, err := json.Marshal(u.Public())
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret-hash-material")
	require.NotContains(t, string(raw), "assword")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "ann1", decoded["userName"])
	require.Equal(t, "555-0100", decoded["mobileNumber"])
}

func TestUserPatchIsEmpty(t *testing.T) {
	require.True(t, UserPatch{}.IsEmpty())

	name := "Ann"
	require.False(t, UserPatch{Name: &name}.IsEmpty())
}
