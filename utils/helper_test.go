package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneNumber(t *testing.T) {
	t.Setenv("PHONE_COUNTRY_CODE", "NL")

	got, err := NormalizePhoneNumber("020 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "+31201234567", got)

	got, err = NormalizePhoneNumber("+44 20 7123 4567")
	require.NoError(t, err)
	assert.Equal(t, "+442071234567", got)

	_, err = NormalizePhoneNumber("12")
	assert.Error(t, err)
}

func TestJwtRoundTrip(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	token, err := JwtGenerate("E7", "Dana", true)
	require.NoError(t, err)

	parsed, err := JwtValidate(token)
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	require.True(t, ok)
	assert.Equal(t, "E7", claims.ID)
	assert.Equal(t, "Dana", claims.Name)
	assert.True(t, claims.IsAdmin)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())

	t.Setenv("API_SECRET", "other")
	_, err = JwtValidate(token)
	assert.Error(t, err)
}

func TestGetOrLoadCache_WithoutRedisCallsLoader(t *testing.T) {
	calls := 0
	load := func() (map[string]string, error) {
		calls++
		return map[string]string{"E1": "Alice"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrLoadCache("test:names", load)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got["E1"])
	}
	assert.Equal(t, 2, calls)
}
