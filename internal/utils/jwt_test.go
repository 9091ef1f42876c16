package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Parallel()

	tok, exp, err := GenerateJWT("user-1", "secret", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UID)
}

func TestParseJWT_Rejects(t *testing.T) {
	t.Parallel()

	expired, _, err := GenerateJWT("u", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	good, _, err := GenerateJWT("u", "right", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(good, "wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT("not.a.jwt", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUID, _, err := GenerateJWT("", "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(noUID, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
