package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConf() Conf {
	return Conf{
		AccessSecret:  "access-secret",
		AccessExpire:  time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshExpire: 24 * time.Hour,
	}
}

func TestBuildPairRoundTrip(t *testing.T) {
	c := testConf()
	pair, err := BuildPair(c, "u1", "a@b.c", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := ParseAccess(c, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	_, err = ParseAccess(c, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseRefresh(c, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestParseExpired(t *testing.T) {
	c := testConf()
	signed, err := sign(c.AccessSecret, time.Millisecond, "u1", "", "user")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = ParseAccess(c, signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccess(testConf(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseAccess(Conf{}, "x")
	assert.ErrorIs(t, err, ErrInvalid)
}
