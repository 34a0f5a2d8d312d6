package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvVar, "")
	return home
}

func TestNoToken(t *testing.T) {
	isolate(t)
	_, err := Get()
	assert.ErrorIs(t, err, ErrNoToken)

	tok, err := Token()
	require.NoError(t, err)
	assert.Equal(t, "", tok)
}

func TestSaveGetDelete(t *testing.T) {
	home := isolate(t)

	_, err := Save("  Bearer abc123 ")
	require.NoError(t, err)

	fi, err := os.Stat(filepath.Join(home, ".tada", credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	ti, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "abc123", ti.Token)
	assert.Equal(t, SourceFile, ti.Source)
	assert.Nil(t, ti.ExpiresAt)

	require.NoError(t, Delete())
	require.NoError(t, Delete())
	_, err = Get()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	_, err := Save("from-file")
	require.NoError(t, err)
	t.Setenv(EnvVar, "bearer from-env")

	ti, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, SourceEnv, ti.Source)
}

func TestSaveEmpty(t *testing.T) {
	isolate(t)
	for _, in := range []string{"", "   ", "Bearer", "Bearer   ", "bearer\t"} {
		_, err := Save(in)
		assert.Error(t, err, "%q", in)
	}
	_, err := Get()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestStripBearer(t *testing.T) {
	tests := map[string]string{
		"abc":          "abc",
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"BEARER":       "",
		"Bearer":       "",
		"":             "",
		"bearerabc":    "bearerabc",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripBearer(in), "%q", in)
	}
}

func TestJWTExpiry(t *testing.T) {
	isolate(t)
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	ti, err := Save(signed)
	require.NoError(t, err)
	require.NotNil(t, ti.ExpiresAt)
	assert.True(t, ti.ExpiresAt.Equal(exp))
	assert.True(t, ti.Expired(time.Now()))

	claims, err := ti.Claims()
	require.NoError(t, err)
	assert.Equal(t, "7", claims["sub"])
}

func TestOpaqueTokenHasNoClaims(t *testing.T) {
	ti := &TokenInfo{Token: "opaque"}
	_, err := ti.Claims()
	assert.Error(t, err)
	assert.False(t, ti.Expired(time.Now()))
}
