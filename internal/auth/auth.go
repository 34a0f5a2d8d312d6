// Package auth stores the API token used to reach the todo service.
//
// The token comes from TADA_TOKEN when set, otherwise from
// ~/.tada/credentials.json (owner-only permissions).
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvVar overrides the stored token.
const EnvVar = "TADA_TOKEN"

const credFileName = "credentials.json"

// Source tells where a token came from.
type Source string

const (
	SourceEnv  Source = "env"
	SourceFile Source = "file"
)

// ErrNoToken means neither the env var nor the credentials file holds a token.
var ErrNoToken = errors.New("no token")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    Source     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Expired reports whether the token has a known expiry in the past.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

// Claims decodes a JWT payload without verifying it. Opaque tokens
// return an error.
func (ti *TokenInfo) Claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(ti.Token, claims); err != nil {
		return nil, fmt.Errorf("not a JWT: %w", err)
	}
	return claims, nil
}

func credsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

func credFilePath() (string, error) {
	dir, err := credsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Get returns the active token, or ErrNoToken.
func Get() (*TokenInfo, error) {
	if env := stripBearer(os.Getenv(EnvVar)); env != "" {
		ti := &TokenInfo{Token: env, Source: SourceEnv}
		ti.ExpiresAt = jwtExpiry(ti.Token)
		return ti, nil
	}

	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	if ti.Token == "" {
		return nil, ErrNoToken
	}
	return &ti, nil
}

// Token returns just the token string, empty when none is configured.
func Token() (string, error) {
	ti, err := Get()
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ti.Token, nil
}

// Save writes token to the credentials file. A JWT's exp claim is
// recorded as the expiry.
func Save(token string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	dir, err := credsDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	ti := &TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: time.Now(),
		ExpiresAt: jwtExpiry(token),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, credFileName), b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return ti, nil
}

// Delete removes the credentials file. A missing file is not an error.
func Delete() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func jwtExpiry(token string) *time.Time {
	ti := TokenInfo{Token: token}
	claims, err := ti.Claims()
	if err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// stripBearer drops a leading "Bearer" scheme word. A bare scheme with
// no token yields "".
func stripBearer(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 0 && strings.EqualFold(fields[0], "bearer") {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}
