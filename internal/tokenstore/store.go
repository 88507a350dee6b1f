// Package tokenstore persists the session token pair across process runs.
// Tokens are the only session state that outlives a page load / CLI
// invocation; they are written on login and refresh and erased on logout.
package tokenstore

import (
	"errors"
	"time"
)

// ErrNoTokens is returned by Load when nothing usable is persisted
var ErrNoTokens = errors.New("no stored tokens")

// Expiries mirror the cookie max-ages used by the web frontend: short-lived
// when the user logs in for a single day, long-lived with "remember me".
const (
	AccessTTLRemembered  = 7 * 24 * time.Hour
	AccessTTLSession     = 5 * time.Hour
	RefreshTTLRemembered = 30 * 24 * time.Hour
	RefreshTTLSession    = 24 * time.Hour
)

// Tokens is the persisted form of a session
type Tokens struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	RememberMe       bool      `json:"rememberMe"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// New builds a Tokens value with expiries derived from the rememberMe choice
func New(accessToken, refreshToken string, rememberMe bool, now time.Time) Tokens {
	accessTTL, refreshTTL := AccessTTLSession, RefreshTTLSession
	if rememberMe {
		accessTTL, refreshTTL = AccessTTLRemembered, RefreshTTLRemembered
	}
	return Tokens{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RememberMe:       rememberMe,
		AccessExpiresAt:  now.Add(accessTTL),
		RefreshExpiresAt: now.Add(refreshTTL),
	}
}

// expired applies expiry metadata: a stale access token is blanked (the
// refresh token can still mint a new one), a stale refresh token makes the
// whole record unusable.
func (t Tokens) expired(now time.Time) (Tokens, bool) {
	if !t.RefreshExpiresAt.IsZero() && now.After(t.RefreshExpiresAt) {
		return Tokens{}, true
	}
	if t.RefreshToken == "" && t.AccessToken == "" {
		return Tokens{}, true
	}
	if !t.AccessExpiresAt.IsZero() && now.After(t.AccessExpiresAt) {
		t.AccessToken = ""
	}
	return t, false
}

// Store persists a token pair. Only login, refresh, logout and clear write
// through it; everything else treats the stored pair as read-only.
type Store interface {
	Save(tokens Tokens) error
	Load() (Tokens, error)
	Clear() error
}
