// Package session owns the authentication session lifecycle: credential
// exchange, restoration from persisted tokens at startup, refresh of an
// expired access token, and logout. It is created once at application boot
// and lives for the process lifetime.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/amanf244/mars4/internal/api"
	"github.com/amanf244/mars4/internal/tokenstore"
)

// Status is the session lifecycle state. It moves monotonically from
// uninitialized through restoring to ready and never regresses; logout
// leaves the session ready but unauthenticated.
type Status int

const (
	StatusUninitialized Status = iota
	StatusRestoring
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusRestoring:
		return "restoring"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DefaultRestoreTimeout bounds the profile fetch during restoration
const DefaultRestoreTimeout = 5 * time.Second

// Manager is the session state machine. Safe for concurrent use: restore
// and refresh calls coalesce so concurrent callers await a single outcome
// instead of issuing duplicate network exchanges.
type Manager struct {
	client *api.Client
	store  tokenstore.Store
	log    zerolog.Logger

	mu           sync.Mutex
	status       Status
	user         *api.User
	accessToken  string
	refreshToken string
	rememberMe   bool

	restoreFlight singleflight.Group
	refreshFlight singleflight.Group

	restoreTimeout time.Duration
	deviceName     string
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithRestoreTimeout overrides the profile-fetch timeout used by Restore
func WithRestoreTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.restoreTimeout = d }
}

// WithDeviceName sets the device name reported at login
func WithDeviceName(name string) ManagerOption {
	return func(m *Manager) { m.deviceName = name }
}

// NewManager creates the session manager and registers it as the client's
// credential source so authorized requests pick up bearer tokens and the
// 401 refresh-retry path.
func NewManager(client *api.Client, store tokenstore.Store, log zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:         client,
		store:          store,
		log:            log.With().Str("component", "session").Logger(),
		status:         StatusUninitialized,
		restoreTimeout: DefaultRestoreTimeout,
		deviceName:     "cli",
	}
	for _, opt := range opts {
		opt(m)
	}
	client.SetCredentials(m)
	return m
}

// Status returns the current lifecycle state
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// User returns the authenticated user, or nil
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports whether a user and access token are both present
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.accessToken != ""
}

// Role returns the authenticated user's role, or empty
func (m *Manager) Role() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return ""
	}
	return m.user.Role
}

// IsAdmin reports whether the session belongs to an admin
func (m *Manager) IsAdmin() bool {
	return m.Role() == api.RoleAdmin
}

// AccessToken implements api.Credentials
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// Login exchanges credentials for a session. All-or-nothing: on any
// failure the prior session state is untouched and nothing is persisted.
func (m *Manager) Login(ctx context.Context, email, password string, rememberMe bool) (*api.User, error) {
	resp, err := m.client.Login(ctx, api.LoginRequest{
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Password:   password,
		RememberMe: rememberMe,
		DeviceName: m.deviceName,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = resp.User
	m.accessToken = resp.Token
	m.refreshToken = resp.RefreshToken
	m.rememberMe = rememberMe
	m.status = StatusReady
	m.mu.Unlock()

	if err := m.store.Save(tokenstore.New(resp.Token, resp.RefreshToken, rememberMe, time.Now())); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist tokens")
	}

	m.log.Info().Str("email", resp.User.Email).Str("role", resp.User.Role).Msg("logged in")
	return resp.User, nil
}

// Restore reconstructs the session from persisted tokens. Idempotent: a
// no-op once the session left the uninitialized state, and concurrent
// callers share a single in-flight attempt. Failures are absorbed; the
// session always ends up ready, authenticated or not.
func (m *Manager) Restore(ctx context.Context) error {
	// Only a finished session skips the flight. A caller that observes
	// StatusRestoring must still enter Do so it blocks on the in-flight
	// attempt instead of returning a not-yet-restored session.
	m.mu.Lock()
	if m.status == StatusReady {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	_, err, _ := m.restoreFlight.Do("restore", func() (any, error) {
		m.mu.Lock()
		if m.status != StatusUninitialized {
			m.mu.Unlock()
			return nil, nil
		}
		m.status = StatusRestoring
		m.mu.Unlock()

		m.runRestore(ctx)
		return nil, nil
	})
	return err
}

func (m *Manager) runRestore(ctx context.Context) {
	start := time.Now()

	tokens, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNoTokens) {
			m.log.Warn().Err(err).Msg("failed to load persisted tokens")
		}
		m.markReadyEmpty()
		return
	}

	m.mu.Lock()
	m.accessToken = tokens.AccessToken
	m.refreshToken = tokens.RefreshToken
	m.rememberMe = tokens.RememberMe
	m.mu.Unlock()

	// A visibly expired access token is not worth a round trip
	if tokens.AccessToken == "" || tokenExpired(tokens.AccessToken, time.Now()) {
		if err := m.Refresh(ctx); err != nil {
			m.markReadyEmpty()
			return
		}
	}

	user, err := m.fetchProfile(ctx)
	if err != nil {
		// The profile fetch already rides the client's 401 refresh-retry;
		// an explicit refresh here covers timeouts and transport faults.
		if rerr := m.Refresh(ctx); rerr != nil {
			m.clear()
			return
		}
		user, err = m.fetchProfile(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("restore failed after refresh")
			m.clear()
			return
		}
	}

	m.mu.Lock()
	m.user = user
	m.status = StatusReady
	m.mu.Unlock()

	m.log.Info().
		Str("email", user.Email).
		Dur("elapsed", time.Since(start)).
		Msg("session restored")
}

// fetchProfile fetches /auth/me bounded by the restore timeout. The
// transport request is not hard-aborted beyond context cancellation;
// the caller simply stops waiting and proceeds to fallback logic.
func (m *Manager) fetchProfile(ctx context.Context) (*api.User, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, m.restoreTimeout)
	defer cancel()
	return m.client.Me(fetchCtx)
}

// Refresh exchanges the refresh token for a new token pair. Implements
// api.Credentials: concurrent calls coalesce into one network exchange so
// N simultaneous 401s trigger a single refresh. Failure is terminal and
// clears the entire session.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.refreshFlight.Do("refresh", func() (any, error) {
		m.mu.Lock()
		refreshToken := m.refreshToken
		rememberMe := m.rememberMe
		m.mu.Unlock()

		if refreshToken == "" {
			m.clear()
			return nil, api.ErrRefreshFailed
		}

		resp, err := m.client.RefreshToken(ctx, refreshToken)
		if err != nil {
			m.log.Warn().Err(err).Msg("token refresh failed")
			m.clear()
			return nil, fmt.Errorf("%w: %w", api.ErrRefreshFailed, err)
		}

		// Rotation assumed; tolerate backends that reuse the refresh token
		newRefresh := resp.RefreshToken
		if newRefresh == "" {
			newRefresh = refreshToken
		}

		m.mu.Lock()
		m.accessToken = resp.AccessToken
		m.refreshToken = newRefresh
		m.mu.Unlock()

		if err := m.store.Save(tokenstore.New(resp.AccessToken, newRefresh, rememberMe, time.Now())); err != nil {
			m.log.Warn().Err(err).Msg("failed to persist refreshed tokens")
		}

		m.log.Debug().Msg("access token refreshed")
		return nil, nil
	})
	return err
}

// Logout invalidates the session server-side on a best-effort basis and
// unconditionally clears local and persisted state. The session stays
// ready so guards route the user to the login entry point.
func (m *Manager) Logout(ctx context.Context) {
	// A held refresh token alone is still worth revoking server-side
	m.mu.Lock()
	hasCredential := m.accessToken != "" || m.refreshToken != ""
	m.mu.Unlock()

	if hasCredential {
		if err := m.client.Logout(ctx); err != nil {
			m.log.Warn().Err(err).Msg("server-side logout failed")
		}
	}
	m.clear()
	m.log.Info().Msg("logged out")
}

// clear drops all session data and marks the session ready-unauthenticated
func (m *Manager) clear() {
	m.mu.Lock()
	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	m.rememberMe = false
	m.status = StatusReady
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear persisted tokens")
	}
}

func (m *Manager) markReadyEmpty() {
	m.mu.Lock()
	m.status = StatusReady
	m.mu.Unlock()
}

// tokenExpired inspects a JWT exp claim without verifying the signature.
// Opaque (non-JWT) tokens are assumed live; the backend stays authoritative.
func tokenExpired(raw string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
