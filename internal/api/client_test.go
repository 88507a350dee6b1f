package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCreds is a scriptable Credentials implementation
type stubCreds struct {
	mu      sync.Mutex
	token   string
	refresh func(ctx context.Context) error

	refreshCalls int64
}

func (s *stubCreds) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubCreds) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *stubCreds) Refresh(ctx context.Context) error {
	atomic.AddInt64(&s.refreshCalls, 1)
	if s.refresh != nil {
		return s.refresh(ctx)
	}
	return nil
}

func TestAuthorized401RefreshesAndRetriesOnce(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
			return
		}
		_ = json.NewEncoder(w).Encode(User{ID: 7, Email: "tech@shop.test", Role: RoleUser})
	}))
	defer srv.Close()

	creds := &stubCreds{token: "stale"}
	creds.refresh = func(ctx context.Context) error {
		creds.setToken("fresh")
		return nil
	}

	c := New(srv.URL)
	c.SetCredentials(creds)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, int64(1), atomic.LoadInt64(&creds.refreshCalls))
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestFailedRefreshPropagates401WithoutLooping(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
	}))
	defer srv.Close()

	creds := &stubCreds{token: "stale"}
	creds.refresh = func(ctx context.Context) error {
		return ErrRefreshFailed
	}

	c := New(srv.URL)
	c.SetCredentials(creds)

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests), "a failed refresh must not retry the request")
	assert.Equal(t, int64(1), atomic.LoadInt64(&creds.refreshCalls))
}

func TestPersistent401RetriesExactlyOnce(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &stubCreds{token: "whatever"}

	c := New(srv.URL)
	c.SetCredentials(creds)

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests), "exactly one retry, never a loop")
}

func TestRefreshEndpointNeverTriggersRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "revoked"})
	}))
	defer srv.Close()

	creds := &stubCreds{token: "stale"}

	c := New(srv.URL)
	c.SetCredentials(creds)

	_, err := c.RefreshToken(context.Background(), "refresh-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Zero(t, atomic.LoadInt64(&creds.refreshCalls))
}

func TestLogoutNeverTriggersRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &stubCreds{token: "stale"}

	c := New(srv.URL)
	c.SetCredentials(creds)

	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt64(&creds.refreshCalls))
}

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, ErrUnauthenticated},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
		}))

		c := New(srv.URL)
		_, err := c.ProductByID(context.Background(), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, tc.sentinel, "status %d", tc.status)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, tc.status, se.Code)
		assert.Equal(t, "nope", se.Message)

		srv.Close()
	}
}

func TestServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "database on fire"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ProductByID(context.Background(), 1)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "database on fire", se.Message)
}

func TestLoginMapsRejectionsToInvalidCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "wrong password"})
		}))

		c := New(srv.URL)
		_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "status %d", status)

		srv.Close()
	}
}

func TestLoginRejectsUnsuccessfulBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(LoginResponse{Success: false, Message: "account disabled"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "account disabled")
}

func TestRefreshTokenRejectsEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RefreshResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.RefreshToken(context.Background(), "refresh-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestPrefixAndQueryComposition(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(ProductListResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithPrefix("/api/v2/"))
	_, err := c.ListProducts(context.Background(), ProductListParams{Page: 2, Search: "screen"})
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/products", gotPath)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "search=screen")
}

func TestValidImageName(t *testing.T) {
	assert.True(t, ValidImageName("photo.jpg"))
	assert.True(t, ValidImageName("PHOTO.JPEG"))
	assert.True(t, ValidImageName("before.webp"))
	assert.False(t, ValidImageName("notes.txt"))
	assert.False(t, ValidImageName("archive.tar.gz"))
	assert.False(t, ValidImageName("noextension"))
}
