package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooknet-client/internal/session"
)

// Opaque tokens keep the proactive-expiry peek out of the way; these tests
// exercise the reactive 401 path unless noted otherwise.
const (
	staleToken   = "stale-access"
	freshToken   = "fresh-access"
	refreshToken = "refresh-1"
)

func seedSession(t *testing.T, store session.Store, access, refresh string) {
	t.Helper()
	require.NoError(t, store.Save(&session.Credential{
		AccessToken:  access,
		RefreshToken: refresh,
		Email:        "chef@cooknet.test",
		Username:     "chef",
		Roles:        []string{"USER"},
	}))
}

// tokenAwareHandler serves /api/ping with 401 until the bearer token is
// fresh, and renews tokens at the refresh endpoint.
type tokenAwareHandler struct {
	pingHits    atomic.Int64
	refreshHits atomic.Int64
	refreshGate func() // optional, runs inside the refresh handler
}

func (h *tokenAwareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/ping":
		h.pingHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+freshToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"token expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pong":true}`))
	case "/api/auth/refresh-token":
		h.refreshHits.Add(1)
		if h.refreshGate != nil {
			h.refreshGate()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accessToken":"` + freshToken + `","refreshToken":"refresh-2"}`))
	default:
		http.NotFound(w, r)
	}
}

func ping(ctx context.Context, c *Client) error {
	var out struct {
		Pong bool `json:"pong"`
	}
	return c.get(ctx, "/api/ping", nil, &out)
}

func TestUnauthorizedTriggersOneRefreshAndOneRetry(t *testing.T) {
	h := &tokenAwareHandler{}
	ts := httptest.NewServer(h)
	defer ts.Close()

	store := session.NewMemoryStore()
	seedSession(t, store, staleToken, refreshToken)
	c := New(ts.URL, store)

	require.NoError(t, ping(context.Background(), c))

	// Original send, then exactly one retry with the renewed token.
	assert.Equal(t, int64(2), h.pingHits.Load())
	assert.Equal(t, int64(1), h.refreshHits.Load())

	cred, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, freshToken, cred.AccessToken)
	assert.Equal(t, "refresh-2", cred.RefreshToken)
	// Identity fields survive a renewal that carries no user info.
	assert.Equal(t, "chef", cred.Username)
}

func TestSecondUnauthorizedPropagatesWithoutAnotherRefresh(t *testing.T) {
	var pingHits, refreshHits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ping":
			pingHits.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"still unauthorized"}`))
		case "/api/auth/refresh-token":
			refreshHits.Add(1)
			w.Write([]byte(`{"accessToken":"` + freshToken + `","refreshToken":"refresh-2"}`))
		}
	}))
	defer ts.Close()

	store := session.NewMemoryStore()
	seedSession(t, store, staleToken, refreshToken)
	c := New(ts.URL, store)

	err := ping(context.Background(), c)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	// One retry, one refresh, nothing more.
	assert.Equal(t, int64(2), pingHits.Load())
	assert.Equal(t, int64(1), refreshHits.Load())

	// The refresh itself succeeded, so the session stays intact.
	cred, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, cred)
}

func TestUnauthorizedWithoutRefreshTokenFailsFast(t *testing.T) {
	var refreshHits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh-token" {
			refreshHits.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer ts.Close()

	expired := 0
	store := session.NewMemoryStore()
	c := New(ts.URL, store, WithSessionExpiredHandler(func() { expired++ }))

	err := ping(context.Background(), c)
	require.ErrorIs(t, err, ErrNoRefreshToken)

	// No renewal attempt ever reaches the wire.
	assert.Equal(t, int64(0), refreshHits.Load())
	assert.Equal(t, 1, expired)
}

func TestFailedRefreshClearsSessionAndSignals(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ping":
			w.WriteHeader(http.StatusUnauthorized)
		case "/api/auth/refresh-token":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"refresh token revoked"}`))
		}
	}))
	defer ts.Close()

	expired := 0
	store := session.NewMemoryStore()
	seedSession(t, store, staleToken, refreshToken)
	c := New(ts.URL, store, WithSessionExpiredHandler(func() { expired++ }))

	err := ping(context.Background(), c)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, 1, expired)

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestConcurrentUnauthorizedRequestsShareOneRefresh(t *testing.T) {
	const workers = 8

	h := &tokenAwareHandler{}
	// Hold the renewal open until every worker has taken its first 401, so
	// all of them pile onto the same in-flight refresh.
	h.refreshGate = func() {
		deadline := time.Now().Add(5 * time.Second)
		for h.pingHits.Load() < workers && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		// Let the last 401 responses travel back and join the renewal.
		time.Sleep(100 * time.Millisecond)
	}
	ts := httptest.NewServer(h)
	defer ts.Close()

	store := session.NewMemoryStore()
	seedSession(t, store, staleToken, refreshToken)
	c := New(ts.URL, store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ping(context.Background(), c)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int64(1), h.refreshHits.Load())
	// Each worker sends once, gets 401, retries once with the shared token.
	assert.Equal(t, int64(2*workers), h.pingHits.Load())
}

func TestExpiredJWTRenewsBeforeSending(t *testing.T) {
	var pingAuth []string
	var refreshHits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ping":
			pingAuth = append(pingAuth, r.Header.Get("Authorization"))
			w.Write([]byte(`{"pong":true}`))
		case "/api/auth/refresh-token":
			refreshHits.Add(1)
			w.Write([]byte(`{"accessToken":"` + freshToken + `","refreshToken":"refresh-2"}`))
		}
	}))
	defer ts.Close()

	expiredJWT := signedToken(t, time.Now().Add(-time.Minute))
	store := session.NewMemoryStore()
	seedSession(t, store, expiredJWT, refreshToken)
	c := New(ts.URL, store)

	require.NoError(t, ping(context.Background(), c))

	// The dead token never reaches the endpoint.
	assert.Equal(t, int64(1), refreshHits.Load())
	require.Len(t, pingAuth, 1)
	assert.Equal(t, "Bearer "+freshToken, pingAuth[0])
}

func TestLiveJWTIsSentAsIs(t *testing.T) {
	var refreshHits atomic.Int64
	liveJWT := signedToken(t, time.Now().Add(time.Hour))
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ping":
			if r.Header.Get("Authorization") != "Bearer "+liveJWT {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"pong":true}`))
		case "/api/auth/refresh-token":
			refreshHits.Add(1)
		}
	}))
	defer ts.Close()

	store := session.NewMemoryStore()
	seedSession(t, store, liveJWT, refreshToken)
	c := New(ts.URL, store)

	require.NoError(t, ping(context.Background(), c))
	assert.Equal(t, int64(0), refreshHits.Load())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": int64(1),
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpired(t *testing.T) {
	assert.True(t, tokenExpired(signedToken(t, time.Now().Add(-time.Minute))))
	// Inside the renewal skew counts as expired.
	assert.True(t, tokenExpired(signedToken(t, time.Now().Add(5*time.Second))))
	assert.False(t, tokenExpired(signedToken(t, time.Now().Add(time.Hour))))
	// Opaque tokens fall through to the 401 path.
	assert.False(t, tokenExpired("opaque-token"))
}

func TestAPIErrorParsing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"recipe not found"}`))
	}))
	defer ts.Close()

	c := New(ts.URL, session.NewMemoryStore())
	err := ping(context.Background(), c)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "recipe not found")
}

func TestAPIErrorSpringStyleMessage(t *testing.T) {
	err := apiError(http.StatusConflict, []byte(`{"message":"already moderated"}`))
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, "already moderated", err.Message)

	err = apiError(http.StatusBadGateway, []byte("<html>nope</html>"))
	assert.Empty(t, err.Message)
	assert.Contains(t, err.Error(), "502")
}

func TestBaseURLTrimming(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL+"/", session.NewMemoryStore())
	require.NoError(t, ping(context.Background(), c))
	assert.Equal(t, "/api/ping", gotPath)
}

func TestRequestCarriesRequestID(t *testing.T) {
	ids := map[string]bool{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get("X-Request-ID")] = true
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL, session.NewMemoryStore())
	require.NoError(t, ping(context.Background(), c))
	require.NoError(t, ping(context.Background(), c))

	delete(ids, "")
	assert.Len(t, ids, 2, "each request gets its own id")
}
