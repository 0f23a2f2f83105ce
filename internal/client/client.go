// Package client is the CookNet platform API client. A single Client is
// shared by every feature area; it attaches the stored bearer token to each
// request and recovers from a 401 exactly once by renewing the token pair
// and retrying the original request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"cooknet-client/config"
	"cooknet-client/internal/session"
)

const defaultTimeout = 15 * time.Second

// Client issues requests to the CookNet API. Safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	store     session.Store
	refreshSF singleflight.Group
	onExpired func()

	dict *dictCache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithSessionExpiredHandler registers a callback invoked after a failed
// token renewal tears the session down. The presentation layer uses it to
// route the user back to an unauthenticated entry point; the client itself
// performs no navigation.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// New creates a client for the API at baseURL, persisting the session in
// store. An empty baseURL falls back to the local default endpoint.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		dict:    newDictCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the session store backing this client.
func (c *Client) Store() session.Store {
	return c.store
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// doJSON marshals body (when non-nil) and runs the request through the
// 401-retry pipeline.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := jsonBody(body)
		if err != nil {
			return err
		}
		payload = data
	}
	return c.doRaw(ctx, method, path, query, "application/json", payload, out)
}

func jsonBody(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return data, nil
}

func decodeJSON(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRaw is the single logical-request pipeline: send, on 401 renew the
// token once, resend once, surface the final outcome. The retry is bounded
// by construction, so a 401 on the retried request propagates as-is.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, contentType string, payload []byte, out any) error {
	cred, err := c.store.Load()
	if err != nil {
		return err
	}
	token := ""
	if cred != nil {
		token = cred.AccessToken
	}

	// When the stored access token is a readable JWT that has already
	// expired, renew up front and spare the round trip that would 401.
	if token != "" && tokenExpired(token) {
		if fresh, rerr := c.refreshSession(ctx); rerr == nil {
			token = fresh.AccessToken
		}
	}

	status, data, err := c.send(ctx, method, path, query, contentType, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		log.Printf("client: 401 on %s %s, renewing token", method, path)
		fresh, rerr := c.refreshSession(ctx)
		if rerr != nil {
			c.expireSession()
			return rerr
		}
		status, data, err = c.send(ctx, method, path, query, contentType, payload, fresh.AccessToken)
		if err != nil {
			return err
		}
	}

	if status >= 400 {
		return apiError(status, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// send performs one HTTP exchange. A non-2xx status is not an error here;
// the caller decides what to do with it.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, payload []byte, token string) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// expireSession purges the stored session and notifies the presentation
// layer. This is a process-wide logged-out transition, not a per-request
// concern.
func (c *Client) expireSession() {
	if err := c.store.Clear(); err != nil {
		log.Printf("client: failed to clear session: %v", err)
	}
	log.Printf("client: session expired, cleared stored credentials")
	if c.onExpired != nil {
		c.onExpired()
	}
}
