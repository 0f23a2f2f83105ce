package client

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cooknet-client/internal/session"
	"cooknet-client/internal/types"
)

// expirySkew is how close to its exp claim an access token may get before
// the client renews it proactively instead of waiting for a 401.
const expirySkew = 10 * time.Second

// Login authenticates with the platform and persists the returned
// credential in the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Credential, error) {
	req := types.LoginRequest{Email: email, Password: password}
	if err := types.Validate(req); err != nil {
		return nil, err
	}

	var resp types.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}

	cred := &session.Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Email:        resp.UserInfo.Email,
		Username:     resp.UserInfo.Username,
		Roles:        resp.UserInfo.Roles,
	}
	if err := c.store.Save(cred); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return cred, nil
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.RegisterResponse, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var resp types.RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout discards the stored session. The platform has no logout endpoint;
// clearing the client side is sufficient.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Current returns the stored credential, or nil when logged out.
func (c *Client) Current() (*session.Credential, error) {
	return c.store.Load()
}

// refreshSession exchanges the stored refresh token for a new token pair.
// Concurrent callers share a single in-flight renewal; each gets the same
// credential (or error) and retries its own request with it.
func (c *Client) refreshSession(ctx context.Context) (*session.Credential, error) {
	v, err, _ := c.refreshSF.Do("refresh", func() (any, error) {
		return c.renewTokens(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*session.Credential), nil
}

// renewTokens performs the actual refresh call. It never clears storage on
// failure; tearing the session down is the request pipeline's job, which
// keeps the two concerns separately testable.
func (c *Client) renewTokens(ctx context.Context) (*session.Credential, error) {
	cred, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	payload, err := jsonBody(types.RefreshTokenRequest{RefreshToken: cred.RefreshToken})
	if err != nil {
		return nil, err
	}

	// Deliberately bypasses the 401-retry pipeline: a failing refresh call
	// must not trigger another refresh.
	status, data, err := c.send(ctx, http.MethodPost, "/api/auth/refresh-token", nil, "application/json", payload, "")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, data)
	}

	var resp types.TokenResponse
	if err := decodeJSON(data, &resp); err != nil {
		return nil, err
	}

	next := &session.Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Email:        cred.Email,
		Username:     cred.Username,
		Roles:        cred.Roles,
	}
	// The renewal endpoint may echo identity info; prefer it when present.
	if resp.UserInfo.Email != "" {
		next.Email = resp.UserInfo.Email
	}
	if resp.UserInfo.Username != "" {
		next.Username = resp.UserInfo.Username
	}
	if len(resp.UserInfo.Roles) > 0 {
		next.Roles = resp.UserInfo.Roles
	}

	if err := c.store.Save(next); err != nil {
		return nil, fmt.Errorf("persist renewed session: %w", err)
	}
	log.Printf("client: token pair renewed")
	return next, nil
}

// tokenExpired peeks at the access token's exp claim without verifying the
// signature. Opaque (non-JWT) tokens report false and take the 401 path.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < expirySkew
}
