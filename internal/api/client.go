// ABOUTME: Authenticated request pipeline for the GeoChallenge Tracker API
// ABOUTME: Attaches bearer credentials and recovers from expired tokens via a single shared refresh

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/auth"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/cache"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// Config holds client construction settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

// Client is the API client for the GeoChallenge Tracker backend. All
// protected calls go through its pipeline: bearer attachment, a single
// process-wide refresh on 401, and exactly one replay of the failed call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *auth.Store
	snapshots  *cache.Cache
	pageSize   int

	// Concurrent 401s coalesce onto one refresh call
	refreshGroup singleflight.Group

	initOnce sync.Once
}

// New creates a client over the given credential store. snapshots may be
// nil to disable profile/location caching.
func New(cfg Config, store *auth.Store, snapshots *cache.Cache) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = 100
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		snapshots:  snapshots,
		pageSize:   pageSize,
	}
}

// Store exposes the credential store backing this client.
func (c *Client) Store() *auth.Store {
	return c.store
}

// apiRequest describes one call so it can be rebuilt for replay.
type apiRequest struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func (c *Client) buildRequest(ctx context.Context, r apiRequest) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.store.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do sends a request through the pipeline and decodes the JSON response
// into out (which may be nil). The retried flag is threaded by value so a
// call is never replayed more than once.
func (c *Client) do(ctx context.Context, r apiRequest, out interface{}, retried bool) error {
	req, err := c.buildRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		authErr := c.errorFromResponse(resp)

		if retried {
			// Second 401 on a replayed request: propagate, no further recovery
			return authErr
		}
		if r.path == refreshPath {
			// The refresh endpoint rejecting its own token must never
			// trigger another refresh
			slog.Warn("Refresh endpoint rejected credentials, logging out")
			c.Logout()
			return authErr
		}

		if _, err := c.refreshAccessToken(ctx); err != nil {
			slog.Warn("Token refresh failed, logging out", "error", err)
			c.Logout()
			return authErr
		}

		slog.Debug("Replaying request after token refresh", "path", r.path)
		return c.do(ctx, r, out, true)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// refreshAccessToken coalesces concurrent refresh attempts onto a single
// in-flight call; every waiter observes the same result.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return c.performRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// performRefresh runs the refresh grant and updates the credential store.
func (c *Client) performRefresh(ctx context.Context) (string, error) {
	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	var tokens TokenPair
	r := apiRequest{
		method:      http.MethodPost,
		path:        refreshPath,
		body:        body,
		contentType: "application/json",
	}
	// retried=true: the refresh call itself gets no recovery of its own
	if err := c.do(ctx, r, &tokens, true); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	c.store.SetCredentials(tokens.AccessToken, tokens.RefreshToken)
	slog.Debug("Access token refreshed")
	return tokens.AccessToken, nil
}

// Refresh exchanges the held refresh token for a fresh access token.
// Fails with ErrNoRefreshToken when none is held.
func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.refreshAccessToken(ctx)
	return err
}

// Login authenticates with the backend and populates the credential store.
// The profile and location snapshots are fetched best-effort afterwards;
// failure of either does not roll back the login.
func (c *Client) Login(ctx context.Context, identifier, password string) error {
	form := url.Values{}
	form.Set("username", identifier)
	form.Set("password", password)

	var tokens TokenPair
	r := apiRequest{
		method:      http.MethodPost,
		path:        loginPath,
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
	// retried=true: a 401 here means bad credentials, not an expired token
	if err := c.do(ctx, r, &tokens, true); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.store.SetCredentials(tokens.AccessToken, tokens.RefreshToken)
	slog.Info("Logged in", "identifier", identifier)

	c.fetchUserSnapshot(ctx)
	return nil
}

// Logout clears credentials and cached snapshots. Never fails.
func (c *Client) Logout() {
	c.store.Logout()
	if c.snapshots != nil {
		c.snapshots.Flush()
	}
}

// Init restores the session once per process lifetime. A new process holds
// no access token, only the persisted refresh token, so resume means an
// explicit refresh first. With neither token stored it returns immediately;
// an unauthenticated profile fetch on first run would only produce a
// pointless 401.
func (c *Client) Init(ctx context.Context) {
	c.initOnce.Do(func() {
		switch {
		case c.store.AccessToken() == "":
			if c.store.RefreshToken() == "" {
				slog.Debug("No stored session to restore")
				return
			}
			if err := c.Refresh(ctx); err != nil {
				slog.Warn("Session resume failed", "error", err)
				return
			}
		case c.store.NeedsRefresh():
			// Refresh proactively so the snapshot fetches don't both run
			// into a 401 on a token known to be stale
			if err := c.Refresh(ctx); err != nil {
				slog.Debug("Proactive refresh failed, continuing with stored token", "error", err)
			}
		}
		c.fetchUserSnapshot(ctx)
	})
}

// fetchUserSnapshot loads profile and location together. Both calls run to
// completion regardless of individual outcome.
func (c *Client) fetchUserSnapshot(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	var profile *Profile
	var profileErr error
	go func() {
		defer wg.Done()
		profile, profileErr = c.Profile(ctx)
	}()

	var location *Location
	var locationErr error
	go func() {
		defer wg.Done()
		location, locationErr = c.MyLocation(ctx)
	}()

	wg.Wait()

	if profileErr != nil {
		slog.Warn("Profile fetch failed", "error", profileErr)
	} else {
		c.store.SetUser(&auth.User{
			ID:       profile.ID,
			Username: profile.Username,
			Email:    profile.Email,
		})
	}

	if locationErr != nil {
		slog.Warn("Location fetch failed", "error", locationErr)
	} else if pt, ok := location.Point(); ok {
		at := time.Now()
		if location.UpdatedAt != nil {
			at = *location.UpdatedAt
		}
		c.store.SetUserLocation(pt, at)
	}
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// errorFromResponse parses API error responses
func (c *Client) errorFromResponse(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Detail != "" {
			apiErr.Message = body.Detail
		} else {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
