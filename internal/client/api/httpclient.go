package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/client/models"
	"github.com/avolkovs/sessionkeeper/internal/common"
)

const requestTimeout = 12 * time.Second

type skipAuthKey struct{}

// withSkipAuth marks a request so the auth transport passes it through
// untouched. Used for login, register and the refresh call itself.
func withSkipAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey{}, true)
}

// HTTPClient talks JSON over HTTP to the backend API. It holds the current
// credential pair and refreshes it transparently through its transport.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.Mutex
	creds models.Credential

	// onRefreshed fires after the transport swapped in a new pair, so the
	// session manager can re-persist it.
	onRefreshed func(models.Credential)
	// onUnauthorized fires when a refresh attempt fails.
	onUnauthorized func()
}

// NewHTTPClient constructs a client for the given base URL, e.g.
// "https://api.example.com". The returned client is safe for concurrent use.
func NewHTTPClient(baseURL string) *HTTPClient {
	c := &HTTPClient{baseURL: baseURL}
	c.hc = &http.Client{
		Timeout:   requestTimeout,
		Transport: &authTransport{client: c, base: http.DefaultTransport},
	}
	return c
}

// SetCredential installs the credential pair used for outbound requests,
// typically after login or session restore.
func (c *HTTPClient) SetCredential(creds models.Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// ClearCredential drops the in-memory pair, typically on logout.
func (c *HTTPClient) ClearCredential() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = models.Credential{}
}

// Credential returns a copy of the current in-memory pair.
func (c *HTTPClient) Credential() models.Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds
}

// SetHooks registers the session-manager callbacks invoked by the transport.
func (c *HTTPClient) SetHooks(onRefreshed func(models.Credential), onUnauthorized func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefreshed = onRefreshed
	c.onUnauthorized = onUnauthorized
}

func (c *HTTPClient) hooks() (func(models.Credential), func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onRefreshed, c.onUnauthorized
}

func (c *HTTPClient) Close() error { return nil }

// authTransport attaches the bearer token to outbound requests and, on a 401
// carrying the token-expired marker, performs a single refresh against the
// refresh endpoint and retries the original request once. A failed refresh
// abandons the retry and reports unauthorized.
type authTransport struct {
	client *HTTPClient
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if skip, _ := req.Context().Value(skipAuthKey{}).(bool); skip {
		return t.base.RoundTrip(req)
	}

	creds := t.client.Credential()

	resp, err := t.base.RoundTrip(t.withToken(req, creds.AccessToken))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if resp.Header.Get(common.AuthErrorHeaderName) != common.ErrTokenExpired.Error() {
		return resp, nil
	}
	if creds.RefreshToken == "" {
		return resp, nil
	}

	// The original response is replaced by the retry; release it.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	refreshed, err := t.client.Refresh(req.Context(), creds.RefreshToken)
	if err != nil {
		t.client.ClearCredential()
		if _, onUnauthorized := t.client.hooks(); onUnauthorized != nil {
			onUnauthorized()
		}
		return nil, fmt.Errorf("%w: token refresh failed: %v", common.ErrUnauthorized, err)
	}

	t.client.SetCredential(refreshed)
	if onRefreshed, _ := t.client.hooks(); onRefreshed != nil {
		onRefreshed(refreshed)
	}

	return t.base.RoundTrip(t.withToken(req, refreshed.AccessToken))
}

// withToken clones req with the bearer token attached, restoring the body
// from GetBody so the clone is replayable.
func (t *authTransport) withToken(req *http.Request, token string) *http.Request {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
		}
	}
	if token != "" {
		clone.Header.Set(common.AuthHeaderName, "Bearer "+token)
	}
	return clone
}

// --- API operations ---

func (c *HTTPClient) Register(ctx context.Context, username, password, displayName, email string) error {
	req := registerRequest{Username: username, Password: password, DisplayName: displayName, Email: email}
	return c.do(withSkipAuth(ctx), http.MethodPost, "/api/user/register", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.Credential, error) {
	var resp tokenResponse
	err := c.do(withSkipAuth(ctx), http.MethodPost, "/api/user/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return models.Credential{}, err
	}
	creds := resp.toCredential()
	c.SetCredential(creds)
	return creds, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (models.Credential, error) {
	var resp tokenResponse
	err := c.do(withSkipAuth(ctx), http.MethodPost, "/api/user/refresh", refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return models.Credential{}, err
	}
	return resp.toCredential(), nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/user/logout", nil, nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.User, error) {
	var dto userDTO
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &dto); err != nil {
		return nil, err
	}
	return dto.toUser(), nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	var dto userDTO
	if err := c.do(ctx, http.MethodPut, "/api/user/profile", userToDTO(user), &dto); err != nil {
		return nil, err
	}
	return dto.toUser(), nil
}

func (c *HTTPClient) DeleteProfile(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/user/profile", nil, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(withSkipAuth(ctx), http.MethodGet, "/api/ping", nil, nil)
}

// do performs a JSON request against path and decodes the response body into
// out (when out is non-nil). Failures are classified via mapError.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: malformed response body: %v", common.ErrServer, err)
		}
	}
	return nil
}

// mapTransportError classifies errors returned before any HTTP status was
// received: context cancellation, refresh failures raised by the transport,
// and plain connectivity problems.
func (c *HTTPClient) mapTransportError(err error) error {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return fmt.Errorf("%w: credential refresh failed", common.ErrUnauthorized)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
}

// mapStatusError classifies non-2xx responses into the shared taxonomy. The
// server's error message, when present, is carried along for display.
func (c *HTTPClient) mapStatusError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	var base error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		base = common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		base = common.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		base = common.ErrValidation
	case resp.StatusCode == http.StatusConflict:
		base = common.ErrAlreadyExists
	case resp.StatusCode >= 500:
		base = common.ErrServer
	default:
		base = common.ErrServer
	}

	if body.Error != "" {
		return fmt.Errorf("%w: %s (status %d)", base, body.Error, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", base, resp.StatusCode)
}
