package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/common"
	"github.com/dmitrijs2005/gamehub/internal/logging"
	"github.com/google/uuid"
)

const maxResponseBytes = 16 << 20

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// RESTClient implements Client over the backend's JSON REST API.
type RESTClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  TokenSource
	logger  logging.Logger
}

var _ Client = (*RESTClient)(nil)

// Option customizes a RESTClient.
type Option func(*RESTClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *RESTClient) { c.http = h }
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) { c.timeout = d }
}

// WithLogger sets the logger used for transport diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(c *RESTClient) { c.logger = l }
}

// NewRESTClient builds a client for baseURL (e.g. "https://api.example.com/api").
// tokens supplies the bearer credential for authenticated calls.
func NewRESTClient(baseURL string, tokens TokenSource, opts ...Option) (*RESTClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: 15 * time.Second,
		tokens:  tokens,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *RESTClient) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", req, nil, false)
}

func (c *RESTClient) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/login", body, nil, false)
}

func (c *RESTClient) VerifyOTP(ctx context.Context, email, otp string, purpose models.Purpose) (*VerifyResult, error) {
	body := map[string]string{"email": email, "otp": otp, "purpose": string(purpose)}
	var res VerifyResult
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", body, &res, false); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) ResendOTP(ctx context.Context, email string, purpose models.Purpose) error {
	body := map[string]string{"email": email, "purpose": string(purpose)}
	return c.do(ctx, http.MethodPost, "/auth/resend-otp", body, nil, false)
}

func (c *RESTClient) SetAccountStatus(ctx context.Context, userID string, active bool) (*AccountStatus, error) {
	body := AccountStatus{UserID: userID, IsActive: active}
	var res AccountStatus
	if err := c.do(ctx, http.MethodPut, "/users/account-status", body, &res, true); err != nil {
		return nil, err
	}
	// some backend versions answer without data
	if res.UserID == "" {
		res = body
	}
	return &res, nil
}

func (c *RESTClient) DeleteAccount(ctx context.Context, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodDelete, "/users/account", body, nil, true)
}

func (c *RESTClient) ExportData(ctx context.Context, userID string) (json.RawMessage, error) {
	var res json.RawMessage
	path := "/users/" + url.PathEscape(userID) + "/export"
	if err := c.do(ctx, http.MethodGet, path, nil, &res, true); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *RESTClient) Me(ctx context.Context) (*models.UserProfile, error) {
	var res models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

// do sends one request and decodes the envelope's data into out (if non-nil).
// Unauthenticated calls never carry a bearer header, even when a session exists.
func (c *RESTClient) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if auth {
		if c.tokens == nil {
			return ErrUnauthorized
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn(ctx, "reading response failed", "error", err)
		return &NetworkError{Err: err}
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode)
	return c.mapResponse(resp.StatusCode, raw, out)
}

// mapResponse turns an HTTP answer into data or a *ServerError.
func (c *RESTClient) mapResponse(status int, raw []byte, out any) error {
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status > 299 {
		msg := ""
		if decodeErr == nil {
			msg = firstNonEmpty(env.Message, env.Error)
		}
		return &ServerError{StatusCode: status, Message: msg}
	}

	// e.g. 204 No Content on a call that expects no data
	if out == nil && len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if decodeErr != nil {
		return &ServerError{StatusCode: status, Message: ""}
	}
	if !env.Success {
		return &ServerError{StatusCode: status, Message: firstNonEmpty(env.Message, env.Error)}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if rm, ok := out.(*json.RawMessage); ok {
		*rm = append((*rm)[:0], env.Data...)
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ServerError{StatusCode: status, Message: ""}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
