package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/session"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/google/uuid"
)

// HTTPClient talks to the REST backend. It attaches the bearer token (unless
// it is a JWT that has already expired locally), keeps server cookies in a
// jar and tags every request with an X-Request-ID.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
	now     func() time.Time

	mu    sync.RWMutex
	token string
}

type Option func(*HTTPClient)

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithClock overrides the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

// NewHTTPClient builds a client for baseURL, which must include the /api
// prefix (e.g. http://localhost:5000/api).
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar},
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" && !session.TokenExpired(token, c.now()) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, serverMessage(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage extracts the message (preferred) or error field from an
// error body. Non-JSON bodies yield "".
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func itemPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

// Ping checks that the backend is reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, r models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	in := map[string]string{"email": email, "code": code}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/resend-verification", nil, map[string]string{"email": email}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("profile response has no user")
	}
	return resp.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, r models.ProfileUpdate) (*models.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPatch, "/auth/profile", nil, r, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("profile response has no user")
	}
	return resp.User, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	in := map[string]string{"current_password": currentPassword, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, in, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	in := map[string]string{"token": token, "password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", nil, in, nil)
}

func (c *HTTPClient) ListFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error) {
	var items []models.FoundItem
	if err := c.do(ctx, http.MethodGet, "/items/found-items", q.Values(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) GetFoundItem(ctx context.Context, id string) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := c.do(ctx, http.MethodGet, itemPath("/items/found-items", id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) ListLostReports(ctx context.Context) ([]models.LostReport, error) {
	var reports []models.LostReport
	if err := c.do(ctx, http.MethodGet, "/user/lost-reports", nil, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *HTTPClient) CreateLostReport(ctx context.Context, in models.LostReportInput) (*models.LostReport, error) {
	var r models.LostReport
	if err := c.do(ctx, http.MethodPost, "/user/lost-reports", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) UpdateLostReport(ctx context.Context, id string, in models.LostReportInput) (*models.LostReport, error) {
	var r models.LostReport
	if err := c.do(ctx, http.MethodPatch, itemPath("/user/lost-reports", id), nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) DeleteLostReport(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath("/user/lost-reports", id), nil, nil, nil)
}

func (c *HTTPClient) ListMyClaims(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	if err := c.do(ctx, http.MethodGet, "/user/claims", nil, nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *HTTPClient) CreateClaim(ctx context.Context, in models.ClaimInput) (*models.Claim, error) {
	var claim models.Claim
	if err := c.do(ctx, http.MethodPost, "/user/claims", nil, in, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

func (c *HTTPClient) StaffListFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error) {
	var items []models.FoundItem
	if err := c.do(ctx, http.MethodGet, "/staff/found-items", q.Values(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) CreateFoundItem(ctx context.Context, in models.FoundItemInput) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := c.do(ctx, http.MethodPost, "/staff/found-items", nil, in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) UpdateFoundItem(ctx context.Context, id string, in models.FoundItemInput) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := c.do(ctx, http.MethodPatch, itemPath("/staff/found-items", id), nil, in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) StaffListClaims(ctx context.Context, q models.ListQuery) ([]models.Claim, error) {
	var claims []models.Claim
	if err := c.do(ctx, http.MethodGet, "/staff/claims", q.Values(), nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *HTTPClient) ReviewClaim(ctx context.Context, id string, in models.ClaimReview) (*models.Claim, error) {
	var claim models.Claim
	if err := c.do(ctx, http.MethodPatch, itemPath("/staff/claims", id), nil, in, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, q models.ListQuery) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", q.Values(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPatch, itemPath("/admin/users", id), nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreateStaff(ctx context.Context, in models.StaffInput) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/admin/staff", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ Client = (*HTTPClient)(nil)
