// Package apitest runs an in-process fake of the lost-and-found REST backend
// for tests. It is deliberately small: enough state to drive the auth flow,
// item listings, reports, claims and admin patches.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "lf_session"

var signingKey = []byte("apitest-secret")

// Request is a recorded call.
type Request struct {
	Method    string
	Path      string
	Header    http.Header
	Body      []byte
	RequestID string
}

type failure struct {
	status  int
	message string
}

// Backend is the fake server state. Seed it through the Add helpers
// before the first request.
type Backend struct {
	t      testing.TB
	server *httptest.Server

	mu          sync.Mutex
	users       map[string]*models.User
	passwords   map[string][]byte // email -> bcrypt hash
	sessions    map[string]string // token -> user id
	codes       map[string]string // email -> verification code
	foundItems  []models.FoundItem
	lostReports map[string][]models.LostReport // user id -> reports
	claims      []models.Claim
	requests    []Request
	failures    map[string]failure
	tokenTTL    time.Duration
}

// New starts a fake backend that is shut down with the test.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		t:           t,
		users:       map[string]*models.User{},
		passwords:   map[string][]byte{},
		sessions:    map[string]string{},
		codes:       map[string]string{},
		lostReports: map[string][]models.LostReport{},
		failures:    map[string]failure{},
		tokenTTL:    time.Hour,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base URL including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// AddUser registers a verified account and returns its id.
func (b *Backend) AddUser(u models.User, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	b.users[u.ID] = &u
	b.setPasswordLocked(u.Email, password)
	return u.ID
}

// UpdateUser mutates a stored account, e.g. to deactivate it behind the
// client's back.
func (b *Backend) UpdateUser(id string, fn func(u *models.User)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[id]; ok {
		fn(u)
	}
}

// IssueToken creates a session for user id, as if it had logged in.
func (b *Backend) IssueToken(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueTokenLocked(id)
}

// ExpiredToken returns a JWT for id whose exp is in the past.
func (b *Backend) ExpiredToken(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	tok := signToken(id, time.Now().Add(-time.Minute))
	b.sessions[tok] = id
	return tok
}

// VerificationCode returns the pending code for email.
func (b *Backend) VerificationCode(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[email]
}

func (b *Backend) AddFoundItem(it models.FoundItem) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Status == "" {
		it.Status = "AVAILABLE"
	}
	b.foundItems = append(b.foundItems, it)
	return it.ID
}

func (b *Backend) AddClaim(c models.Claim) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ClaimPending
	}
	b.claims = append(b.claims, c)
	return c.ID
}

// Fail makes every following request to "METHOD /path" (path without the
// /api prefix) answer with status and message until Recover is called.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+path)
}

// Requests returns the calls seen so far, optionally filtered by method and
// path (without /api).
func (b *Backend) Requests(method, path string) []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Request
	for _, r := range b.requests {
		if (method == "" || r.Method == method) && (path == "" || r.Path == path) {
			out = append(out, r)
		}
	}
	return out
}

func (b *Backend) Count(method, path string) int {
	return len(b.Requests(method, path))
}

func (b *Backend) setPasswordLocked(email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		b.t.Errorf("hash password: %v", err)
		return
	}
	b.passwords[email] = hash
}

func (b *Backend) passwordMatchesLocked(email, password string) bool {
	hash, ok := b.passwords[email]
	return ok && bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (b *Backend) issueTokenLocked(id string) string {
	tok := signToken(id, time.Now().Add(b.tokenTTL))
	b.sessions[tok] = id
	return tok
}

func signToken(id string, exp time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   id,
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// currentUser resolves the bearer token or the session cookie.
func (b *Backend) currentUser(r *http.Request) (*models.User, string) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if tok == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			tok = c.Value
		}
	}
	if tok == "" {
		return nil, ""
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return signingKey, nil }); err != nil {
		return nil, ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.sessions[tok]
	if !ok {
		return nil, ""
	}
	u, ok := b.users[id]
	if !ok {
		return nil, ""
	}
	return u.Clone(), tok
}

func (b *Backend) String() string {
	return fmt.Sprintf("apitest.Backend(%s)", b.URL())
}
