package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/lostfound/internal/client/client"
	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/session"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// AuthService is the single source of truth for who is logged in, with what
// role, and whether the session is still valid.
//
// Contract:
//   - Hydrate: load the cached session without any network call.
//   - Verify: confirm the session with the profile endpoint. A deactivated
//     account clears everything and yields common.ErrAccountDeactivated; any
//     other failure drops the authenticated flag but keeps the last-known
//     user and cache, so a transient failure does not wipe the session.
//   - Login/Register/VerifyEmail/ResendVerificationCode and the profile and
//     password flows return a Result instead of an error.
//   - Logout: the server call is best-effort; local cleanup always runs.
//   - CheckUserStatus: re-pull the profile and force a logout (with a
//     notification) on deactivation, role change or an invalid session.
//
// Safe for concurrent use.
type AuthService interface {
	Hydrate(ctx context.Context) *models.User
	Verify(ctx context.Context) error
	Login(ctx context.Context, email, password string) Result
	Register(ctx context.Context, f forms.RegisterForm) Result
	VerifyEmail(ctx context.Context, email, code string) Result
	ResendVerificationCode(ctx context.Context, email string) Result
	Logout(ctx context.Context)
	CheckUserStatus(ctx context.Context) bool

	UpdateProfile(ctx context.Context, f forms.ProfileForm) Result
	ChangePassword(ctx context.Context, f forms.ChangePasswordForm) Result
	ForgotPassword(ctx context.Context, email string) Result
	ResetPassword(ctx context.Context, f forms.ResetPasswordForm) Result

	User() *models.User
	IsAuthenticated() bool
	State() session.State
	IsAdmin() bool
	IsStaff() bool
	IsUser() bool
	HasRole(roles ...models.Role) bool

	Ping(ctx context.Context) error
}

type authService struct {
	client   client.Client
	store    *session.Store
	log      logging.Logger
	notifier Notifier

	mu    sync.RWMutex
	user  *models.User
	state session.State
	// gen is bumped whenever a session starts or ends. Profile results
	// fetched under an older gen are dropped.
	gen uint64
}

// NewAuthService constructs an AuthService over the API client and the local
// session store. notifier may be nil.
func NewAuthService(c client.Client, store *session.Store, log logging.Logger, notifier Notifier) AuthService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		client:   c,
		store:    store,
		log:      log,
		notifier: notifier,
		state:    session.StateUnknown,
	}
}

func (a *authService) transition(e session.Event, user *models.User, replaceUser bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if replaceUser {
		a.user = user.Clone()
	}
	a.state = a.state.Next(e)
}

func (a *authService) generation() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gen
}

// commitProfile caches u as the current user unless the session changed
// since gen was read.
func (a *authService) commitProfile(ctx context.Context, gen uint64, u *models.User) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return false
	}
	if err := a.store.SaveUser(ctx, u); err != nil {
		a.log.Warn(ctx, "failed to cache profile", "error", err)
	}
	a.user = u.Clone()
	a.state = a.state.Next(session.EventProfileActive)
	return true
}

func (a *authService) Hydrate(ctx context.Context) *models.User {
	u, token, err := a.store.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "cached session unreadable, discarding", "error", err)
		if err := a.store.Clear(ctx); err != nil {
			a.log.Error(ctx, "failed to clear cached session", "error", err)
		}
		u, token = nil, ""
	}

	a.client.SetToken(token)
	if u == nil {
		a.transition(session.EventHydrateEmpty, nil, true)
		return nil
	}
	a.transition(session.EventHydrateCached, u, true)
	return u.Clone()
}

// deactivated reports whether err is the backend refusing a deactivated
// account.
func deactivated(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "deactivat")
}

func (a *authService) Verify(ctx context.Context) error {
	gen := a.generation()
	u, err := a.client.Profile(ctx)
	if err != nil {
		if deactivated(err) {
			a.clearLocalAt(ctx, gen, session.EventProfileInactive)
			return common.ErrAccountDeactivated
		}
		// keep the last-known user and cache; only the flag goes
		a.mu.Lock()
		if a.gen == gen {
			a.state = a.state.Next(session.EventProfileFailed)
		}
		a.mu.Unlock()
		return fmt.Errorf("verify session: %w", err)
	}

	if !u.IsActive {
		a.clearLocalAt(ctx, gen, session.EventProfileInactive)
		return common.ErrAccountDeactivated
	}

	a.commitProfile(ctx, gen, u)
	return nil
}

// clearLocal drops the token, the cached user and the in-memory state.
func (a *authService) clearLocal(ctx context.Context, e session.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked(ctx, e)
}

// clearLocalAt is clearLocal for a session identified by gen. It reports
// false and leaves everything alone when that session is already gone.
func (a *authService) clearLocalAt(ctx context.Context, gen uint64, e session.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return false
	}
	a.clearLocked(ctx, e)
	return true
}

func (a *authService) clearLocked(ctx context.Context, e session.Event) {
	a.gen++
	a.client.SetToken("")
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "failed to clear cached session", "error", err)
	}
	a.user = nil
	a.state = a.state.Next(e)
}

// establish stores a fresh session returned by login or verification.
func (a *authService) establish(ctx context.Context, resp *models.AuthResponse) Result {
	if resp == nil || resp.User == nil {
		return Result{Error: "Unexpected response from server"}
	}
	if !resp.User.IsActive {
		// the backend may have opened a cookie session; close it
		if err := a.client.Logout(ctx); err != nil {
			a.log.Debug(ctx, "logout of deactivated account failed", "error", err)
		}
		a.clearLocal(ctx, session.EventProfileInactive)
		return Result{Error: MsgAccountDeactivated}
	}

	a.mu.Lock()
	a.gen++
	a.client.SetToken(resp.Token)
	if err := a.store.Save(ctx, resp.User, resp.Token); err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
	a.user = resp.User.Clone()
	a.state = a.state.Next(session.EventLogin)
	a.mu.Unlock()
	a.log.Info(ctx, "logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	return succeeded(resp.Message)
}

func (a *authService) Login(ctx context.Context, email, password string) Result {
	f := forms.LoginForm{Email: email, Password: password}
	if err := f.Validate(); err != nil {
		return failed(err)
	}
	resp, err := a.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return failed(err)
	}
	return a.establish(ctx, resp)
}

func (a *authService) Register(ctx context.Context, f forms.RegisterForm) Result {
	if err := f.Validate(); err != nil {
		return failed(err)
	}
	resp, err := a.client.Register(ctx, f.Request())
	if err != nil {
		return failed(err)
	}
	// Backends that skip email verification answer with a ready session.
	if resp.Token != "" && resp.User != nil && resp.User.EmailVerified {
		return a.establish(ctx, resp)
	}
	msg := resp.Message
	if msg == "" {
		msg = "Registration successful. Please check your email for the verification code."
	}
	return succeeded(msg)
}

func (a *authService) VerifyEmail(ctx context.Context, email, code string) Result {
	f := forms.VerifyEmailForm{Email: email, Code: code}
	if err := f.Validate(); err != nil {
		return failed(err)
	}
	resp, err := a.client.VerifyEmail(ctx, strings.TrimSpace(email), strings.TrimSpace(code))
	if err != nil {
		return failed(err)
	}
	return a.establish(ctx, resp)
}

func (a *authService) ResendVerificationCode(ctx context.Context, email string) Result {
	if err := (forms.EmailForm{Email: email}).Validate(); err != nil {
		return failed(err)
	}
	if err := a.client.ResendVerification(ctx, strings.TrimSpace(email)); err != nil {
		return failed(err)
	}
	return succeeded("Verification code sent. Please check your email.")
}

func (a *authService) Logout(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
	}
	a.clearLocal(ctx, session.EventLogout)
}

// forceLogout ends the session identified by gen and notifies the user. A
// session that already ended or was replaced is left alone.
func (a *authService) forceLogout(ctx context.Context, gen uint64, msg string) {
	if a.generation() != gen {
		return
	}
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
	}
	if a.clearLocalAt(ctx, gen, session.EventLogout) {
		a.notifier.Notify(msg)
	}
}

func (a *authService) CheckUserStatus(ctx context.Context) bool {
	a.mu.RLock()
	gen, cached, authed := a.gen, a.user.Clone(), a.state.Authenticated()
	a.mu.RUnlock()
	if cached == nil && !authed {
		return false
	}

	u, err := a.client.Profile(ctx)
	if a.generation() != gen {
		a.log.Debug(ctx, "session changed during status check, result dropped")
		return a.IsAuthenticated()
	}
	if err != nil {
		switch {
		case deactivated(err):
			a.forceLogout(ctx, gen, MsgAccountDeactivated)
			return false
		case errors.Is(err, client.ErrUnauthorized):
			a.forceLogout(ctx, gen, MsgSessionExpired)
			return false
		}
		a.log.Debug(ctx, "status check skipped", "error", err)
		return a.IsAuthenticated()
	}

	if !u.IsActive {
		a.forceLogout(ctx, gen, MsgAccountDeactivated)
		return false
	}
	if cached != nil && cached.Role.Normalize() != u.Role.Normalize() {
		a.forceLogout(ctx, gen, MsgRoleChanged)
		return false
	}

	if !a.commitProfile(ctx, gen, u) {
		return a.IsAuthenticated()
	}
	return true
}

func (a *authService) UpdateProfile(ctx context.Context, f forms.ProfileForm) Result {
	if !a.IsAuthenticated() {
		return Result{Error: MsgNotLoggedIn}
	}
	if err := f.Validate(); err != nil {
		return failed(err)
	}
	gen := a.generation()
	u, err := a.client.UpdateProfile(ctx, f.Update())
	if err != nil {
		return failed(err)
	}
	a.commitProfile(ctx, gen, u)
	return succeeded("Profile updated.")
}

func (a *authService) ChangePassword(ctx context.Context, f forms.ChangePasswordForm) Result {
	if !a.IsAuthenticated() {
		return Result{Error: MsgNotLoggedIn}
	}
	if err := f.Validate(); err != nil {
		return failed(err)
	}
	if err := a.client.ChangePassword(ctx, f.CurrentPassword, f.NewPassword); err != nil {
		return failed(err)
	}
	return succeeded("Password changed.")
}

func (a *authService) ForgotPassword(ctx context.Context, email string) Result {
	if err := (forms.EmailForm{Email: email}).Validate(); err != nil {
		return failed(err)
	}
	if err := a.client.ForgotPassword(ctx, strings.TrimSpace(email)); err != nil {
		return failed(err)
	}
	return succeeded("If an account exists for that email, a reset link has been sent.")
}

func (a *authService) ResetPassword(ctx context.Context, f forms.ResetPasswordForm) Result {
	if err := f.Validate(); err != nil {
		return failed(err)
	}
	if err := a.client.ResetPassword(ctx, strings.TrimSpace(f.Token), f.Password); err != nil {
		return failed(err)
	}
	return succeeded("Password has been reset. You can now log in.")
}

func (a *authService) User() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user.Clone()
}

func (a *authService) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Authenticated()
}

func (a *authService) State() session.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *authService) role() models.Role {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return ""
	}
	return a.user.Role.Normalize()
}

func (a *authService) IsAdmin() bool { return a.role() == models.RoleAdmin }
func (a *authService) IsStaff() bool { return a.role() == models.RoleStaff }
func (a *authService) IsUser() bool  { return a.role() == models.RoleUser }

// HasRole reports whether the cached role is any of roles.
func (a *authService) HasRole(roles ...models.Role) bool {
	r := a.role()
	if r == "" {
		return false
	}
	return slices.ContainsFunc(roles, func(x models.Role) bool { return x.Normalize() == r })
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
