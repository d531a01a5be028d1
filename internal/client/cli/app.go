package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/client"
	"github.com/dmitrijs2005/lostfound/internal/client/config"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/services"
	"github.com/dmitrijs2005/lostfound/internal/client/session"
	"github.com/dmitrijs2005/lostfound/internal/client/upload"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// lockedWriter serialises writes to w.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	auth   services.AuthService
	items  services.LostFoundService
	staff  services.StaffService
	admin  services.AdminService
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local session database and wires the API client,
// the image uploader and the services on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "api")),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	uploader, err := upload.New(ctx, c)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    console,
	}
	a.auth = services.NewAuthService(apiClient, session.NewStore(db), log.With("component", "auth"), services.NotifierFunc(a.notify))
	a.items = services.NewLostFoundService(apiClient, uploader, log.With("component", "items"))
	a.staff = services.NewStaffService(apiClient, uploader, log.With("component", "staff"))
	a.admin = services.NewAdminService(apiClient, log.With("component", "admin"))
	return a, nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run restores the cached session, confirms it with the server, starts the
// status watcher and blocks in the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to the Lost & Found CLI (type 'help' for commands)")
	a.restoreSession(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartStatusWatcher(watchCtx, a.config.StatusCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) restoreSession(ctx context.Context) {
	cached := a.auth.Hydrate(ctx)
	if cached == nil {
		return
	}
	a.println("Welcome back,", describeUser(cached))

	vctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()
	if err := a.auth.Verify(vctx); err != nil {
		a.log.Warn(ctx, "cached session not confirmed", "error", err)
		if errors.Is(err, common.ErrAccountDeactivated) {
			a.println(services.MsgAccountDeactivated)
			return
		}
		a.println("Could not confirm your session. Please log in again.")
	}
}

// StartStatusWatcher re-checks the account with the server every interval
// so deactivations and role changes end the local session promptly.
func (a *App) StartStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			a.auth.CheckUserStatus(cctx)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) notify(msg string) {
	a.println()
	a.println("!", msg)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) hasRole(roles ...models.Role) bool {
	return a.auth.HasRole(roles...)
}

// status renders the prompt prefix: "(jane@example.com USER)" or "(guest)".
func (a *App) status() string {
	u := a.auth.User()
	switch {
	case u == nil:
		return "(guest)"
	case !a.auth.IsAuthenticated():
		return fmt.Sprintf("(%s %s)", u.Email, a.auth.State())
	}
	return fmt.Sprintf("(%s %s)", u.Email, u.Role.Normalize())
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) askPassword(prompt string) (string, error) {
	return GetPassword(a.reader, prompt, a.out)
}

// commands lists every REPL verb with its access rule.
func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register", help: "create an account", access: accessGuest, run: a.Register},
		{name: "verify", usage: "verify", help: "confirm your email with the 6-digit code", access: accessGuest, run: a.VerifyEmail},
		{name: "resend", usage: "resend", help: "send a new verification code", access: accessGuest, run: a.ResendCode},
		{name: "login", usage: "login", help: "log in", access: accessGuest, run: a.Login},
		{name: "forgot", usage: "forgot", help: "request a password reset link", access: accessGuest, run: a.ForgotPassword},
		{name: "reset", usage: "reset", help: "set a new password with a reset token", access: accessGuest, run: a.ResetPassword},
		{name: "status", usage: "status", help: "show session and server status", access: accessAny, run: a.Status},
		{name: "items", usage: "items [search]", help: "browse found items", access: accessAny, run: a.BrowseItems},
		{name: "item", usage: "item <id>", help: "show a found item", access: accessAny, minArgs: 1, run: a.ShowItem},

		{name: "logout", usage: "logout", help: "log out", access: accessUser, run: a.Logout},
		{name: "whoami", usage: "whoami", help: "show the current user", access: accessUser, run: a.WhoAmI},
		{name: "profile", usage: "profile", help: "edit your name and phone", access: accessUser, run: a.EditProfile},
		{name: "password", usage: "password", help: "change your password", access: accessUser, run: a.ChangePassword},
		{name: "report", usage: "report", help: "report a lost item", access: accessUser, run: a.ReportLost},
		{name: "reports", usage: "reports", help: "list your lost reports", access: accessUser, run: a.ListReports},
		{name: "editreport", usage: "editreport <id>", help: "edit one of your lost reports", access: accessUser, minArgs: 1, run: a.EditReport},
		{name: "deletereport", usage: "deletereport <id>", help: "delete one of your lost reports", access: accessUser, minArgs: 1, run: a.DeleteReport},
		{name: "claim", usage: "claim <itemID>", help: "claim a found item", access: accessUser, minArgs: 1, run: a.Claim},
		{name: "claims", usage: "claims", help: "list your claims", access: accessUser, run: a.ListClaims},

		{name: "staff-items", usage: "staff-items [search]", help: "list found items with hidden details", access: accessStaff, run: a.StaffItems},
		{name: "additem", usage: "additem", help: "record a found item", access: accessStaff, run: a.AddItem},
		{name: "edititem", usage: "edititem <id>", help: "edit a found item", access: accessStaff, minArgs: 1, run: a.EditItem},
		{name: "review", usage: "review [status]", help: "list claims awaiting review", access: accessStaff, run: a.ReviewQueue},
		{name: "reviewclaim", usage: "reviewclaim <id>", help: "set the review status of a claim", access: accessStaff, minArgs: 1, run: a.ReviewClaim},

		{name: "users", usage: "users [search]", help: "list accounts", access: accessAdmin, run: a.ListUsers},
		{name: "setactive", usage: "setactive <id> <true|false>", help: "activate or deactivate an account", access: accessAdmin, minArgs: 2, run: a.SetActive},
		{name: "setrole", usage: "setrole <id> <role>", help: "change an account role", access: accessAdmin, minArgs: 2, run: a.SetRole},
		{name: "addstaff", usage: "addstaff", help: "create a staff account", access: accessAdmin, run: a.AddStaff},
	}
}
