package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/services"
)

// report prints a successful Result and turns a failed one into an error
// for the REPL to print inline.
func (a *App) report(r services.Result) error {
	if !r.Success {
		return errors.New(r.Error)
	}
	if r.Message != "" {
		a.println(r.Message)
	}
	return nil
}

func describeUser(u *models.User) string {
	return fmt.Sprintf("%s <%s> (%s)", u.FullName, u.Email, u.Role.Normalize())
}

// Register asks for the account fields and submits them. Most backends then
// expect "verify" with the emailed code.
func (a *App) Register(ctx context.Context, _ []string) error {
	var f forms.RegisterForm
	var err error
	if f.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	if f.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if f.Phone, err = a.ask("Phone (optional)"); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("Password"); err != nil {
		return err
	}
	if f.ConfirmPassword, err = a.askPassword("Confirm password"); err != nil {
		return err
	}
	if err := a.report(a.auth.Register(ctx, f)); err != nil {
		return err
	}
	if !a.auth.IsAuthenticated() {
		a.println("Run 'verify' with the code from your email to activate the account.")
	}
	return nil
}

func (a *App) VerifyEmail(ctx context.Context, _ []string) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	code, err := a.ask("Verification code")
	if err != nil {
		return err
	}
	if err := a.report(a.auth.VerifyEmail(ctx, email, code)); err != nil {
		return err
	}
	a.println("Logged in as", describeUser(a.auth.User()))
	return nil
}

func (a *App) ResendCode(ctx context.Context, _ []string) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	return a.report(a.auth.ResendVerificationCode(ctx, email))
}

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.askPassword("Password")
	if err != nil {
		return err
	}
	if err := a.report(a.auth.Login(ctx, email, password)); err != nil {
		return err
	}
	a.println("Logged in as", describeUser(a.auth.User()))
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.auth.Logout(ctx)
	a.println("Logged out.")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	u := a.auth.User()
	if u == nil {
		return errors.New(services.MsgNotLoggedIn)
	}
	a.println(describeUser(u))
	if u.Phone != "" {
		a.println("Phone:", u.Phone)
	}
	a.println("Email verified:", u.EmailVerified)
	return nil
}

// Status prints the local session state and whether the server answers.
func (a *App) Status(ctx context.Context, _ []string) error {
	a.println("Session:", a.auth.State())
	if err := a.auth.Ping(ctx); err != nil {
		a.println("Server: unreachable")
		return nil
	}
	a.println("Server: online")
	return nil
}

// EditProfile prompts for each field with the current value as default.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	u := a.auth.User()
	if u == nil {
		return errors.New(services.MsgNotLoggedIn)
	}
	f := forms.ProfileForm{FullName: u.FullName, Phone: u.Phone}
	if err := a.askDefault("Full name", &f.FullName); err != nil {
		return err
	}
	if err := a.askDefault("Phone", &f.Phone); err != nil {
		return err
	}
	return a.report(a.auth.UpdateProfile(ctx, f))
}

func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	var f forms.ChangePasswordForm
	var err error
	if f.CurrentPassword, err = a.askPassword("Current password"); err != nil {
		return err
	}
	if f.NewPassword, err = a.askPassword("New password"); err != nil {
		return err
	}
	if f.ConfirmPassword, err = a.askPassword("Confirm new password"); err != nil {
		return err
	}
	return a.report(a.auth.ChangePassword(ctx, f))
}

func (a *App) ForgotPassword(ctx context.Context, _ []string) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	return a.report(a.auth.ForgotPassword(ctx, email))
}

func (a *App) ResetPassword(ctx context.Context, _ []string) error {
	var f forms.ResetPasswordForm
	var err error
	if f.Token, err = a.ask("Reset token"); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("New password"); err != nil {
		return err
	}
	if f.ConfirmPassword, err = a.askPassword("Confirm new password"); err != nil {
		return err
	}
	return a.report(a.auth.ResetPassword(ctx, f))
}

// askDefault shows the current value and keeps it when the answer is empty.
func (a *App) askDefault(label string, value *string) error {
	prompt := label
	if *value != "" {
		prompt = fmt.Sprintf("%s [%s]", label, *value)
	}
	s, err := a.ask(prompt)
	if err != nil {
		return err
	}
	if s != "" {
		*value = s
	}
	return nil
}
