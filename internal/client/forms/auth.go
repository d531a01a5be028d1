package forms

import (
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() error {
	var c checker
	c.email("email", f.Email)
	c.required("password", "Password", f.Password)
	return c.err()
}

type RegisterForm struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

func (f RegisterForm) Validate() error {
	var c checker
	c.required("full_name", "Full name", f.FullName)
	c.email("email", f.Email)
	c.phone("phone", f.Phone, false)
	c.password("password", f.Password)
	c.confirm("confirm_password", f.Password, f.ConfirmPassword)
	return c.err()
}

func (f RegisterForm) Request() models.RegisterRequest {
	return models.RegisterRequest{
		FullName: strings.TrimSpace(f.FullName),
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		Password: f.Password,
	}
}

type VerifyEmailForm struct {
	Email string
	Code  string
}

func (f VerifyEmailForm) Validate() error {
	var c checker
	c.email("email", f.Email)
	code := strings.TrimSpace(f.Code)
	if len(code) != 6 || strings.Trim(code, "0123456789") != "" {
		c.fail("code", "Verification code must be 6 digits")
	}
	return c.err()
}

// EmailForm covers resend-verification and forgot-password.
type EmailForm struct {
	Email string
}

func (f EmailForm) Validate() error {
	var c checker
	c.email("email", f.Email)
	return c.err()
}

type ProfileForm struct {
	FullName string
	Phone    string
}

func (f ProfileForm) Validate() error {
	var c checker
	c.required("full_name", "Full name", f.FullName)
	c.phone("phone", f.Phone, true)
	return c.err()
}

func (f ProfileForm) Update() models.ProfileUpdate {
	return models.ProfileUpdate{FullName: strings.TrimSpace(f.FullName), Phone: strings.TrimSpace(f.Phone)}
}

type ChangePasswordForm struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (f ChangePasswordForm) Validate() error {
	var c checker
	c.required("current_password", "Current password", f.CurrentPassword)
	c.password("new_password", f.NewPassword)
	c.confirm("confirm_password", f.NewPassword, f.ConfirmPassword)
	if f.CurrentPassword != "" && f.CurrentPassword == f.NewPassword {
		c.fail("new_password", "New password must differ from the current one")
	}
	return c.err()
}

type ResetPasswordForm struct {
	Token           string
	Password        string
	ConfirmPassword string
}

func (f ResetPasswordForm) Validate() error {
	var c checker
	c.required("token", "Reset token", f.Token)
	c.password("password", f.Password)
	c.confirm("confirm_password", f.Password, f.ConfirmPassword)
	return c.err()
}

type StaffForm struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

func (f StaffForm) Validate() error {
	var c checker
	c.required("full_name", "Full name", f.FullName)
	c.email("email", f.Email)
	c.phone("phone", f.Phone, true)
	c.password("password", f.Password)
	return c.err()
}

func (f StaffForm) Input() models.StaffInput {
	return models.StaffInput{
		FullName: strings.TrimSpace(f.FullName),
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		Password: f.Password,
	}
}
