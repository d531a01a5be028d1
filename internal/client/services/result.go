// Package services contains the application services of the lost-and-found
// client. AuthService owns the session lifecycle; LostFoundService,
// StaffService and AdminService wrap the per-view operations, validating
// input and uploading images before the single backend call.
package services

import (
	"errors"

	"github.com/dmitrijs2005/lostfound/internal/client/client"
	"github.com/dmitrijs2005/lostfound/internal/client/forms"
)

// User-facing session messages.
const (
	MsgAccountDeactivated = "Your account has been deactivated. Please contact an administrator."
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgRoleChanged        = "Your account permissions have changed. Please log in again."
	MsgServerUnavailable  = "Unable to reach the server. Please try again later."
	MsgNotLoggedIn        = "Please log in first."
)

// Result is the outcome of a user-facing auth flow. Flows never return
// errors; callers render Error inline.
type Result struct {
	Success bool
	Error   string
	Message string
}

func succeeded(msg string) Result {
	return Result{Success: true, Message: msg}
}

func failed(err error) Result {
	return Result{Error: ErrorMessage(err)}
}

// ErrorMessage turns err into text fit for the terminal: the server message
// for API errors, the first field message for validation errors.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, client.ErrUnavailable) {
		return MsgServerUnavailable
	}
	return err.Error()
}

// Notifier receives asynchronous session messages (forced logouts).
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
