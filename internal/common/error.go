// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrAccountDeactivated is returned once the server reports the account
	// as inactive; the local session has already been cleared by then.
	ErrAccountDeactivated = errors.New("account deactivated")
)
