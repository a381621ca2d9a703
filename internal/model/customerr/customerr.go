// Package customerr holds the sentinel errors of the finance manager.
// Services wrap them with pkg/errors on the way up; the menu classifies
// with errors.Is and maps each one to a human-readable line.
package customerr

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidKind        = errors.New("kind must be income or expense")
	ErrNotFound           = errors.New("record not found")
	ErrNoOpUpdate         = errors.New("no fields to update")
	ErrInvalidPeriod      = errors.New("period must be monthly or yearly")
	ErrOwnershipMismatch  = errors.New("backup belongs to another user")
)
