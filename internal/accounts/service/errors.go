package service

import "errors"

var (
	ErrAccountNotFound             = errors.New("account not found")
	ErrStatusNotFound              = errors.New("status not found")
	ErrRoleNotFound                = errors.New("role not found")
	ErrProviderNotFound            = errors.New("provider not found")
	ErrAccountAlreadyExists        = errors.New("account already exists")
	ErrDuplicateEmail              = errors.New("email already in use")
	ErrInvalidCredentials          = errors.New("invalid credentials")
	ErrAdminPasswordChangeRequired = errors.New("administrator must change password before first login")
	ErrAccessDenied                = errors.New("access denied")
	ErrMissingAccountID            = errors.New("account id is required")
)
