package domain

import "errors"

// Common domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidation       = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConsentRequired  = errors.New("consent required before accessing data")
	ErrStore            = errors.New("storage error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrBootstrapDone      = errors.New("identity store is not empty")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Patient errors
var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrSubjectNotFound = errors.New("no patient matched the given name or id")
)
