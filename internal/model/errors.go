package model

import "errors"

var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")

	// Session tokens
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")

	// Authorization
	ErrForbidden = errors.New("forbidden")

	// Files
	ErrFileNotFound = errors.New("file not found")

	// Download tokens
	ErrDownloadTokenInvalid = errors.New("download token invalid")
	ErrDownloadTokenExpired = errors.New("download token expired")
	ErrDownloadTokenUsed    = errors.New("download token already used")

	// Generic
	ErrInvalidInput = errors.New("invalid input")
)
