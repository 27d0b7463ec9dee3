package auth

import "errors"

// Identity resolution failures. Each maps to 401 with its own code.
var (
	ErrMissingCredentials = errors.New("missing bearer credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrMalformedClaims    = errors.New("token claims are incomplete")
	ErrUnknownUser        = errors.New("token user no longer exists")
	ErrRevokedToken       = errors.New("token has been revoked")
)

// Registration and login failures.
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTooLong    = errors.New("username must be at most 50 characters")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("incorrect username or password")
)
