package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password at login. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid is a structural or signature failure on any token.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is a token past its expiry. Handlers collapse it with
	// ErrTokenInvalid outward; it stays distinct for logging and tests.
	ErrTokenExpired = errors.New("token expired")

	// ErrReplayOrRevoked is a cryptographically valid refresh token that no
	// longer matches the stored session slot: rotated away, revoked, or a
	// forged jti. Outwardly identical to ErrTokenInvalid.
	ErrReplayOrRevoked = errors.New("refresh token does not match stored session")

	// ErrCsrfMismatch is a missing or mismatched CSRF header.
	ErrCsrfMismatch = errors.New("csrf token missing or invalid")

	// ErrForbidden is an authenticated caller acting on something not theirs.
	ErrForbidden = errors.New("forbidden")

	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrMisconfigured = errors.New("auth config invalid")
)
