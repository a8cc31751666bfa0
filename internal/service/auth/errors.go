package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken indicates the token is malformed, carries a bad
	// signature, or has been revoked. The cases are deliberately not
	// distinguishable by the caller.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a failed email/password check. Unknown
	// email and wrong password produce this same error so nothing leaks
	// about which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
