package gateway

import "errors"

var (
	// ErrNoCredential is returned when an authenticated call is attempted
	// without a bearer credential installed.
	ErrNoCredential = errors.New("no authentication token")

	// ErrSessionExpired is returned after any 401 response. By the time the
	// caller sees it the session has already been logged out.
	ErrSessionExpired = errors.New("your session has expired, please login again")
)
