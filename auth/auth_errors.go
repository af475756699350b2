package auth

import "errors"

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrAccountBlocked  = errors.New("account blocked")
	ErrInvalidResponse = errors.New("invalid login response")
)
