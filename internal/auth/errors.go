package auth

import "errors"

var (
	// ErrMissingSession is returned when the request carries no sessionId cookie
	ErrMissingSession = errors.New("session cookie required")
)
