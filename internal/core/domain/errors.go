package domain

import "errors"

// Token verification failures. The authentication middleware downgrades the
// request to anonymous on either of them.
var (
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// ErrTooManyRequests is returned by the rate limit middleware once a client
// address exceeds its request ceiling for the current window.
var ErrTooManyRequests = errors.New("too many requests")

// Engagement outcomes. These are expected results of user input, not faults.
var (
	ErrAlreadyEngaged      = errors.New("resource already liked by actor")
	ErrNotEngaged          = errors.New("resource not liked by actor")
	ErrSelfEngagement      = errors.New("users cannot like themselves")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrUnknownResourceKind = errors.New("unknown resource kind")
)

// Account errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("authentication required")
)
