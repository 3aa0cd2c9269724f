package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrRefreshInvalid        = errors.New("refresh token invalid")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
