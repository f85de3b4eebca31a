package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMatchInProgress       = fmt.Errorf("%w: match in progress", ErrConflict)
	ErrNoLiveMatch           = fmt.Errorf("%w: no match in progress", ErrNotFound)
)
