package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("insufficient permissions")

	ErrBookNotFound = errors.New("book not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidArgument is the parent of every input rejection that is not a
	// payload validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyPatch      = fmt.Errorf("%w: patch contains no fields", ErrInvalidArgument)

	// ErrStoreWrite marks a failed write; the store's own error is never shown to clients.
	ErrStoreWrite = errors.New("store write failed")
)
