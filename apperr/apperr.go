// Package apperr defines the sentinel errors shared between the access
// services and the HTTP layer.
package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrExpired            = errors.New("expired")
	ErrArchived           = errors.New("archived")
	ErrValidation         = errors.New("validation failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsExpired(err error) bool {
	return errors.Is(err, ErrExpired)
}
