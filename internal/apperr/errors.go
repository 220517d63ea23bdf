// Package apperr holds sentinel errors shared across transports.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
