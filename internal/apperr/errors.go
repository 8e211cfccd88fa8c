// Package apperr defines sentinel errors shared across services and
// repositories. Handlers use errors.Is to translate each kind into an
// HTTP status; services wrap them with context via fmt.Errorf and %w so
// the original classification survives the chain.
package apperr

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed input caught before any side effect.
var ErrValidation = errors.New("validation failed")

// ErrUnavailable is returned when the requested dates overlap an
// existing non-cancelled booking. Safe to retry with other dates.
var ErrUnavailable = errors.New("resource unavailable")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrCannotCancel is returned when cancellation preconditions are unmet.
var ErrCannotCancel = errors.New("cannot cancel")

// ErrUnauthorized is returned when the actor lacks the required role or
// does not own the target resource.
var ErrUnauthorized = errors.New("unauthorized")

// ErrTransientStore marks lock timeouts and deadlocks. Safe to retry.
var ErrTransientStore = errors.New("transient store error")

// ErrCipher marks an encryption failure on the write path. Decryption
// failures on the read path are swallowed by the field cipher instead.
var ErrCipher = errors.New("cipher error")

func Validationf(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func Unavailablef(format string, args ...any) error {
	return wrap(ErrUnavailable, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func CannotCancelf(format string, args ...any) error {
	return wrap(ErrCannotCancel, format, args...)
}

func Unauthorizedf(format string, args ...any) error {
	return wrap(ErrUnauthorized, format, args...)
}

func Transientf(format string, args ...any) error {
	return wrap(ErrTransientStore, format, args...)
}

func Cipherf(format string, args ...any) error {
	return wrap(ErrCipher, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
