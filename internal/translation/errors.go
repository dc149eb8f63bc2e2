package translation

import (
	"errors"
	"fmt"
)

// Kind classifies a translation failure.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindBackendUnavailable    Kind = "backend_unavailable"
	KindBackendError          Kind = "backend_error"
	KindAllProvidersExhausted Kind = "all_providers_exhausted"
)

// Error is a classified translation failure carrying the provider it
// happened against.
type Error struct {
	Kind     Kind
	Provider Provider
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("translation %s (provider %s)", e.Kind, e.Provider)
	}
	return fmt.Sprintf("translation %s (provider %s): %v", e.Kind, e.Provider, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a translation Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var translationErr *Error
	return errors.As(err, &translationErr) && translationErr.Kind == kind
}
