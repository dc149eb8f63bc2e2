package ocr

import (
	"errors"
	"fmt"
)

// Kind classifies an OCR failure.
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindExtractionFailed Kind = "extraction_failed"
)

// Error is a classified OCR failure.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("ocr %s", e.Kind)
	}
	return fmt.Sprintf("ocr %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an OCR Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ocrErr *Error
	return errors.As(err, &ocrErr) && ocrErr.Kind == kind
}
