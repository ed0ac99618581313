package field

import (
	"errors"
	"strings"
)

// Error codes carried by ValidationError.
const (
	CodeRequired         = "required"
	CodeEmpty            = "empty"
	CodeInvalid          = "invalid"
	CodeInvalidExtension = "invalid_extension"
	CodeInvalidEncoding  = "invalid_encoding"
	CodeInvalidMeta      = "invalid_meta"
	CodeListNotAllowed   = "list_not_allowed"
	CodeMaxSize          = "max_size"
	CodeMaxLength        = "max_length"
)

const (
	msgRequired        = "This field is required."
	msgEmpty           = "The submitted file is empty."
	msgInvalidEncoding = "The submitted file is not valid UTF-8 text."
)

// ValidationError is returned by Clean when the input cannot be accepted.
// Forms and serializers surface Messages through their field error maps.
type ValidationError struct {
	Code     string
	Messages []string
	Err      error
}

// NewValidationError builds a ValidationError with the given code and
// messages.
func NewValidationError(code string, messages ...string) *ValidationError {
	return &ValidationError{Code: code, Messages: messages}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return e.Code
	}
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Messages extracts user facing messages from err. Non validation errors
// produce their Error() text.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) && len(verr.Messages) > 0 {
		return append([]string(nil), verr.Messages...)
	}
	return []string{err.Error()}
}
