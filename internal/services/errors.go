package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)

// Validation codes surfaced to the handler layer.
const (
	CodeEmptyName     = "empty_name"
	CodeDuplicateName = "duplicate_name"
	CodeInvalidDate   = "invalid_date"
	CodeEmptyContent  = "empty_content"
	CodeInvalidRole   = "invalid_role"
	CodeEmptyField    = "empty_field"
)

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validation(code, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
