package usecase

import (
	"errors"
	"fmt"
)

// DomainError is a failure the caller can act on (bad input, missing record,
// conflicting state).
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) domain() *DomainError { return e }

// AsDomainError finds a DomainError, or an error embedding one, in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var target interface{ domain() *DomainError }
	if errors.As(err, &target) {
		return target.domain(), true
	}
	return nil, false
}

func IsDomainError(err error) bool {
	_, ok := AsDomainError(err)
	return ok
}

// TechnicalError is an infrastructure failure the caller cannot fix.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func (e *TechnicalError) technical() *TechnicalError { return e }

func AsTechnicalError(err error) (*TechnicalError, bool) {
	var target interface{ technical() *TechnicalError }
	if errors.As(err, &target) {
		return target.technical(), true
	}
	return nil, false
}

func IsTechnicalError(err error) bool {
	_, ok := AsTechnicalError(err)
	return ok
}

const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeConflict      = "CONFLICT"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeTransaction   = "TRANSACTION_ERROR"
)

type NotFoundError struct {
	DomainError
	Resource string
	ID       int64
}

func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{
		DomainError: DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)},
		Resource:    resource,
		ID:          id,
	}
}

type ValidationError struct {
	DomainError
}

// NewValidationError reports one message per offending field.
func NewValidationError(fields map[string]string) *ValidationError {
	details := make(map[string]any, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &ValidationError{DomainError: DomainError{Code: CodeValidation, Message: "Validation failed", Details: details}}
}

// NewMissingFieldsError mirrors the {"missing": [...]} shape clients already parse.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{DomainError: DomainError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Details: map[string]any{"missing": fields},
	}}
}

type ConflictError struct {
	DomainError
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{DomainError: DomainError{Code: CodeConflict, Message: message}}
}

type ConfigurationError struct {
	TechnicalError
}

func NewConfigurationError(message string, err error) *ConfigurationError {
	return &ConfigurationError{TechnicalError: TechnicalError{Code: CodeConfiguration, Message: message, Err: err}}
}

// TransactionError wraps an unexpected failure inside an atomic sequence. Step
// names the operation that failed; the transaction has been rolled back.
type TransactionError struct {
	TechnicalError
	Step string
}

func NewTransactionError(step string, err error) *TransactionError {
	return &TransactionError{
		TechnicalError: TechnicalError{Code: CodeTransaction, Message: fmt.Sprintf("operation '%s' failed", step), Err: err},
		Step:           step,
	}
}
