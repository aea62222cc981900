package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"mortgage_deals/pkg/errcodes"
)

// AppError is a domain error carrying a failure code.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// SourceAcquisitionError means an adapter could not retrieve candidates
// (network, navigation, selector not found, timeout).
type SourceAcquisitionError struct {
	Source string
	Cause  error
}

func NewSourceAcquisitionError(source string, cause error) *SourceAcquisitionError {
	return &SourceAcquisitionError{Source: source, Cause: cause}
}

func (e *SourceAcquisitionError) Error() string {
	return fmt.Sprintf("source %q: acquisition failed: %v", e.Source, e.Cause)
}

func (e *SourceAcquisitionError) Unwrap() error {
	return e.Cause
}

func (e *SourceAcquisitionError) Code() failure.ErrorCode {
	return errcodes.SourceUnavailable
}

// PersistenceError means a single record failed to write.
type PersistenceError struct {
	Key   string
	Cause error
}

func NewPersistenceError(key string, cause error) *PersistenceError {
	return &PersistenceError{Key: key, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func (e *PersistenceError) Code() failure.ErrorCode {
	return errcodes.DealPersistenceFailed
}

// QueryError means the repository read itself failed.
type QueryError struct {
	Cause error
}

func NewQueryError(cause error) *QueryError {
	return &QueryError{Cause: cause}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query deals: %v", e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

func (e *QueryError) Code() failure.ErrorCode {
	return errcodes.DealQueryFailed
}
