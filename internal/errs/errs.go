// Package errs defines the service-wide error taxonomy. Every error
// that crosses a package boundary carries a stable machine code so the
// HTTP layer and job runner can classify failures without string
// matching.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error category.
type Code string

const (
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	CodeInvalidArg    Code = "INVALID_ARGUMENT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeEmptyInput    Code = "EMPTY_INPUT"
	CodeEmptyResult   Code = "EMPTY_CRAWL_RESULT"
	CodeRemote        Code = "REMOTE_SERVICE_ERROR"
	CodeJobFailed     Code = "CRAWL_JOB_FAILED"
	CodeTimeout       Code = "CRAWL_TIMEOUT"
	CodeParse         Code = "LLM_PARSE_ERROR"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a human message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a coded error around a cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the code from an error chain, defaulting to
// INTERNAL_ERROR for uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps an error code to the response status it should
// produce.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArg, CodeEmptyInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeEmptyResult, CodeJobFailed, CodeParse:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
