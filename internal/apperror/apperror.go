// Package apperror defines the closed set of failure kinds the cart API
// reports and how each one maps onto HTTP.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure kind. It is sent to clients as error.code.
type Code string

const (
	CodeNotAuthenticated       Code = "NOT_AUTHENTICATED"
	CodeNotFound               Code = "NOT_FOUND"
	CodeInvalidInput           Code = "INVALID_INPUT"
	CodePersistenceUnavailable Code = "PERSISTENCE_UNAVAILABLE"
	CodeInternal               Code = "INTERNAL"
)

// Metadata is the HTTP status and fallback message for a Code.
type Metadata struct {
	HTTPStatus    int
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeNotAuthenticated: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeInvalidInput: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid input",
	},
	CodePersistenceUnavailable: {
		HTTPStatus:    http.StatusServiceUnavailable,
		PublicMessage: "storage unavailable",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
	},
}

// MetadataFor returns the HTTP mapping for code, falling back to internal.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a failure with a Code and a client-facing message. The cause, if
// any, is kept for logs and errors.Is but never sent to clients.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap creates an Error around err. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Code returns the failure kind. A nil Error reports CodeInternal.
func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

// Message returns the client-facing message.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the first *Error in err's chain.
func As(err error) *Error {
	var target *Error
	if errors.As(err, &target) {
		return target
	}
	return nil
}

// CodeOf returns the code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if te := As(err); te != nil {
		return te.Code()
	}
	return CodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
