// Package apperr classifies handler failures so every transport maps them to
// the same status codes and response bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies which side of a call failed.
type Kind int

const (
	// KindInternal is anything not otherwise classified.
	KindInternal Kind = iota
	// KindValidation means the caller sent missing or malformed input.
	KindValidation
	// KindUpstream means the object store or URL signer failed.
	KindUpstream
	// KindStoreWrite means the metadata store rejected a write.
	KindStoreWrite
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindStoreWrite:
		return "store_write"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to callers; Err keeps
// the underlying cause for logs and the opaque details field.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports bad input, naming the offending fields when known.
func Validation(op, message string, err error, fields ...string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Fields: fields, Err: err}
}

// Upstream reports a failed object store or signing call.
func Upstream(op, message string, err error) error {
	return &Error{Kind: KindUpstream, Op: op, Message: message, Err: err}
}

// StoreWrite reports a rejected metadata write.
func StoreWrite(op, message string, err error) error {
	return &Error{Kind: KindStoreWrite, Op: op, Message: message, Err: err}
}

// KindOf returns the classification of err, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the caller-facing message of err, or fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Detail returns the underlying cause's text for the response details field.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Fields returns the offending field names attached to a validation error.
func Fields(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
