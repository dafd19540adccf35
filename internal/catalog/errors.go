package catalog

import (
	"errors"
	"fmt"
)

// ErrorType defines the type of catalog error.
type ErrorType string

const (
	ErrorValidation     ErrorType = "validation_failed"
	ErrorDuplicateTopic ErrorType = "duplicate_topic"
	ErrorTopicNotFound  ErrorType = "topic_not_found"
	ErrorStorage        ErrorType = "storage_failed"
)

// Error represents structured errors from the topic catalog.
type Error struct {
	Type    ErrorType
	Topic   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsDuplicate reports whether err is a duplicate-topic failure.
func IsDuplicate(err error) bool {
	return hasType(err, ErrorDuplicateTopic)
}

// IsNotFound reports whether err is a topic-not-found failure.
func IsNotFound(err error) bool {
	return hasType(err, ErrorTopicNotFound)
}

// IsValidation reports whether err is a topic validation failure.
func IsValidation(err error) bool {
	return hasType(err, ErrorValidation)
}

// IsStorage reports whether err is a storage failure on the publish path.
func IsStorage(err error) bool {
	return hasType(err, ErrorStorage)
}

func hasType(err error, t ErrorType) bool {
	var cErr *Error
	return errors.As(err, &cErr) && cErr.Type == t
}

func duplicateError(name string) *Error {
	return &Error{
		Type:    ErrorDuplicateTopic,
		Topic:   name,
		Message: fmt.Sprintf("topic already registered: %s", name),
	}
}

func notFoundError(name string) *Error {
	return &Error{
		Type:    ErrorTopicNotFound,
		Topic:   name,
		Message: fmt.Sprintf("topic not found: %s", name),
	}
}
