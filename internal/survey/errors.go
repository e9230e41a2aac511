package survey

import (
	"errors"
	"fmt"
)

// OpError represents a failure of an ingest or retrieve operation.
//
// Operation errors include:
//   - Payload parse: malformed ingest body
//   - Store access: the underlying row store failed a read or write
//   - Unknown action: retrieve called with an unrecognized action value
//
// All are caught at the operation boundary and converted to a JSON status
// payload; none propagate as uncaught faults.
type OpError struct {
	// Code identifies the error category.
	Code OpErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// OpErrorCode categorizes operation errors.
type OpErrorCode string

const (
	// ErrCodePayloadParse indicates a malformed ingest body.
	ErrCodePayloadParse OpErrorCode = "PAYLOAD_PARSE"

	// ErrCodeStoreAccess indicates a row store read/write failure.
	ErrCodeStoreAccess OpErrorCode = "STORE_ACCESS"

	// ErrCodeUnknownAction indicates an unrecognized retrieve action.
	ErrCodeUnknownAction OpErrorCode = "UNKNOWN_ACTION"

	// ErrCodeRowMismatch indicates a payload whose values row is wider
	// than the table's header row.
	ErrCodeRowMismatch OpErrorCode = "ROW_MISMATCH"
)

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// IsUnknownAction returns true if the error is an unknown-action error.
// Uses errors.As to handle wrapped errors.
func IsUnknownAction(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == ErrCodeUnknownAction
}

// IsPayloadParse returns true if the error is a payload parse error.
func IsPayloadParse(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == ErrCodePayloadParse
}

// newOpError creates an OpError with the given code and message.
func newOpError(code OpErrorCode, message string) *OpError {
	return &OpError{Code: code, Message: message}
}

// wrapOpError wraps an underlying error with a code and message.
func wrapOpError(code OpErrorCode, message string, err error) *OpError {
	return &OpError{Code: code, Message: message, Err: err}
}
