package errors

import "net/http"

type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// InvalidArgument flags bad input to an operation, e.g. an empty stakes
// string on start or a non-finite pot size.
func InvalidArgument(message string) *APIError {
	return New(http.StatusBadRequest, "invalid_argument", message)
}

// InvalidState flags an operation attempted from a state machine state that
// forbids it, e.g. pausing when no live session exists.
func InvalidState(message string) *APIError {
	return New(http.StatusConflict, "invalid_state", message)
}

// Analysis flags a failed external-model call or a schema-non-conforming
// payload. Recoverable: the caller keeps the prompt and may resubmit.
func Analysis(message string) *APIError {
	if message == "" {
		message = "analysis failed"
	}
	return New(http.StatusBadGateway, "analysis_error", message)
}

// Storage flags a persistence failure that prevented serving the request at
// all. Write failures during a mutation are NOT reported this way; those
// degrade to a warning while the in-memory state stays authoritative.
func Storage(message string) *APIError {
	if message == "" {
		message = "storage failure"
	}
	return New(http.StatusInternalServerError, "storage_error", message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}
