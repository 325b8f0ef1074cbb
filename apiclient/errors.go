package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError is a single validation failure reported by the server
type FieldError struct {
	Msg      string `json:"msg"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location,omitempty"`
}

// Error is returned for any non-2xx response
type Error struct {
	StatusCode int
	Message    string
	Fields     []FieldError
	RequestID  string
}

func (e *Error) Error() string {
	if msg := e.userMessage(); msg != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Validation reports whether the server rejected the request fields
func (e *Error) Validation() bool {
	return len(e.Fields) > 0
}

func (e *Error) userMessage() string {
	for _, f := range e.Fields {
		if f.Msg != "" {
			return f.Msg
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// UserMessage returns the text shown in a transient notification for err:
// the first validation message, else the server message, else the error
// description.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.userMessage()
	}
	return err.Error()
}
