package restclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericTransportMessage is shown when the backend could not be reached.
const GenericTransportMessage = "Network error: unable to reach the server"

// ErrMalformedResponse is returned when a response is missing expected fields.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a failure reported by the backend, either through an HTTP error
// status or an envelope with success:false.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError reports a 5xx status, which read paths treat like an outage.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func (e *APIError) UserMessage() string { return strings.TrimSpace(e.Message) }

func (e *APIError) Unavailable() bool { return e.IsServerError() }

// TransportError means no usable response arrived: dial failure, timeout,
// unreadable body or an open circuit.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) UserMessage() string { return GenericTransportMessage }

func (e *TransportError) Unavailable() bool { return true }

// AsAPIError returns the APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Recoverable reports whether a read path may substitute local data for err:
// transport failures, 5xx responses and malformed bodies. 4xx answers are real.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}
	if IsTransport(err) || errors.Is(err, ErrMalformedResponse) {
		return true
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.IsServerError()
	}
	return false
}

// MessageOf extracts the best human-readable message from err: the server's
// message when one was sent, otherwise the generic transport message.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	if IsTransport(err) {
		return GenericTransportMessage
	}
	if errors.Is(err, ErrMalformedResponse) {
		return "Unexpected response from the server"
	}
	return err.Error()
}

// parseError builds an APIError from an error response body.
func parseError(statusCode int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &APIError{StatusCode: statusCode, Code: env.code(), Message: env.Message}
	}

	// Some endpoints answer {"error": "..."}.
	var simple struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &simple); err == nil && simple.Error != "" {
		return &APIError{StatusCode: statusCode, Message: simple.Error}
	}

	return &APIError{
		StatusCode: statusCode,
		Code:       http.StatusText(statusCode),
		Message:    strings.TrimSpace(string(body)),
	}
}
