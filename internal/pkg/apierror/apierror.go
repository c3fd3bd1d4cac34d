// internal/pkg/apierror/apierror.go

// Package apierror carries failed storefront API calls as typed errors and
// reduces them to a single display message for the UI layer.
//
// The backend reports failures in several shapes: structured validation
// errors on 422 responses, flat message/error fields, and Laravel-style
// top-level arrays for cart and stock problems. Message walks these shapes
// in a fixed precedence order so every failure produces exactly one
// human-readable string.
package apierror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Fixed display messages for failures that carry no usable body.
const (
	GenericMessage  = "An unexpected error occurred"
	FallbackMessage = "An unexpected error occurred. Please try again."
	NetworkMessage  = "Network error. Please check your connection and try again."
	TimeoutMessage  = "Request timeout. Please try again."
)

// Error represents a failed storefront API call. StatusCode is zero when
// the request never produced a response (transport failure).
type Error struct {
	StatusCode int
	Body       Body
	cause      error
}

// Body holds the decoded error response payload. Unknown fields are
// dropped; the known array fields mirror the backend's cart and stock
// failure shapes.
type Body struct {
	Message   string      `json:"message"`
	ErrorText string      `json:"error"`
	Cart      []string    `json:"cart"`
	Stock     []string    `json:"stock"`
	Quantity  []string    `json:"quantity"`
	ProductID []string    `json:"product_id"`
	Errors    FieldErrors `json:"errors"`
}

// FieldError holds the validation messages for one request field.
// Messages is nil when the backend sent a non-array value for the field.
type FieldError struct {
	Field    string
	Messages []string
}

// FieldErrors is the validation error mapping with JSON object key order
// preserved, so "first field, first message" is deterministic.
type FieldErrors []FieldError

// UnmarshalJSON decodes the errors object via the token stream to keep
// the field order the backend sent.
func (fe *FieldErrors) UnmarshalJSON(data []byte) error {
	*fe = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// Not an object; treat as absent rather than failing the
		// whole body decode.
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token in errors object: %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		entry := FieldError{Field: key}
		var messages []string
		if err := json.Unmarshal(raw, &messages); err == nil {
			entry.Messages = messages
		}
		*fe = append(*fe, entry)
	}

	return nil
}

// Get returns the messages recorded for a field, or nil
func (fe FieldErrors) Get(field string) []string {
	for _, entry := range fe {
		if entry.Field == field {
			return entry.Messages
		}
	}
	return nil
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode == 0 {
		if e.cause != nil {
			return fmt.Sprintf("api request failed: %v", e.cause)
		}
		return "api request failed"
	}
	if e.Body.Message != "" {
		return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body.Message)
	}
	return fmt.Sprintf("api request failed with status %d", e.StatusCode)
}

// Unwrap returns the underlying transport error, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// FromResponse builds an Error from a non-2xx response body. A body that
// is not valid JSON is tolerated; the resulting error then carries only
// the status code.
func FromResponse(statusCode int, body []byte) *Error {
	apiErr := &Error{StatusCode: statusCode}
	if len(body) > 0 {
		// Best effort: a non-JSON body still yields a usable error.
		_ = json.Unmarshal(body, &apiErr.Body)
	}
	return apiErr
}

// FromTransport wraps a transport-level failure (no response received)
func FromTransport(err error) *Error {
	return &Error{cause: err}
}

// Message reduces any failed-call error to a single display string.
// Precedence, first match wins:
//  1. nil input yields the generic message
//  2. 422 with a validation mapping: first message of the first field
//  3. known top-level array fields in order: cart, stock, quantity, product_id
//  4. flat message field, then flat error field
//  5. transport classification: timeout, then network
//  6. the error's own text, then the generic fallback
func Message(err error) string {
	if err == nil {
		return GenericMessage
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg, ok := bodyMessage(apiErr); ok {
			return msg
		}
	}

	// Transport failures: the http client wraps everything in *url.Error
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return TimeoutMessage
		}
		return NetworkMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// bodyMessage walks the decoded response body in precedence order
func bodyMessage(apiErr *Error) (string, bool) {
	body := apiErr.Body

	// Validation failure: first message of the first field, in the
	// order the backend sent the fields.
	if apiErr.StatusCode == 422 && len(body.Errors) > 0 {
		if first := body.Errors[0]; len(first.Messages) > 0 {
			return first.Messages[0], true
		}
	}

	// Top-level array fields, fixed priority
	for _, field := range [][]string{body.Cart, body.Stock, body.Quantity, body.ProductID} {
		if len(field) > 0 {
			return field[0], true
		}
	}

	if body.Message != "" {
		return body.Message, true
	}
	if body.ErrorText != "" {
		return body.ErrorText, true
	}

	return "", false
}

// ValidationErrors extracts the full validation mapping from a failed
// call, for form-level display. Returns an empty mapping when the error
// carries none.
func ValidationErrors(err error) FieldErrors {
	var apiErr *Error
	if errors.As(err, &apiErr) && len(apiErr.Body.Errors) > 0 {
		return apiErr.Body.Errors
	}
	return FieldErrors{}
}
