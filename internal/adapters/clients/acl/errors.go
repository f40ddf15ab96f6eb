package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-manager/internal/adapters/clients"
	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// ErrorResponse is an upstream error body. Both {"error":{...}} and flat
// {"code","message"} shapes are accepted.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetCode returns the nested code, falling back to the flat one.
func (e *ErrorResponse) GetCode() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}

	return e.Code
}

// GetMessage returns the nested message, falling back to the flat one.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes an error body. It returns nil when the body is
// missing, malformed or carries neither a code nor a message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var resp ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil
	}

	if resp.GetCode() == "" && resp.GetMessage() == "" {
		return nil
	}

	return &resp
}

// MapHTTPError converts a failed upstream call into a domain error.
// clientErr takes precedence over resp; a 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, service, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, service, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(service, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	message := fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)

	var details map[string]string
	if parsed := ParseErrorResponse(resp.Body); parsed != nil {
		if parsed.GetMessage() != "" {
			message = parsed.GetMessage()
		}

		details = parsed.Error.Details
	}

	switch status := resp.StatusCode; {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(service, entityID)
	case status == http.StatusConflict:
		return domain.NewConflictError(service, message)
	case status == http.StatusUnauthorized:
		return domain.NewForbiddenError(operation, "authentication required")
	case status == http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)
	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(service, "rate limit exceeded")
	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(service, message)
	default:
		for field, msg := range details {
			return domain.NewValidationError(field, msg)
		}

		return domain.NewValidationError("", message)
	}
}

func mapClientError(err error, service, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(service, "max retries exceeded during "+operation)
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed: %v", operation, err))
	}
}
