package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// APIError is a non-2xx response from the service. The server writes it with
// WriteError and the client decodes it from the body.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is the human readable reason, safe to display
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// WriteError writes e as a JSON response. Bearer challenges are the
// caller's job since not every 401 concerns a token.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, e.StatusCode, MessageResponse{Message: e.Message})
}

// NewAPIError creates an APIError with the given status and message.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

var (
	// ErrInvalidBody is returned when a request body is not valid JSON for
	// the endpoint.
	ErrInvalidBody = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request body",
	}

	// ErrMissingToken is returned when no bearer token was sent.
	ErrMissingToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Unauthorized",
	}

	// ErrServerError is returned for failures the service does not describe.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
	}
)

// parseErrorResponse turns a failure body into *APIError. Older deployments
// answered some failures with a bare string rather than JSON, which is
// accepted too.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: text}
}
