package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeValidation             = "validation_error"
	ErrorCodeUnauthorized           = "unauthorized"
	ErrorCodeAccessDenied           = "access_denied"
	ErrorCodeNotFound               = "not_found"
	ErrorCodeAlreadyExists          = "already_exists"
	ErrorCodeDuplicateEmail         = "duplicate_email"
	ErrorCodeInvalidCredentials     = "invalid_credentials"
	ErrorCodePasswordChangeRequired = "password_change_required"
	ErrorCodeRateLimitExceeded      = "rate_limit_exceeded"
	ErrorCodeServerError            = "server_error"
	ErrorCodeServiceUnavailable     = "service_unavailable"
)

// APIError is a non-2xx response decoded by the client.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// Details is set for validation errors.
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// Is matches another *APIError by Code, so callers can write
// errors.Is(err, &APIError{Code: ErrorCodeNotFound}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// parseErrorResponse turns an error body into an *APIError. Bodies that
// match neither error shape become a generic error for the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
			Details:     valErr.Details,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
