package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"guard-collective/gatekeeper/internal/constants"
)

// ProviderError is the typed failure every provider returns instead of raw
// transport errors. Kind drives the caller's abort-vs-continue decision.
type ProviderError struct {
	Kind    constants.ErrorKind
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError unwraps err into a *ProviderError when possible
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsNotFound reports whether err is a distinct upstream not-found
func IsNotFound(err error) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.Kind == constants.ErrKindNotFound
}

// wrapTransportError classifies a failed round trip as timeout or network
func wrapTransportError(err error, endpoint string) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{
			Kind:    constants.ErrKindTimeout,
			Code:    constants.ErrCodeTimeout,
			Message: fmt.Sprintf("request to %s exceeded its time bound", endpoint),
			Err:     err,
		}
	}
	return &ProviderError{
		Kind:    constants.ErrKindServiceError,
		Code:    constants.ErrCodeNetworkError,
		Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
		Details: endpoint,
		Err:     err,
	}
}

// buildHTTPError creates the appropriate error for a non-2xx status
func buildHTTPError(statusCode int, endpoint string, body string) *ProviderError {
	switch statusCode {
	case http.StatusNotFound:
		return &ProviderError{
			Kind:    constants.ErrKindNotFound,
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("resource not found: %s", endpoint),
			Details: body,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Kind:    constants.ErrKindServiceError,
			Code:    constants.ErrCodeInvalidCredentials,
			Message: fmt.Sprintf("authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Kind:    constants.ErrKindServiceError,
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	default:
		return &ProviderError{
			Kind:    constants.ErrKindServiceError,
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: body,
		}
	}
}

// decodeError wraps a malformed upstream payload as a ServiceError
func decodeError(err error, endpoint string, body string) *ProviderError {
	return &ProviderError{
		Kind:    constants.ErrKindServiceError,
		Code:    constants.ErrCodeMalformedPayload,
		Message: fmt.Sprintf("failed to decode response from %s", endpoint),
		Details: body,
		Err:     err,
	}
}
