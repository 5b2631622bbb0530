package constants

// ErrorKind classifies failures from external collaborators and caller input.
type ErrorKind string

const (
	ErrKindNotFound         ErrorKind = "NOT_FOUND"
	ErrKindServiceError     ErrorKind = "SERVICE_ERROR"
	ErrKindTimeout          ErrorKind = "TIMEOUT"
	ErrKindPermissionDenied ErrorKind = "PERMISSION_DENIED"
	ErrKindValidation       ErrorKind = "VALIDATION_ERROR"
)

func (k ErrorKind) String() string { return string(k) }

// Provider error codes
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeNetworkError       = "NETWORK_ERROR"
	ErrCodeNotFound           = "RESOURCE_NOT_FOUND"
	ErrCodeTimeout            = "REQUEST_TIMEOUT"
	ErrCodeMalformedPayload   = "MALFORMED_PAYLOAD"
	ErrCodeInvalidDataFormat  = "INVALID_DATA_FORMAT"
	ErrCodeInventoryPrivate   = "INVENTORY_PRIVATE"
)

// Human-readable messages corresponding to provider error codes
var ProviderErrorMessages = map[string]string{
	ErrCodeInvalidCredentials: "The upstream API credentials are invalid or have been revoked",
	ErrCodeRateLimited:        "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:       "Unable to reach the upstream service",
	ErrCodeNotFound:           "The requested resource was not found upstream",
	ErrCodeTimeout:            "The upstream request exceeded its time bound",
	ErrCodeMalformedPayload:   "The upstream response could not be decoded",
	ErrCodeInvalidDataFormat:  "The request data format is invalid",
	ErrCodeInventoryPrivate:   "The account's inventory is not publicly visible",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}

// User-visible denial and status strings
const (
	MsgServerNotAllowed  = "This command is not available in this server."
	MsgMissingPermission = "You don't have permission to use this command."
	MsgInvalidDiscordID  = "Invalid Discord ID provided."
	MsgGenericFailure    = "An error has occurred, please try again."
	MsgCheckCompleted    = "Check completed and logged."
	MsgCommandUnloaded   = "This command is currently disabled."
)
