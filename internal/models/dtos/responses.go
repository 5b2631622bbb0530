package dtos

// APIResponse is the standard envelope for every JSON endpoint
type APIResponse struct {
	Status       string      `json:"status"`
	Message      string      `json:"message"`
	ResponseTime string      `json:"response_time"`
	Data         interface{} `json:"data,omitempty"`
}

// InviteClaimRequest asks for a one-time invite on behalf of an actor
type InviteClaimRequest struct {
	UserID string `json:"user_id"`
}

// InviteClaimResponse reports eligibility and the issued invite URL
type InviteClaimResponse struct {
	Eligible  bool   `json:"eligible"`
	Reason    string `json:"reason,omitempty"`
	InviteURL string `json:"invite_url,omitempty"`
}

// RegistryCommandView describes one registered command handler
type RegistryCommandView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Loaded      bool   `json:"loaded"`
}
