package models

// AuthStartResponse is returned when starting GitHub device flow
// authentication: the one-time code the user enters at the activation URL.
type AuthStartResponse struct {
	Code   string `json:"code"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// AuthStatusResponse carries the current authentication flow status:
// "none", "pending", "waiting", "success", or "error".
type AuthStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
