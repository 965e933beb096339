package dto

// ErrorResponse is the JSON error envelope returned by all handlers
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
