package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Envelope wraps successful API responses
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}
