package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeForbidden      = "forbidden"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeInternal       = "internal_error"
)
