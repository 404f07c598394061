package handler

// Request-level error messages
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgMissingUserID      = "Missing user identity"
)
