package errors

// Client-facing messages that are not tied to a single validation rule.
const (
	MsgInternal        = "Internal server error"
	MsgRouteNotFound   = "Route not found"
	MsgInvalidBody     = "invalid request body"
	MsgBodyTooLarge    = "request body too large"
	MsgNoToken         = "No token provided"
	MsgInvalidToken    = "Invalid token"
	MsgTooManyRequests = "Too many requests"
	MsgUnavailable     = "Database unavailable"
)

// ErrorResponse is the only error body the API returns.
type ErrorResponse struct {
	Error string `json:"error"`
}
