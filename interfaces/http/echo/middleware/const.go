package middleware

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "requestID"
)
