package middleware

const (
	SessionHeader     = "Session"
	RequestSessionKey = "requestSession"
	SessionIssuerKey  = "sessionIssuer"
	TokenKey          = "requestToken"
	RetryAfter        = "Retry-After"
)
