package utils

import (
	"fmt"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerHeader formats an Authorization header value for token.
func BearerHeader(token string) string {
	return fmt.Sprintf("%s%s", bearerPrefix, token)
}

// TokenFromBearer strips the Bearer scheme. It returns "" when the header
// does not carry a bearer token.
func TokenFromBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
