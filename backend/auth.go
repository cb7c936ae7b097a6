package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/utils"
)

var tokenPaths = []string{"token", "access_token", "data.token", "data.access_token"}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	resp, err := c.call(ctx, "login", http.MethodPost, "/auth/login", "", withBody(creds))
	if err != nil {
		return "", err
	}
	return tokenFromResponse("login", resp.Header(), resp.Body())
}

// Register creates an account and returns its first bearer token.
func (c *Client) Register(ctx context.Context, reg models.Registration) (string, error) {
	resp, err := c.call(ctx, "register", http.MethodPost, "/auth/register", "", withBody(reg))
	if err != nil {
		return "", err
	}
	return tokenFromResponse("register", resp.Header(), resp.Body())
}

// WhoAmI resolves the user owning token.
func (c *Client) WhoAmI(ctx context.Context, token string) (*models.User, error) {
	resp, err := c.call(ctx, "whoami", http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return nil, err
	}

	user := parseUser(resp.Body())
	if user == nil {
		return nil, fmt.Errorf("whoami: %w: response carried no user", ErrBackend)
	}
	return user, nil
}

// tokenFromResponse prefers a token in the body and falls back to a bearer
// Authorization response header.
func tokenFromResponse(operation string, header http.Header, body []byte) (string, error) {
	for _, path := range tokenPaths {
		if token := gjson.GetBytes(body, path).String(); token != "" {
			return token, nil
		}
	}
	if token := utils.TokenFromBearer(header.Get("Authorization")); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%s: %w: response carried no token", operation, ErrBackend)
}

// parseUser accepts the user at the document root or nested under "user"
// or "data".
func parseUser(body []byte) *models.User {
	doc := gjson.ParseBytes(body)
	for _, key := range []string{"user", "data.user", "data"} {
		if nested := doc.Get(key); nested.IsObject() {
			doc = nested
			break
		}
	}

	user := &models.User{
		ID:             first(doc, "id", "_id", "user_id"),
		Name:           first(doc, "name", "full_name", "fullName"),
		Email:          first(doc, "email"),
		Role:           enums.Role(first(doc, "role")),
		ProfilePicture: first(doc, "profile_picture", "profilePicture", "avatar"),
	}
	if user.ID == "" && user.Email == "" {
		return nil
	}
	return user
}

func first(doc gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := doc.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
