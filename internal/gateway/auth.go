package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coursedeck/coursedeck/internal/models"
)

// Login exchanges credentials for a session token. The token comes back at
// the top level of the envelope, not inside data.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, nil)
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", &Error{Message: "login response carried no token"}
	}
	return env.Token, nil
}

// Register creates an account and returns the session token for it.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, nil)
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", &Error{Message: "register response carried no token"}
	}
	return env.Token, nil
}

// SocialLoginURL is the gateway route that starts a provider login. The
// browser is sent there; the gateway redirects back to redirectURI with
// ?token= or ?error= in the query string.
func (c *Client) SocialLoginURL(provider, redirectURI string) string {
	return fmt.Sprintf("%s/api/auth/%s?redirect_uri=%s", c.base.String(), provider, url.QueryEscape(redirectURI))
}
