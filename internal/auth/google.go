package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var ErrGoogleDisabled = errors.New("google sign-in is not configured")

// GoogleAuthenticator implements Google OAuth sign-in with automatic
// account provisioning on first login.
type GoogleAuthenticator struct {
	config *oauth2.Config
	users  ledger.UserStore
}

// NewGoogleAuthenticator creates a Google OAuth authenticator. Returns nil
// when the client credentials are not configured.
func NewGoogleAuthenticator(clientID, clientSecret, redirectURL string, users ledger.UserStore) *GoogleAuthenticator {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GoogleAuthenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{oauthapi.UserinfoEmailScope, oauthapi.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		users: users,
	}
}

// AuthURL builds the consent page URL for the given anti-CSRF state.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the Google user profile and
// returns the matching local account, creating it on first sign-in.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*core.User, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	svc, err := oauthapi.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("google profile has no email")
	}

	user, err := g.users.GetUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user = &core.User{
		Email:      info.Email,
		Name:       info.Name,
		Profession: "other",
	}
	if err := g.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	return user, nil
}
