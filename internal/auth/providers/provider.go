package providers

import (
	"context"
	"slices"

	"golang.org/x/oauth2"
)

// Provider names. Each one is also the path segment of its /auth/{name}
// login and callback routes and the provider column of a linked identity.
const (
	Google  = "google"
	GitHub  = "github"
	Discord = "discord"
)

// Names lists the supported providers in route registration order.
var Names = []string{Google, GitHub, Discord}

// Known reports whether name is one of Names.
func Known(name string) bool {
	return slices.Contains(Names, name)
}

// OAuthUser is the identity a provider reports after login.
type OAuthUser struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// CanSignIn reports whether the identity carries a verified email, which
// account creation and admin promotion both key on.
func (u *OAuthUser) CanSignIn() bool {
	return u.Email != "" && u.EmailVerified
}

type OAuthProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error)
}
