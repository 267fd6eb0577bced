package auth

import (
	"lifesim-server/internal/auth/providers"
	"lifesim-server/internal/player"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload. Game routes key saves on PlayerID;
// only the admin middleware reads Role.
type Claims struct {
	PlayerID int               `json:"player_id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     player.PlayerRole `json:"role"`
	jwt.RegisteredClaims
}

// ProviderLink ties an external login identity to a player account. A player
// may hold one link per provider; guests hold none.
type ProviderLink struct {
	PlayerID       int
	Provider       string
	ProviderUserID string
	ProviderEmail  string
}

func newProviderLink(playerID int, provider string, user *providers.OAuthUser) ProviderLink {
	return ProviderLink{
		PlayerID:       playerID,
		Provider:       provider,
		ProviderUserID: user.ID,
		ProviderEmail:  user.Email,
	}
}
