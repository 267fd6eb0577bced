package player

import (
	"time"
)

// PlayerRole gates the admin routes. Every role plays the game the same way.
type PlayerRole string

const (
	PlayerRoleUser  PlayerRole = "user"
	PlayerRoleAdmin PlayerRole = "admin"
)

// Player is an account. Characters and level progress live in the game
// store under the player's ID, not on this row.
type Player struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url"`
	Role        PlayerRole `json:"role"`
	IsGuest     bool       `json:"is_guest"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r PlayerRole) String() string {
	return string(r)
}

func (r PlayerRole) IsValid() bool {
	return r == PlayerRoleUser || r == PlayerRoleAdmin
}

func (r PlayerRole) IsAdmin() bool {
	return r == PlayerRoleAdmin
}

// ParsePlayerRole maps a stored role to a PlayerRole. Anything unrecognised
// becomes PlayerRoleUser so a bad row never grants admin access.
func ParsePlayerRole(s string) PlayerRole {
	if r := PlayerRole(s); r.IsValid() {
		return r
	}
	return PlayerRoleUser
}
