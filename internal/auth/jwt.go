package auth

import (
	"fmt"
	"time"

	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

func jwtSettings() (string, time.Duration, error) {
	cfg := config.GlobalConfig
	if cfg == nil {
		return "", 0, fmt.Errorf("configuration not initialized")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return "", 0, fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}
	return cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration, nil
}

// GenerateJWT issues a session token for p. The role is copied at issue
// time, so a promotion takes effect on the next login.
func GenerateJWT(p *player.Player) (string, error) {
	secret, expiration, err := jwtSettings()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	now := time.Now()
	claims := Claims{
		PlayerID: p.ID,
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("player_%d", p.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateJWT(tokenString string) (*Claims, error) {
	secret, _, err := jwtSettings()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
