package auth

import (
	"context"
	"log/slog"

	"lifesim-server/internal/auth/providers"
	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/errors"
)

type Service struct {
	repo    *Repository
	players *player.Service
	logger  *slog.Logger
}

func NewService(repo *Repository, players *player.Service, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service")

	return &Service{
		repo:    repo,
		players: players,
		logger:  logger,
	}
}

// LoginWithProvider returns the player linked to an OAuth identity, creating
// the player and the link on first login.
func (s *Service) LoginWithProvider(ctx context.Context, provider string, user *providers.OAuthUser) (*player.Player, error) {
	logger := s.logger.With(
		"component", "auth_service",
		"operation", "login_with_provider",
		"provider", provider,
		"provider_user_id", user.ID,
	)

	if !providers.Known(provider) {
		return nil, errors.Validationf("unknown login provider %q", provider)
	}
	if !user.CanSignIn() {
		return nil, errors.Unauthorized("a verified email is required to sign in")
	}

	link, err := s.repo.FindProviderLink(ctx, provider, user.ID)
	switch {
	case err == nil:
		logger.Debug("Found existing player via OAuth provider", "player_id", link.PlayerID)
		return s.players.GetPlayerByID(ctx, link.PlayerID)
	case errors.GetType(err) != errors.ErrorTypeNotFound:
		logger.Error("Database error checking provider link", "error", err)
		return nil, err
	}

	var avatar *string
	if user.AvatarURL != "" {
		avatar = &user.AvatarURL
	}

	p, err := s.players.FindOrCreatePlayerByOAuth(ctx, provider, user.ID, user.Email, user.Name, avatar)
	if err != nil {
		return nil, errors.WrapInternal("failed to create player", err)
	}

	if err := s.repo.LinkProvider(ctx, newProviderLink(p.ID, provider, user)); err != nil {
		logger.Error("Failed to link OAuth provider", "player_id", p.ID, "error", err)
		return nil, err
	}

	logger.Info("OAuth provider linked to player", "player_id", p.ID)
	return p, nil
}
