package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lifesim-server/internal/shared/config"
	"lifesim-server/internal/shared/errors"

	"github.com/google/uuid"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetPlayerCount(ctx context.Context) (int, error) {
	return s.repo.GetPlayerCount(ctx)
}

func (s *Service) GetAllPlayers(ctx context.Context) ([]Player, error) {
	return s.repo.GetAllPlayers(ctx)
}

func (s *Service) GetPlayerByID(ctx context.Context, id int) (*Player, error) {
	player, err := s.repo.GetPlayerByID(ctx, id)
	if err != nil {
		return nil, errors.WrapInternal("failed to get player", err)
	}
	if player == nil {
		return nil, errors.NotFoundf("player %d not found", id)
	}
	return player, nil
}

// CreateGuestPlayer registers an anonymous account so the game can be played
// without an OAuth provider.
func (s *Service) CreateGuestPlayer(ctx context.Context) (*Player, error) {
	logger := s.logger.With("component", "player_service", "operation", "create_guest")

	username := guestUsername(uuid.New())
	player, err := s.repo.CreatePlayer(ctx, username, "", "Guest", nil, PlayerRoleUser, true)
	if err != nil {
		logger.Error("Failed to create guest player", "error", err)
		return nil, errors.WrapInternal("failed to create guest player", err)
	}

	logger.Info("Guest player created", "player_id", player.ID, "username", player.Username)
	return player, nil
}

func guestUsername(id uuid.UUID) string {
	return "guest-" + strings.ReplaceAll(id.String(), "-", "")[:12]
}

func (s *Service) FindOrCreatePlayerByOAuth(ctx context.Context, provider, providerUserID, email, displayName string, avatarURL *string) (*Player, error) {
	logger := s.logger.With(
		"component", "player_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
		"email", email,
	)
	logger.Debug("Finding or creating player by OAuth")

	cfg := config.GlobalConfig
	isAdminEmail := cfg != nil && cfg.Admin.Email != "" && email == cfg.Admin.Email

	player, err := s.repo.FindPlayerByEmail(ctx, email)
	if err != nil {
		logger.Error("Database error checking for player by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if player != nil {
		logger.Info("Found existing player by email", "player_id", player.ID, "role", player.Role)
		if isAdminEmail && !player.Role.IsAdmin() {
			logger.Info("Upgrading existing user to admin role", "player_id", player.ID)
			if err := s.repo.UpdatePlayerRole(ctx, player.ID, PlayerRoleAdmin); err != nil {
				logger.Error("Failed to upgrade user to admin", "error", err)
				return nil, fmt.Errorf("failed to upgrade to admin: %w", err)
			}
			player.Role = PlayerRoleAdmin
		}
		return player, nil
	}

	logger.Info("No existing player found, creating new player with OAuth provider")
	username := generateUsernameFromEmail(email)
	role := PlayerRoleUser

	if isAdminEmail {
		username = cfg.Admin.Username
		displayName = cfg.Admin.DisplayName
		role = PlayerRoleAdmin
		logger.Info("Creating new admin user via OAuth")
	}

	player, err = s.repo.CreatePlayer(ctx, username, email, displayName, avatarURL, role, false)
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	logger.Info("Successfully created new player with OAuth",
		"player_id", player.ID,
		"username", player.Username,
		"role", player.Role,
		"provider", provider,
		"provider_user_id", providerUserID)

	return player, nil
}

func generateUsernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return "player"
}
