package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

const playerColumns = `id, username, COALESCE(email, ''), display_name, avatar_url, role, is_guest, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	logger := slog.With("component", "player_repository", "operation", "init")
	logger.Debug("Initializing player repository")
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*Player, error) {
	var player Player
	var role string
	err := row.Scan(
		&player.ID,
		&player.Username,
		&player.Email,
		&player.DisplayName,
		&player.AvatarURL,
		&role,
		&player.IsGuest,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	player.Role = ParsePlayerRole(role)
	return &player, nil
}

func (r *Repository) GetPlayerCount(ctx context.Context) (int, error) {
	logger := slog.With("component", "player_repository", "operation", "get_count")
	logger.Debug("Getting total player count")

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count)
	if err != nil {
		logger.Error("Failed to get player count", "error", err)
		return 0, fmt.Errorf("failed to get player count: %w", err)
	}

	logger.Debug("Player count retrieved", "count", count)
	return count, nil
}

func (r *Repository) GetAllPlayers(ctx context.Context) ([]Player, error) {
	logger := slog.With("component", "player_repository", "operation", "get_all")
	logger.Debug("Retrieving all players")

	query := `SELECT ` + playerColumns + ` FROM players ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query players", "error", err)
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			logger.Error("Failed to scan player row", "error", err)
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *player)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	logger.Debug("Players retrieved successfully", "count", len(players))
	return players, nil
}

func (r *Repository) CreatePlayer(ctx context.Context, username, email, displayName string, avatarURL *string, role PlayerRole, guest bool) (*Player, error) {
	logger := slog.With(
		"component", "player_repository",
		"operation", "create",
		"username", username,
		"guest", guest,
	)
	logger.Info("Creating new player")

	query := `
		INSERT INTO players (username, email, display_name, avatar_url, role, is_guest)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING ` + playerColumns

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, username, email, displayName, avatarURL, role.String(), guest))
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	logger.Info("Player created successfully", "player_id", player.ID, "username", player.Username)
	return player, nil
}

// FindPlayerByEmail returns nil, nil when no player has the email.
func (r *Repository) FindPlayerByEmail(ctx context.Context, email string) (*Player, error) {
	logger := slog.With(
		"component", "player_repository",
		"operation", "find_by_email",
		"email", email,
	)
	logger.Debug("Finding player by email")

	query := `SELECT ` + playerColumns + ` FROM players WHERE email = $1`

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("No player found with email")
			return nil, nil
		}
		logger.Error("Database error finding player by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	logger.Debug("Found player by email", "player_id", player.ID)
	return player, nil
}

// GetPlayerByID returns nil, nil when the player does not exist.
func (r *Repository) GetPlayerByID(ctx context.Context, id int) (*Player, error) {
	logger := slog.With(
		"component", "player_repository",
		"operation", "get_by_id",
		"player_id", id,
	)
	logger.Debug("Getting player by ID")

	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("No player found with ID")
			return nil, nil
		}
		logger.Error("Database error getting player by ID", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	logger.Debug("Found player by ID", "username", player.Username)
	return player, nil
}

func (r *Repository) UpdatePlayerRole(ctx context.Context, id int, role PlayerRole) error {
	logger := slog.With(
		"component", "player_repository",
		"operation", "update_role",
		"player_id", id,
		"role", role,
	)

	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET role = $1, updated_at = NOW() WHERE id = $2`, role.String(), id)
	if err != nil {
		logger.Error("Failed to update player role", "error", err)
		return fmt.Errorf("failed to update player role: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %d not found", id)
	}

	logger.Info("Player role updated")
	return nil
}
