package auth

import (
	"context"
	"database/sql"
	stderrors "errors"

	"lifesim-server/internal/shared/database"
	"lifesim-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// LinkProvider stores link. Linking an identity that is already stored is a no-op.
func (r *Repository) LinkProvider(ctx context.Context, link ProviderLink) error {
	query := `
		INSERT INTO player_auth_providers (player_id, provider, provider_user_id, provider_email)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (provider, provider_user_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, link.PlayerID, link.Provider, link.ProviderUserID, link.ProviderEmail)
	if err != nil {
		return errors.WrapInternal("failed to link login provider", err)
	}

	return nil
}

// FindProviderLink returns the link for an external identity, or a not-found
// error when that identity has never signed in.
func (r *Repository) FindProviderLink(ctx context.Context, provider, providerUserID string) (*ProviderLink, error) {
	query := `
		SELECT player_id, provider, provider_user_id, COALESCE(provider_email, '')
		FROM player_auth_providers
		WHERE provider = $1 AND provider_user_id = $2
	`

	var link ProviderLink
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).
		Scan(&link.PlayerID, &link.Provider, &link.ProviderUserID, &link.ProviderEmail)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("no player linked to %s identity", provider)
		}
		return nil, errors.WrapInternal("failed to find provider link", err)
	}

	return &link, nil
}
