package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

// GetByID returns the key with the given public id
func (r *KeysRepo) GetByID(ctx context.Context, id string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.GetAPIKeyByID), id).StructScan(&keyRes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch api key: %w", err)
	}

	return &keyRes, nil
}

func (r *KeysRepo) Insert(ctx context.Context, key *entities.ApiKey) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(constants.InsertAPIKey),
		key.ID,
		key.SecretHash,
		key.Description,
		key.Status,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert api key: %w", translateError(err))
	}

	return nil
}
