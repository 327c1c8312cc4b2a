package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/internal/domain/repository"
)

type PushTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPushTokenRepository(pool *pgxpool.Pool) *PushTokenRepository {
	return &PushTokenRepository{pool: pool}
}

// Upsert keys on the token; a token moving to another account is reassigned.
func (r *PushTokenRepository) Upsert(ctx context.Context, t *entity.PushToken) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO push_tokens (token, uid, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
		SET uid = EXCLUDED.uid, platform = EXCLUDED.platform, updated_at = now()
		RETURNING created_at, updated_at
	`, t.Token, t.UID, t.Platform)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *PushTokenRepository) Delete(ctx context.Context, uid, token string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM push_tokens WHERE uid = $1 AND token = $2`, uid, token)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PushTokenRepository) ListByUID(ctx context.Context, uid string) ([]entity.PushToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT token, uid, platform, created_at, updated_at
		FROM push_tokens WHERE uid = $1 ORDER BY updated_at DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.PushToken{}
	for rows.Next() {
		var t entity.PushToken
		if err := rows.Scan(&t.Token, &t.UID, &t.Platform, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ repository.PushTokenRepository = (*PushTokenRepository)(nil)
