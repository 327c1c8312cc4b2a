package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `uid, phone_number, display_name, age, photo_url, profile_complete, created_at, updated_at`

func scanProfile(row pgx.Row) (*entity.UserProfile, error) {
	p := &entity.UserProfile{}
	var age *int32
	if err := row.Scan(&p.UID, &p.PhoneNumber, &p.DisplayName, &age, &p.PhotoURL,
		&p.ProfileComplete, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if age != nil {
		p.Age = int(*age)
	}
	return p, nil
}

// Ensure is idempotent: an existing row is returned untouched apart from a
// phone number that was previously unknown.
func (r *ProfileRepository) Ensure(ctx context.Context, uid, phone string) (*entity.UserProfile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (uid, phone_number)
		VALUES ($1, $2)
		ON CONFLICT (uid) DO UPDATE
		SET phone_number = CASE WHEN user_profiles.phone_number = '' THEN EXCLUDED.phone_number ELSE user_profiles.phone_number END
		RETURNING `+profileColumns, uid, phone)
	return scanProfile(row)
}

func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*entity.UserProfile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE uid = $1`, uid)
	return scanProfile(row)
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.UserProfile) error {
	p.UpdatedAt = time.Now().UTC()
	var age *int32
	if p.Age > 0 {
		a := int32(p.Age)
		age = &a
	}

	res, err := r.pool.Exec(ctx, `
		UPDATE user_profiles
		SET display_name = $1, age = $2, photo_url = $3, profile_complete = $4, updated_at = $5
		WHERE uid = $6
	`, p.DisplayName, age, p.PhotoURL, p.ProfileComplete, p.UpdatedAt, p.UID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
