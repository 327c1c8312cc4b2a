package repository

import (
	"context"
	"errors"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
)

var ErrNotFound = errors.New("not found")

// ProfileRepository defines the storage operations for user profiles.
type ProfileRepository interface {
	// Ensure inserts a profile for uid if none exists and returns the stored row.
	Ensure(ctx context.Context, uid, phone string) (*entity.UserProfile, error)
	GetByUID(ctx context.Context, uid string) (*entity.UserProfile, error)
	Update(ctx context.Context, p *entity.UserProfile) error
}

type ProductRepository interface {
	List(ctx context.Context, category string) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Search(ctx context.Context, q string, limit int) ([]entity.Product, error)
	Upsert(ctx context.Context, p *entity.Product) error
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, t *entity.PushToken) error
	Delete(ctx context.Context, uid, token string) error
	ListByUID(ctx context.Context, uid string) ([]entity.PushToken, error)
}

// CartStore persists one cart per user.
type CartStore interface {
	Get(ctx context.Context, uid string) (*entity.Cart, error)
	Save(ctx context.Context, c *entity.Cart) error
	Delete(ctx context.Context, uid string) error
}
