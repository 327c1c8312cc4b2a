// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/internal/infrastructure/objectstore"
)

type ProfileRepository struct{ mock.Mock }

func (m *ProfileRepository) Ensure(ctx context.Context, uid, phone string) (*entity.UserProfile, error) {
	args := m.Called(ctx, uid, phone)
	p, _ := args.Get(0).(*entity.UserProfile)
	return p, args.Error(1)
}

func (m *ProfileRepository) GetByUID(ctx context.Context, uid string) (*entity.UserProfile, error) {
	args := m.Called(ctx, uid)
	p, _ := args.Get(0).(*entity.UserProfile)
	return p, args.Error(1)
}

func (m *ProfileRepository) Update(ctx context.Context, p *entity.UserProfile) error {
	return m.Called(ctx, p).Error(0)
}

type ProductRepository struct{ mock.Mock }

func (m *ProductRepository) List(ctx context.Context, category string) ([]entity.Product, error) {
	args := m.Called(ctx, category)
	out, _ := args.Get(0).([]entity.Product)
	return out, args.Error(1)
}

func (m *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) Search(ctx context.Context, q string, limit int) ([]entity.Product, error) {
	args := m.Called(ctx, q, limit)
	out, _ := args.Get(0).([]entity.Product)
	return out, args.Error(1)
}

func (m *ProductRepository) Upsert(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

type PushTokenRepository struct{ mock.Mock }

func (m *PushTokenRepository) Upsert(ctx context.Context, t *entity.PushToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *PushTokenRepository) Delete(ctx context.Context, uid, token string) error {
	return m.Called(ctx, uid, token).Error(0)
}

func (m *PushTokenRepository) ListByUID(ctx context.Context, uid string) ([]entity.PushToken, error) {
	args := m.Called(ctx, uid)
	out, _ := args.Get(0).([]entity.PushToken)
	return out, args.Error(1)
}

type CartStore struct{ mock.Mock }

func (m *CartStore) Get(ctx context.Context, uid string) (*entity.Cart, error) {
	args := m.Called(ctx, uid)
	c, _ := args.Get(0).(*entity.Cart)
	return c, args.Error(1)
}

func (m *CartStore) Save(ctx context.Context, c *entity.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CartStore) Delete(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

// ObjectStore records the uploaded body so tests can inspect it.
type ObjectStore struct {
	mock.Mock
	Body []byte
}

func (m *ObjectStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.Body = b
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

var (
	_ repository.ProfileRepository   = (*ProfileRepository)(nil)
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.PushTokenRepository = (*PushTokenRepository)(nil)
	_ repository.CartStore           = (*CartStore)(nil)
	_ objectstore.Store              = (*ObjectStore)(nil)
)
