package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotInCart   = errors.New("item not in cart")
)

// CartView is a cart with its derived totals.
type CartView struct {
	*entity.Cart
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

func viewOf(c *entity.Cart) *CartView {
	return &CartView{Cart: c, Total: c.Total(), Count: c.Count()}
}

type CartService struct {
	Store    repo.CartStore
	Products repo.ProductRepository
	Logger   *logrus.Logger
}

func NewCartService(store repo.CartStore, products repo.ProductRepository, logger *logrus.Logger) *CartService {
	return &CartService{Store: store, Products: products, Logger: logger}
}

func (s *CartService) Get(ctx context.Context, uid string) (*CartView, error) {
	c, err := s.Store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return viewOf(c), nil
}

// Add snapshots the current catalog entry into the cart line.
func (s *CartService) Add(ctx context.Context, uid, productID string, qty int) (*CartView, error) {
	if qty < 1 {
		return nil, entity.ErrInvalidQuantity
	}
	p, err := s.Products.GetByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, uid, func(c *entity.Cart) error {
		return c.Add(*p, qty)
	})
}

// UpdateQuantity removes the line when qty <= 0.
func (s *CartService) UpdateQuantity(ctx context.Context, uid, productID string, qty int) (*CartView, error) {
	return s.mutate(ctx, uid, func(c *entity.Cart) error {
		if !c.UpdateQuantity(productID, qty) {
			return ErrItemNotInCart
		}
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, uid, productID string) (*CartView, error) {
	return s.mutate(ctx, uid, func(c *entity.Cart) error {
		if !c.Remove(productID) {
			return ErrItemNotInCart
		}
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, uid string) error {
	return s.Store.Delete(ctx, uid)
}

func (s *CartService) mutate(ctx context.Context, uid string, fn func(*entity.Cart) error) (*CartView, error) {
	c, err := s.Store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, c); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("save cart failed")
		}
		return nil, err
	}
	return viewOf(c), nil
}
