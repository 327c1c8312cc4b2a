package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/pkg/helpers"
)

// CartStore keeps each cart as a JSON document under cart:<uid>.
type CartStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCartStore(rdb redis.Cmdable, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl}
}

func cartKey(uid string) string {
	return "cart:" + uid
}

// Get returns an empty cart when none is stored.
func (s *CartStore) Get(ctx context.Context, uid string) (*entity.Cart, error) {
	c := entity.NewCart(uid)
	found, err := helpers.RedisGetJSON(ctx, s.rdb, cartKey(uid), c)
	if err != nil {
		return nil, err
	}
	if !found {
		return entity.NewCart(uid), nil
	}
	c.UserID = uid
	c.Normalize()
	return c, nil
}

func (s *CartStore) Save(ctx context.Context, c *entity.Cart) error {
	if len(c.Items) == 0 {
		return s.Delete(ctx, c.UserID)
	}
	return helpers.RedisSetJSON(ctx, s.rdb, cartKey(c.UserID), c, s.ttl)
}

func (s *CartStore) Delete(ctx context.Context, uid string) error {
	return helpers.RedisDel(ctx, s.rdb, cartKey(uid))
}

var _ repository.CartStore = (*CartStore)(nil)
