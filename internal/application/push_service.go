package application

import (
	"context"
	"errors"
	"strings"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
)

var (
	ErrTokenNotFound   = errors.New("push token not found")
	ErrInvalidPlatform = errors.New("platform must be web, android or ios")
)

type PushService struct {
	Repo repo.PushTokenRepository
}

func NewPushService(r repo.PushTokenRepository) *PushService {
	return &PushService{Repo: r}
}

func (s *PushService) Register(ctx context.Context, uid, token, platform string) (*entity.PushToken, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	switch platform {
	case "web", "android", "ios":
	default:
		return nil, ErrInvalidPlatform
	}
	t := &entity.PushToken{Token: strings.TrimSpace(token), UID: uid, Platform: platform}
	if err := s.Repo.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PushService) Unregister(ctx context.Context, uid, token string) error {
	err := s.Repo.Delete(ctx, uid, token)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}

func (s *PushService) List(ctx context.Context, uid string) ([]entity.PushToken, error) {
	return s.Repo.ListByUID(ctx, uid)
}
