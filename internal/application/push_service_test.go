package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/internal/domain/repository/mocks"
)

func TestPushService_Register(t *testing.T) {
	r := &mocks.PushTokenRepository{}
	r.On("Upsert", mock.Anything, mock.MatchedBy(func(t *entity.PushToken) bool {
		return t.Token == "tok-1" && t.UID == "u1" && t.Platform == "android"
	})).Return(nil)

	tok, err := NewPushService(r).Register(context.Background(), "u1", " tok-1 ", "Android")
	require.NoError(t, err)
	assert.Equal(t, "android", tok.Platform)
	r.AssertExpectations(t)
}

func TestPushService_RegisterRejectsPlatform(t *testing.T) {
	_, err := NewPushService(&mocks.PushTokenRepository{}).Register(context.Background(), "u1", "tok", "symbian")
	assert.ErrorIs(t, err, ErrInvalidPlatform)
}

func TestPushService_UnregisterAndList(t *testing.T) {
	r := &mocks.PushTokenRepository{}
	r.On("Delete", mock.Anything, "u1", "gone").Return(repo.ErrNotFound)
	r.On("ListByUID", mock.Anything, "u1").Return([]entity.PushToken{{Token: "a", UID: "u1", Platform: "web"}}, nil)
	svc := NewPushService(r)

	assert.ErrorIs(t, svc.Unregister(context.Background(), "u1", "gone"), ErrTokenNotFound)
	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
