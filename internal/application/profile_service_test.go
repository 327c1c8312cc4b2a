package application

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/internal/domain/repository/mocks"
	"github.com/agriassist/agriassist-api/internal/infrastructure/objectstore"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newProfileService(t *testing.T, max int64) (*ProfileService, *mocks.ProfileRepository, *mocks.ObjectStore) {
	t.Helper()
	r := &mocks.ProfileRepository{}
	st := &mocks.ObjectStore{}
	t.Cleanup(func() {
		r.AssertExpectations(t)
		st.AssertExpectations(t)
	})
	return NewProfileService(r, st, max, nil), r, st
}

func TestProfileService_EnsureProfile(t *testing.T) {
	svc, r, _ := newProfileService(t, 0)
	want := &entity.UserProfile{UID: "u1", PhoneNumber: "+919000000001"}
	r.On("Ensure", mock.Anything, "u1", "+919000000001").Return(want, nil).Twice()

	for i := 0; i < 2; i++ {
		p, err := svc.EnsureProfile(context.Background(), "u1", "+919000000001")
		require.NoError(t, err)
		assert.Same(t, want, p)
	}
}

func TestProfileService_GetMapsNotFound(t *testing.T) {
	svc, r, _ := newProfileService(t, 0)
	r.On("GetByUID", mock.Anything, "ghost").Return(nil, repo.ErrNotFound)

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_CompleteSetup(t *testing.T) {
	svc, r, _ := newProfileService(t, 0)
	r.On("GetByUID", mock.Anything, "u1").Return(&entity.UserProfile{UID: "u1"}, nil)
	r.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.UserProfile) bool {
		return p.DisplayName == "Ramesh" && p.Age == 42 && p.ProfileComplete
	})).Return(nil)

	p, err := svc.CompleteSetup(context.Background(), "u1", CompleteSetupInput{DisplayName: "  Ramesh ", Age: 42})
	require.NoError(t, err)
	assert.True(t, p.ProfileComplete)
}

func TestProfileService_CompleteSetupValidates(t *testing.T) {
	svc, _, _ := newProfileService(t, 0)
	cases := []CompleteSetupInput{
		{DisplayName: "R", Age: 30},
		{DisplayName: strings.Repeat("x", 61), Age: 30},
		{DisplayName: "Ramesh", Age: 9},
		{DisplayName: "Ramesh", Age: 121},
		{DisplayName: "Ramesh", Age: 30, PhotoURL: "not a url"},
	}
	for _, in := range cases {
		_, err := svc.CompleteSetup(context.Background(), "u1", in)
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs), "%+v", in)
	}
}

func TestProfileService_UploadAvatar(t *testing.T) {
	svc, r, st := newProfileService(t, 1024)
	r.On("GetByUID", mock.Anything, "u1").Return(&entity.UserProfile{UID: "u1"}, nil)
	st.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "avatars/u1/") && strings.HasSuffix(key, ".png") && len(key) == len("avatars/u1/")+36+4
	}), "image/png").Return("https://cdn.example.com/a.png", nil)
	r.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.UserProfile) bool {
		return p.PhotoURL == "https://cdn.example.com/a.png"
	})).Return(nil)

	url, err := svc.UploadAvatar(context.Background(), "u1", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", url)
	assert.Equal(t, pngHeader, st.Body)
}

func TestProfileService_UploadAvatarRejects(t *testing.T) {
	svc, r, _ := newProfileService(t, 1024)

	_, err := svc.UploadAvatar(context.Background(), "u1", bytes.NewReader(pngHeader), 2048)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	r.On("GetByUID", mock.Anything, "u1").Return(&entity.UserProfile{UID: "u1"}, nil)
	_, err = svc.UploadAvatar(context.Background(), "u1", strings.NewReader("plain text, not an image"), 24)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestProfileService_UploadAvatarEnforcesLimitWhileStreaming(t *testing.T) {
	svc, r, _ := newProfileService(t, 64)
	r.On("GetByUID", mock.Anything, "u1").Return(&entity.UserProfile{UID: "u1"}, nil)

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 200)...)
	_, err := svc.UploadAvatar(context.Background(), "u1", bytes.NewReader(body), 10)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestProfileService_UploadAvatarWithoutStore(t *testing.T) {
	svc := NewProfileService(&mocks.ProfileRepository{}, nil, 0, nil)
	_, err := svc.UploadAvatar(context.Background(), "u1", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorIs(t, err, objectstore.ErrNotConfigured)
}
