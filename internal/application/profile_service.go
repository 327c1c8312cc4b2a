package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/internal/infrastructure/objectstore"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrUnsupportedImage = errors.New("image must be jpeg, png or webp")
)

var avatarExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type ProfileService struct {
	Repo           repo.ProfileRepository
	Store          objectstore.Store
	MaxAvatarBytes int64
	Logger         *logrus.Logger
	validate       *validator.Validate
}

func NewProfileService(r repo.ProfileRepository, store objectstore.Store, maxAvatarBytes int64, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Repo: r, Store: store, MaxAvatarBytes: maxAvatarBytes, Logger: logger, validate: validation.New()}
}

// EnsureProfile creates the profile on first sign-in and is a no-op afterwards.
func (s *ProfileService) EnsureProfile(ctx context.Context, uid, phone string) (*entity.UserProfile, error) {
	p, err := s.Repo.Ensure(ctx, uid, phone)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("ensure profile failed")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, uid string) (*entity.UserProfile, error) {
	p, err := s.Repo.GetByUID(ctx, uid)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

type CompleteSetupInput struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=60"`
	Age         int    `json:"age" validate:"required,min=10,max=120"`
	PhotoURL    string `json:"photoURL,omitempty" validate:"omitempty,url"`
}

// CompleteSetup stores the onboarding details and marks the profile complete.
func (s *ProfileService) CompleteSetup(ctx context.Context, uid string, in CompleteSetupInput) (*entity.UserProfile, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	p.DisplayName = in.DisplayName
	p.Age = in.Age
	if in.PhotoURL != "" {
		p.PhotoURL = in.PhotoURL
	}
	p.ProfileComplete = true
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadAvatar sniffs the image type from its content rather than trusting the client header.
func (s *ProfileService) UploadAvatar(ctx context.Context, uid string, r io.Reader, size int64) (string, error) {
	if s.Store == nil {
		return "", objectstore.ErrNotConfigured
	}
	if s.MaxAvatarBytes > 0 && size > s.MaxAvatarBytes {
		return "", ErrImageTooLarge
	}
	p, err := s.Get(ctx, uid)
	if err != nil {
		return "", err
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	contentType := http.DetectContentType(head)
	ext, ok := avatarExt[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}

	var body io.Reader = br
	if s.MaxAvatarBytes > 0 {
		body = &limitedReader{r: br, n: s.MaxAvatarBytes}
	}
	key := fmt.Sprintf("avatars/%s/%s%s", uid, uuid.NewString(), ext)
	url, err := s.Store.Put(ctx, key, contentType, body)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("avatar upload failed")
		}
		return "", err
	}

	p.PhotoURL = url
	if err := s.Repo.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

// limitedReader fails instead of truncating once more than n bytes are read.
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrImageTooLarge
	}
	return n, err
}
