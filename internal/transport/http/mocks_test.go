package http

import (
	"context"
	"io"

	"portfolio/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) ListPosts(ctx context.Context, includeContent bool) ([]models.BlogPost, error) {
	args := m.Called(ctx, includeContent)
	return posts(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) SearchPosts(ctx context.Context, search string, includeContent bool) ([]models.BlogPost, error) {
	args := m.Called(ctx, search, includeContent)
	return posts(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) ListPublishedPosts(ctx context.Context, search, tag string) ([]models.BlogPost, error) {
	args := m.Called(ctx, search, tag)
	return posts(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	args := m.Called(ctx, slug)
	return post(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) GetPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	args := m.Called(ctx, id)
	return post(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) CreatePost(ctx context.Context, in models.PostInput) (*models.BlogPost, error) {
	args := m.Called(ctx, in)
	return post(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) UpdatePost(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.BlogPost, error) {
	args := m.Called(ctx, id, upd)
	return post(args.Get(0)), args.Error(1)
}

func (m *MockBlogService) DeletePost(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBlogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockBlogService) Stats(p []models.BlogPost) models.PostStats {
	return m.Called(p).Get(0).(models.PostStats)
}

func posts(v interface{}) []models.BlogPost {
	if v == nil {
		return nil
	}
	return v.([]models.BlogPost)
}

func post(v interface{}) *models.BlogPost {
	if v == nil {
		return nil
	}
	return v.(*models.BlogPost)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ip, email, password string) (*models.Admin, error) {
	args := m.Called(ip, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAuthService) IsAdmin(email string) bool {
	return m.Called(email).Bool(0)
}

func (m *MockAuthService) Admin() models.Admin {
	return m.Called().Get(0).(models.Admin)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokens(ctx context.Context, admin models.Admin) (*models.TokenPair, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockTokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockTokenService) ValidateAccess(accessToken string) (*models.Admin, error) {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockTokenService) Revoke(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Send(ctx context.Context, ip string, msg models.ContactMessage) error {
	return m.Called(ctx, ip, msg).Error(0)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) UploadImage(ctx context.Context, upload models.ImageUpload, r io.Reader) (*models.UploadedImage, error) {
	args := m.Called(ctx, upload, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadedImage), args.Error(1)
}

func (m *MockMediaService) DeleteImage(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type stubProfile struct {
	profile models.Profile
}

func (s stubProfile) Profile() models.Profile             { return s.profile }
func (s stubProfile) WorkExperience() []models.Experience { return s.profile.Experience }
func (s stubProfile) Education() []models.Experience      { return nil }
