package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/services/auth"
	blog "portfolio/internal/services/blog_service"
	contact "portfolio/internal/services/contact_service"
	tokens "portfolio/internal/services/token_service"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto/response"
	"portfolio/internal/transport/http/views"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "portfolio/docs"
)

type BlogService interface {
	ListPosts(ctx context.Context, includeContent bool) ([]models.BlogPost, error)
	SearchPosts(ctx context.Context, search string, includeContent bool) ([]models.BlogPost, error)
	ListPublishedPosts(ctx context.Context, search, tag string) ([]models.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListTags(ctx context.Context) ([]models.Tag, error)
	Stats(posts []models.BlogPost) models.PostStats
}

type AuthService interface {
	Login(ip, email, password string) (*models.Admin, error)
	IsAdmin(email string) bool
	Admin() models.Admin
}

type TokenService interface {
	GenerateTokens(ctx context.Context, admin models.Admin) (*models.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ValidateAccess(accessToken string) (*models.Admin, error)
	Revoke(ctx context.Context, email string) error
}

type ContactService interface {
	Send(ctx context.Context, ip string, msg models.ContactMessage) error
}

type MediaService interface {
	UploadImage(ctx context.Context, upload models.ImageUpload, r io.Reader) (*models.UploadedImage, error)
	DeleteImage(ctx context.Context, path string) error
}

type ProfileService interface {
	Profile() models.Profile
	WorkExperience() []models.Experience
	Education() []models.Experience
}

type Routers struct {
	log            *slog.Logger
	site           views.Site
	BlogService    BlogService
	AuthService    AuthService
	TokenService   TokenService
	ContactService ContactService
	MediaService   MediaService
	ProfileService ProfileService
}

func NewRouter(
	log *slog.Logger,
	site views.Site,
	blogService BlogService,
	authService AuthService,
	tokenService TokenService,
	contactService ContactService,
	mediaService MediaService,
	profileService ProfileService,
) *Routers {
	return &Routers{
		log:            log,
		site:           site,
		BlogService:    blogService,
		AuthService:    authService,
		TokenService:   tokenService,
		ContactService: contactService,
		MediaService:   mediaService,
		ProfileService: profileService,
	}
}

// errorStatus maps service and storage errors onto an HTTP status and a
// client safe body. Unknown errors are reported as a generic 500.
func errorStatus(err error) (int, response.ErrorResponse) {
	var imageErr *models.ImageValidationError

	switch {
	case errors.Is(err, storage.ErrPostNotFound),
		errors.Is(err, storage.ErrAuthorNotFound),
		errors.Is(err, storage.ErrTagNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, blog.ErrTitleRequired):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", blog.ErrTitleRequired.Error())
	case errors.Is(err, blog.ErrContentRequired):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", blog.ErrContentRequired.Error())
	case errors.Is(err, blog.ErrInvalidStatus):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", blog.ErrInvalidStatus.Error())
	case errors.Is(err, contact.ErrInvalidMessage):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", contact.ErrInvalidMessage.Error())
	case errors.As(err, &imageErr):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_image", imageErr.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrAuthenticationFailed
	case errors.Is(err, tokens.ErrInvalidToken), errors.Is(err, tokens.ErrTokenNotInStorage):
		return http.StatusUnauthorized, response.ErrorResponseWithDetails("invalid_token", "invalid refresh token")
	case errors.Is(err, storage.ErrSlugExists):
		return http.StatusConflict, response.ErrSlugExists
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, response.ErrFileTooLarge
	case errors.Is(err, storage.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType, response.ErrUnsupportedMediaType
	case errors.Is(err, auth.ErrTooManyAttempts), errors.Is(err, contact.ErrRateLimited):
		return http.StatusTooManyRequests, response.ErrTooManyRequests
	case errors.Is(err, contact.ErrDeliveryFailed):
		return http.StatusInternalServerError, response.ErrorResponseWithDetails("delivery_failed", contact.ErrDeliveryFailed.Error())
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func (r *Routers) jsonError(c echo.Context, err error) error {
	code, body := errorStatus(err)
	return c.JSON(code, body)
}

// notice is the one line message shown on a page for a failed action.
func notice(err error) string {
	code, body := errorStatus(err)
	switch {
	case code == http.StatusNotFound:
		return "Not found."
	case body.Details != "" && code != http.StatusInternalServerError:
		return body.Details
	case errors.Is(err, contact.ErrDeliveryFailed):
		return "Failed to send message, please try again."
	default:
		return "Something went wrong, please try again."
	}
}

// NotFound renders the catch-all 404 page.
func (r *Routers) NotFound(c echo.Context) error {
	return views.RenderStatus(c, http.StatusNotFound, views.NotFound(r.page(c)))
}

// ErrorHandler renders HTML errors for page routes and JSON for the API.
func (r *Routers) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= http.StatusInternalServerError {
		r.log.Error("request failed",
			slog.String("path", c.Request().URL.Path),
			slog.String("error", err.Error()),
		)
	}

	if isAPI(c) {
		body := response.ErrInternal
		if he != nil && code < http.StatusInternalServerError {
			body = response.ErrorResponseWithDetails(http.StatusText(code), toString(he.Message))
		}
		_ = c.JSON(code, body)
		return
	}

	switch code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		_ = r.NotFound(c)
	default:
		_ = views.RenderStatus(c, code, views.ServerError(r.page(c)))
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
