package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/request"
	"portfolio/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var ErrInvalidUUID = errors.New("not valid UUID")

// GetProfile godoc
// @Summary Portfolio profile
// @Description Hero, about, projects, skills, experience and achievements shown on the front page.
// @Tags profile
// @Produce json
// @Success 200 {object} response.Response{data=models.Profile}
// @Router /api/v1/profile [get]
func (r *Routers) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.ProfileService.Profile()))
}

// ListPosts godoc
// @Summary List published posts
// @Description Published posts, newest first. Content is omitted.
// @Tags blog
// @Produce json
// @Param search query string false "Search in title and excerpt"
// @Param tag query string false "Tag slug"
// @Success 200 {object} response.Response{data=dto.BlogPostListResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	search := strings.TrimSpace(c.QueryParam("search"))
	tag := strings.TrimSpace(c.QueryParam("tag"))

	posts, err := r.BlogService.ListPublishedPosts(c.Request().Context(), search, tag)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewBlogPostListResponse(posts)))
}

// GetPost godoc
// @Summary Get a published post
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} response.Response{data=dto.BlogPostResponse}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts/{slug} [get]
func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	post, err := r.BlogService.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewBlogPostResponse(post)))
}

// ListTags godoc
// @Summary List tags
// @Tags blog
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.TagResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/tags [get]
func (r *Routers) ListTags(c echo.Context) error {
	tags, err := r.BlogService.ListTags(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list tags", slog.String("op", "http.routers.ListTags"), sl.Err(err))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewTagResponses(tags)))
}

// SendContact godoc
// @Summary Send a contact message
// @Description Forwards the message to the site owner through the email API. Nothing is retried.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body models.ContactMessage true "Message"
// @Success 202 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/contact [post]
func (r *Routers) SendContact(c echo.Context) error {
	var msg models.ContactMessage

	if err := c.Bind(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.ContactService.Send(c.Request().Context(), c.RealIP(), msg); err != nil {
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusAccepted, response.MessageResponse("message sent"))
}

// Login godoc
// @Summary Admin login
// @Description Checks the admin email and password, starts a session and returns a JWT pair.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/v1/admin/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	admin, err := r.AuthService.Login(c.RealIP(), req.Email, req.Password)
	if err != nil {
		return r.jsonError(c, err)
	}

	pair, err := r.TokenService.GenerateTokens(c.Request().Context(), *admin)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return r.jsonError(c, err)
	}

	if err := setAdminSession(c, admin.Email); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/admin/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		log.Error("validation bind", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	pair, err := r.TokenService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Warn("error refresh tokens", sl.Err(err))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// AdminListPosts godoc
// @Summary List every post
// @Description Drafts and published posts, newest first, for the dashboard. Stats count every post regardless of search.
// @Tags admin
// @Produce json
// @Param search query string false "Search in title and excerpt"
// @Success 200 {object} response.Response{data=dto.BlogPostListResponse}
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/posts [get]
func (r *Routers) AdminListPosts(c echo.Context) error {
	posts, stats, err := r.dashboardPosts(c.Request().Context(), strings.TrimSpace(c.QueryParam("search")))
	if err != nil {
		r.log.Error("failed to list posts", slog.String("op", "http.routers.AdminListPosts"), sl.Err(err))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]interface{}{
		"posts": dto.NewBlogPostListResponse(posts).Posts,
		"stats": stats,
	}))
}

// AdminGetPost godoc
// @Summary Get any post by id
// @Tags admin
// @Produce json
// @Param id path string true "Post ID" format(uuid)
// @Success 200 {object} response.Response{data=dto.BlogPostResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/posts/{id} [get]
func (r *Routers) AdminGetPost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", ErrInvalidUUID.Error()))
	}

	post, err := r.BlogService.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewBlogPostResponse(post)))
}

// CreatePost godoc
// @Summary Create a post
// @Description The slug is derived from the title. Tags are created on first use.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateBlogPostRequest true "Post"
// @Success 201 {object} response.Response{data=dto.BlogPostResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/posts [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateBlogPostRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	post, err := r.BlogService.CreatePost(c.Request().Context(), req.ToInput())
	if err != nil {
		log.Warn("failed to create post", sl.Err(err))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.NewBlogPostResponse(post)))
}

// UpdatePost godoc
// @Summary Update a post
// @Description Partial update. A new title regenerates the slug; a tags list replaces every tag.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID" format(uuid)
// @Param request body dto.UpdateBlogPostRequest true "Fields to change"
// @Success 200 {object} response.Response{data=dto.BlogPostResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/posts/{id} [put]
func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", ErrInvalidUUID.Error()))
	}

	var req dto.UpdateBlogPostRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	post, err := r.BlogService.UpdatePost(c.Request().Context(), postID, req.ToUpdate())
	if err != nil {
		log.Warn("failed to update post", sl.Err(err), slog.String("post_id", postID.String()))
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewBlogPostResponse(post)))
}

// DeletePost godoc
// @Summary Delete a post
// @Tags admin
// @Param id path string true "Post ID" format(uuid)
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/posts/{id} [delete]
func (r *Routers) DeletePost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", ErrInvalidUUID.Error()))
	}

	if err := r.BlogService.DeletePost(c.Request().Context(), postID); err != nil {
		return r.jsonError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Upload a blog image
// @Description Stores the image in the object storage bucket and returns its public URL.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image (jpeg, png, gif, webp)"
// @Success 201 {object} response.Response{data=dto.ImageUploadResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 415 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/images [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("file is required", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "file is required"))
	}

	image, err := r.uploadFormFile(c, file)
	if err != nil {
		return r.jsonError(c, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.ImageUploadResponse{
		URL:  image.URL,
		Path: image.Path,
	}))
}
