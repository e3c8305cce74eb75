package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/services/auth"
	contact "portfolio/internal/services/contact_service"
	tokens "portfolio/internal/services/token_service"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/views"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testAdmin = models.Admin{Email: "owner@example.com", Name: "Owner"}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type harness struct {
	e       *echo.Echo
	routers *Routers
	blog    *MockBlogService
	auth    *MockAuthService
	tokens  *MockTokenService
	contact *MockContactService
	media   *MockMediaService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		blog:    new(MockBlogService),
		auth:    new(MockAuthService),
		tokens:  new(MockTokenService),
		contact: new(MockContactService),
		media:   new(MockMediaService),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	site := views.Site{Name: "Test Site", Description: "desc", URL: "http://example.test"}
	profile := stubProfile{profile: models.Profile{Name: "Jane Doe", Headline: "Engineer"}}

	r := NewRouter(log, site, h.blog, h.auth, h.tokens, h.contact, h.media, profile)
	h.routers = r

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	e.HTTPErrorHandler = r.ErrorHandler
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))

	e.GET("/", r.HomePage)
	e.POST("/contact", r.ContactForm)
	e.GET("/blog", r.BlogListPage)
	e.GET("/blog/:slug", r.BlogPostPage)
	e.GET("/rss.xml", r.RSS)
	e.GET("/sitemap.xml", r.Sitemap)
	e.GET("/admin/auth", r.AdminAuthPage)
	e.POST("/admin/auth", r.AdminAuthSubmit)
	e.POST("/admin/logout", r.Logout)

	admin := e.Group("/admin", r.RequireAdminPage)
	admin.GET("", r.AdminDashboardPage)
	admin.POST("/blog/new", r.NewPostSubmit)
	admin.GET("/blog/:id/edit", r.EditPostPage)
	admin.POST("/blog/:id/delete", r.DeletePostSubmit)

	api := e.Group("/api/v1")
	api.GET("/posts", r.ListPosts)
	api.GET("/posts/:slug", r.GetPost)
	api.POST("/contact", r.SendContact)
	api.POST("/admin/login", r.Login)
	api.POST("/admin/refresh", r.Refresh)

	adminAPI := api.Group("/admin", r.RequireAdminAPI)
	adminAPI.GET("/posts", r.AdminListPosts)
	adminAPI.POST("/posts", r.CreatePost)
	adminAPI.DELETE("/posts/:id", r.DeletePost)
	adminAPI.POST("/images", r.UploadImage)

	e.RouteNotFound("/*", r.NotFound)

	h.e = e

	t.Cleanup(func() {
		h.blog.AssertExpectations(t)
		h.auth.AssertExpectations(t)
		h.tokens.AssertExpectations(t)
		h.contact.AssertExpectations(t)
		h.media.AssertExpectations(t)
	})

	return h
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) asAdminToken() {
	h.tokens.On("ValidateAccess", "good-token").Return(&testAdmin, nil)
	h.auth.On("IsAdmin", testAdmin.Email).Return(true)
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func samplePost() models.BlogPost {
	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	excerpt := "First lines"
	return models.BlogPost{
		ID:          uuid.New(),
		Title:       "Hello World",
		Slug:        "hello-world",
		Excerpt:     &excerpt,
		Content:     "Some **content**",
		Status:      models.StatusPublished,
		PublishedAt: &published,
		CreatedAt:   published,
		UpdatedAt:   published,
		Author:      &models.Author{ID: uuid.New(), Name: "Owner"},
		Tags:        []models.Tag{{ID: uuid.New(), Name: "Go", Slug: "go"}},
	}
}

func TestListPosts_API(t *testing.T) {
	h := newHarness(t)
	p := samplePost()
	h.blog.On("ListPublishedPosts", mock.Anything, "intro", "go").Return([]models.BlogPost{p}, nil)

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/api/v1/posts?search=intro&tag=go", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total_count"])
	first := data["posts"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "hello-world", first["slug"])
	assert.Equal(t, "First lines", first["excerpt"])
}

func TestGetPost_API_NotFound(t *testing.T) {
	h := newHarness(t)
	h.blog.On("GetPostBySlug", mock.Anything, "missing").
		Return(nil, fmt.Errorf("blog_service.GetPostBySlug: %w", storage.ErrPostNotFound))

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/api/v1/posts/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["error"])
}

func TestAdminAPIGate(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		h := newHarness(t)

		rec := h.serve(jsonRequest(http.MethodPost, "/api/v1/admin/posts", map[string]string{"title": "x"}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		h := newHarness(t)
		h.tokens.On("ValidateAccess", "bad").Return(nil, tokens.ErrInvalidToken)

		req := jsonRequest(http.MethodPost, "/api/v1/admin/posts", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer bad")

		assert.Equal(t, http.StatusUnauthorized, h.serve(req).Code)
	})

	t.Run("not the admin", func(t *testing.T) {
		h := newHarness(t)
		h.tokens.On("ValidateAccess", "other").Return(&models.Admin{Email: "someone@example.com"}, nil)
		h.auth.On("IsAdmin", "someone@example.com").Return(false)

		req := jsonRequest(http.MethodPost, "/api/v1/admin/posts", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer other")

		assert.Equal(t, http.StatusForbidden, h.serve(req).Code)
	})
}

func TestCreatePost_API(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]interface{}
		setup    func(h *harness)
		wantCode int
	}{
		{
			name:     "missing title",
			body:     map[string]interface{}{"content": "body"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid status",
			body:     map[string]interface{}{"title": "T", "content": "body", "status": "archived"},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate slug",
			body: map[string]interface{}{"title": "Hello World", "content": "body"},
			setup: func(h *harness) {
				h.blog.On("CreatePost", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("repo: %w", storage.ErrSlugExists))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "created",
			body: map[string]interface{}{
				"title":   "Hello World",
				"content": "body",
				"status":  "published",
				"tags":    []string{"Go", "Web"},
			},
			setup: func(h *harness) {
				p := samplePost()
				h.blog.On("CreatePost", mock.Anything, models.PostInput{
					Title:   "Hello World",
					Content: "body",
					Status:  models.StatusPublished,
					Tags:    []string{"Go", "Web"},
				}).Return(&p, nil)
			},
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.asAdminToken()
			if tt.setup != nil {
				tt.setup(h)
			}

			req := jsonRequest(http.MethodPost, "/api/v1/admin/posts", tt.body)
			req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")

			rec := h.serve(req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestDeletePost_API(t *testing.T) {
	h := newHarness(t)
	h.asAdminToken()
	id := uuid.New()
	h.blog.On("DeletePost", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+id.String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	assert.Equal(t, http.StatusNoContent, h.serve(req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/not-a-uuid", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	assert.Equal(t, http.StatusBadRequest, h.serve(req).Code)
}

func imageRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="a.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	return req
}

func TestUploadImage_API(t *testing.T) {
	data := []byte("fake png bytes")
	upload := models.ImageUpload{Filename: "a.png", ContentType: "image/png", Size: int64(len(data))}

	t.Run("stored", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.media.On("UploadImage", mock.Anything, upload, mock.Anything).
			Return(&models.UploadedImage{URL: "http://cdn.test/blog-images/1-a.png", Path: "blog-images/1-a.png"}, nil)

		rec := h.serve(imageRequest(t, data))

		require.Equal(t, http.StatusCreated, rec.Code)
		got := decode(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "http://cdn.test/blog-images/1-a.png", got["url"])
	})

	t.Run("too large", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.media.On("UploadImage", mock.Anything, upload, mock.Anything).
			Return(nil, fmt.Errorf("media: %w", storage.ErrFileTooLarge))

		assert.Equal(t, http.StatusRequestEntityTooLarge, h.serve(imageRequest(t, data)).Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.media.On("UploadImage", mock.Anything, upload, mock.Anything).
			Return(nil, fmt.Errorf("media: %w", storage.ErrInvalidFileType))

		assert.Equal(t, http.StatusUnsupportedMediaType, h.serve(imageRequest(t, data)).Code)
	})
}

func TestLogin_API(t *testing.T) {
	h := newHarness(t)
	pair := &models.TokenPair{AccessToken: "a", RefreshToken: "r"}
	h.auth.On("Login", mock.Anything, testAdmin.Email, "secret").Return(&testAdmin, nil)
	h.tokens.On("GenerateTokens", mock.Anything, testAdmin).Return(pair, nil)

	rec := h.serve(jsonRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"email":    testAdmin.Email,
		"password": "secret",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "a", data["access_token"])
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))
}

func TestRefresh_API(t *testing.T) {
	h := newHarness(t)
	h.tokens.On("RefreshTokens", mock.Anything, "used").
		Return(nil, fmt.Errorf("token_service.RefreshTokens: %w", tokens.ErrTokenNotInStorage))

	rec := h.serve(jsonRequest(http.MethodPost, "/api/v1/admin/refresh", map[string]string{"refresh_token": "used"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.serve(jsonRequest(http.MethodPost, "/api/v1/admin/refresh", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendContact_API(t *testing.T) {
	msg := models.ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello"}

	t.Run("sent", func(t *testing.T) {
		h := newHarness(t)
		h.contact.On("Send", mock.Anything, mock.Anything, msg).Return(nil)

		assert.Equal(t, http.StatusAccepted, h.serve(jsonRequest(http.MethodPost, "/api/v1/contact", msg)).Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		h := newHarness(t)
		h.contact.On("Send", mock.Anything, mock.Anything, msg).
			Return(fmt.Errorf("contact: %w", contact.ErrRateLimited))

		assert.Equal(t, http.StatusTooManyRequests, h.serve(jsonRequest(http.MethodPost, "/api/v1/contact", msg)).Code)
	})

	t.Run("delivery failed", func(t *testing.T) {
		h := newHarness(t)
		h.contact.On("Send", mock.Anything, mock.Anything, msg).
			Return(fmt.Errorf("contact: %w", contact.ErrDeliveryFailed))

		rec := h.serve(jsonRequest(http.MethodPost, "/api/v1/contact", msg))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, contact.ErrDeliveryFailed.Error(), decode(t, rec)["details"])
	})
}

func TestHomePage(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane Doe")
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
}

func TestContactForm(t *testing.T) {
	values := url.Values{
		"name":    {"Ann"},
		"email":   {"ann@example.com"},
		"subject": {"Hi"},
		"message": {"Hello"},
	}
	msg := models.ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello"}

	t.Run("redirects after send", func(t *testing.T) {
		h := newHarness(t)
		h.contact.On("Send", mock.Anything, mock.Anything, msg).Return(nil)

		rec := h.serve(formRequest("/contact", values))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?sent=1#contact", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("generic notice on failure", func(t *testing.T) {
		h := newHarness(t)
		h.contact.On("Send", mock.Anything, mock.Anything, msg).
			Return(fmt.Errorf("contact: %w", contact.ErrDeliveryFailed))

		rec := h.serve(formRequest("/contact", values))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to send message, please try again.")
		assert.Contains(t, rec.Body.String(), `value="Ann"`)
	})
}

func TestBlogPages(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := newHarness(t)
		p := samplePost()
		h.blog.On("ListPublishedPosts", mock.Anything, "", "go").Return([]models.BlogPost{p}, nil)
		h.blog.On("ListTags", mock.Anything).Return([]models.Tag{{Name: "Go", Slug: "go"}}, nil)

		rec := h.serve(httptest.NewRequest(http.MethodGet, "/blog?tag=go", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/blog/hello-world"`)
	})

	t.Run("detail", func(t *testing.T) {
		h := newHarness(t)
		p := samplePost()
		h.blog.On("GetPostBySlug", mock.Anything, "hello-world").Return(&p, nil)

		rec := h.serve(httptest.NewRequest(http.MethodGet, "/blog/hello-world", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<strong>content</strong>")
		assert.Contains(t, rec.Body.String(), "1 min read")
	})

	t.Run("missing post renders 404", func(t *testing.T) {
		h := newHarness(t)
		h.blog.On("GetPostBySlug", mock.Anything, "nope").Return(nil, storage.ErrPostNotFound)

		rec := h.serve(httptest.NewRequest(http.MethodGet, "/blog/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "does not exist")
	})
}

func TestCatchAllNotFound(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}

func TestAdminPageGate_RedirectsAnonymous(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/auth", rec.Header().Get(echo.HeaderLocation))
}

func TestAdminLoginFlow(t *testing.T) {
	h := newHarness(t)
	h.auth.On("Login", mock.Anything, testAdmin.Email, "secret").Return(&testAdmin, nil)

	rec := h.serve(formRequest("/admin/auth", url.Values{
		"email":    {testAdmin.Email},
		"password": {"secret"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	p := samplePost()
	h.auth.On("IsAdmin", testAdmin.Email).Return(true)
	h.auth.On("Admin").Return(testAdmin)
	h.blog.On("ListPosts", mock.Anything, false).Return([]models.BlogPost{p}, nil)
	h.blog.On("Stats", []models.BlogPost{p}).Return(models.PostStats{Total: 1, Published: 1})

	req := httptest.NewRequest(http.MethodGet, "/admin?notice=saved", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = h.serve(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Signed in as owner@example.com")
	assert.Contains(t, body, "Post saved.")
	assert.Contains(t, body, "Hello World")
}

func TestAdminDashboard_StatsIgnoreSearch(t *testing.T) {
	published := samplePost()
	draft := samplePost()
	draft.ID = uuid.New()
	draft.Title = "Draft Notes"
	draft.Slug = "draft-notes"
	draft.Status = models.StatusDraft
	draft.PublishedAt = nil

	all := []models.BlogPost{published, draft}
	totals := models.PostStats{Total: 2, Published: 1, Drafts: 1}

	t.Run("page", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.blog.On("ListPosts", mock.Anything, false).Return(all, nil)
		h.blog.On("Stats", all).Return(totals)
		h.blog.On("SearchPosts", mock.Anything, "hello", false).Return([]models.BlogPost{published}, nil)

		req := httptest.NewRequest(http.MethodGet, "/admin?search=hello", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
		rec := h.serve(req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Total <strong>2</strong>")
		assert.Contains(t, body, "Drafts <strong>1</strong>")
		assert.Contains(t, body, "Hello World")
		assert.NotContains(t, body, "Draft Notes")
	})

	t.Run("api", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.blog.On("ListPosts", mock.Anything, false).Return(all, nil)
		h.blog.On("Stats", all).Return(totals)
		h.blog.On("SearchPosts", mock.Anything, "hello", false).Return([]models.BlogPost{published}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts?search=hello", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
		rec := h.serve(req)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].(map[string]interface{})
		assert.Len(t, data["posts"], 1)

		stats := data["stats"].(map[string]interface{})
		assert.Equal(t, float64(2), stats["total"])
		assert.Equal(t, float64(1), stats["drafts"])
	})
}

func TestAdminLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"wrong password", fmt.Errorf("auth.Login: %w", auth.ErrInvalidCredentials), http.StatusUnauthorized, "Invalid email or password"},
		{"locked out", fmt.Errorf("auth.Login: %w", auth.ErrTooManyAttempts), http.StatusTooManyRequests, "Too many requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.auth.On("Login", mock.Anything, "x@example.com", "pw").Return(nil, tt.err)

			rec := h.serve(formRequest("/admin/auth", url.Values{
				"email":    {"x@example.com"},
				"password": {"pw"},
			}))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
			assert.Contains(t, rec.Body.String(), `value="x@example.com"`)
		})
	}
}

func TestNewPostSubmit(t *testing.T) {
	values := url.Values{
		"title":   {"Hello World"},
		"content": {"Body"},
		"tags":    {"go, web ,"},
		"status":  {"published"},
	}
	input := models.PostInput{
		Title:   "Hello World",
		Content: "Body",
		Status:  models.StatusPublished,
		Tags:    []string{"go", "web"},
	}

	t.Run("created", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		p := samplePost()
		h.blog.On("CreatePost", mock.Anything, input).Return(&p, nil)

		req := formRequest("/admin/blog/new", values)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
		rec := h.serve(req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin?notice=created", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("duplicate slug keeps the form", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.blog.On("CreatePost", mock.Anything, input).Return(nil, fmt.Errorf("repo: %w", storage.ErrSlugExists))

		req := formRequest("/admin/blog/new", values)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
		rec := h.serve(req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "A post with this title already exists")
		assert.Contains(t, rec.Body.String(), `value="Hello World"`)
	})
}

// editorRequest builds a multipart editor submission; files maps a form
// field to the PNG filename sent in it.
func editorRequest(t *testing.T, target string, fields, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for field, filename := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
		header.Set("Content-Type", "image/png")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	return req
}

func TestNewPostSubmit_DiscardsCoverOnFailure(t *testing.T) {
	h := newHarness(t)
	h.asAdminToken()

	upload := models.ImageUpload{Filename: "a.png", ContentType: "image/png", Size: 9}
	image := &models.UploadedImage{URL: "http://cdn.test/blog-images/a.png", Path: "blog-images/a.png"}
	h.media.On("UploadImage", mock.Anything, upload, mock.Anything).Return(image, nil)
	h.media.On("DeleteImage", mock.Anything, image.Path).Return(nil)
	h.blog.On("CreatePost", mock.Anything, mock.MatchedBy(func(in models.PostInput) bool {
		return in.CoverImageURL == image.URL
	})).Return(nil, fmt.Errorf("repo: %w", storage.ErrSlugExists))

	rec := h.serve(editorRequest(t, "/admin/blog/new",
		map[string]string{"title": "Hello World", "content": "Body"},
		map[string]string{"cover_image": "a.png"},
	))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), image.URL, "the re-rendered form must not point at the removed image")
	h.media.AssertCalled(t, "DeleteImage", mock.Anything, image.Path)
}

func TestNewPostSubmit_ContentImage(t *testing.T) {
	upload := models.ImageUpload{Filename: "inline.png", ContentType: "image/png", Size: 9}
	image := &models.UploadedImage{URL: "http://cdn.test/blog-images/inline.png", Path: "blog-images/inline.png"}
	fields := map[string]string{"title": "Hello World", "content": "Body"}
	files := map[string]string{"content_image": "inline.png"}

	t.Run("appended to content", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.media.On("UploadImage", mock.Anything, upload, mock.Anything).Return(image, nil)

		p := samplePost()
		h.blog.On("CreatePost", mock.Anything, mock.MatchedBy(func(in models.PostInput) bool {
			return in.Content == "Body\n\n![Image](http://cdn.test/blog-images/inline.png)" &&
				in.CoverImageURL == ""
		})).Return(&p, nil)

		rec := h.serve(editorRequest(t, "/admin/blog/new", fields, files))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		h.media.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})

	t.Run("rejected image keeps the form", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		h.media.On("UploadImage", mock.Anything, upload, mock.Anything).
			Return(nil, &models.ImageValidationError{Errors: []string{"unsupported image type"}})

		rec := h.serve(editorRequest(t, "/admin/blog/new", fields, files))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="Hello World"`)
		h.blog.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	})

	t.Run("failed save removes every upload", func(t *testing.T) {
		h := newHarness(t)
		h.asAdminToken()
		coverUpload := models.ImageUpload{Filename: "cover.png", ContentType: "image/png", Size: 9}
		cover := &models.UploadedImage{URL: "http://cdn.test/blog-images/cover.png", Path: "blog-images/cover.png"}
		h.media.On("UploadImage", mock.Anything, coverUpload, mock.Anything).Return(cover, nil)
		h.media.On("UploadImage", mock.Anything, upload, mock.Anything).Return(image, nil)
		h.media.On("DeleteImage", mock.Anything, cover.Path).Return(nil).Once()
		h.media.On("DeleteImage", mock.Anything, image.Path).Return(nil).Once()
		h.blog.On("CreatePost", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("repo: %w", storage.ErrSlugExists))

		rec := h.serve(editorRequest(t, "/admin/blog/new", fields, map[string]string{
			"cover_image":   "cover.png",
			"content_image": "inline.png",
		}))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestEditPostPage_NotFound(t *testing.T) {
	h := newHarness(t)
	h.asAdminToken()
	id := uuid.New()
	h.blog.On("GetPostByID", mock.Anything, id).Return(nil, storage.ErrPostNotFound)

	req := httptest.NewRequest(http.MethodGet, "/admin/blog/"+id.String()+"/edit", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")

	assert.Equal(t, http.StatusNotFound, h.serve(req).Code)
}

func TestDeletePostSubmit(t *testing.T) {
	h := newHarness(t)
	h.asAdminToken()
	id := uuid.New()
	h.blog.On("DeletePost", mock.Anything, id).Return(nil)

	req := formRequest("/admin/blog/"+id.String()+"/delete", url.Values{})
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := h.serve(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?notice=deleted", rec.Header().Get(echo.HeaderLocation))
}

func TestFeeds(t *testing.T) {
	h := newHarness(t)
	p := samplePost()
	h.blog.On("ListPublishedPosts", mock.Anything, "", "").Return([]models.BlogPost{p}, nil)

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/rss.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "<link>http://example.test/blog/hello-world</link>")
	assert.Contains(t, rec.Body.String(), "<pubDate>Wed, 01 May 2024 12:00:00 +0000</pubDate>")

	rec = h.serve(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>http://example.test/</loc>")
	assert.Contains(t, body, "<lastmod>2024-05-01</lastmod>")
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrPostNotFound, http.StatusNotFound},
		{storage.ErrAuthorNotFound, http.StatusNotFound},
		{storage.ErrSlugExists, http.StatusConflict},
		{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{storage.ErrInvalidFileType, http.StatusUnsupportedMediaType},
		{&models.ImageValidationError{Errors: []string{"file is empty"}}, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrTooManyAttempts, http.StatusTooManyRequests},
		{contact.ErrInvalidMessage, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, _ := errorStatus(fmt.Errorf("wrapped: %w", tt.err))
		assert.Equal(t, tt.want, code, tt.err.Error())
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "http://example.test/", buildURL("http://example.test/"))
	assert.Equal(t, "http://example.test/blog/a%20b", buildURL("http://example.test", "blog", "a b"))
}
