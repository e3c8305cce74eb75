package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/lib/markdown"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/request"
	"portfolio/internal/transport/http/views"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxMarkdownImport = 1 << 20

var dashboardNotices = map[string]string{
	"created":       "Post created.",
	"saved":         "Post saved.",
	"deleted":       "Post deleted.",
	"delete_failed": "Failed to delete the post, please try again.",
}

func (r *Routers) HomePage(c echo.Context) error {
	return views.Render(c, views.Home(r.homePage(c, models.ContactMessage{})))
}

func (r *Routers) homePage(c echo.Context, msg models.ContactMessage) views.HomePage {
	p := r.page(c)
	if c.QueryParam("sent") == "1" {
		p.Notice = "Thanks, your message has been sent."
	}

	return views.HomePage{
		Page:      p,
		Profile:   r.ProfileService.Profile(),
		Work:      r.ProfileService.WorkExperience(),
		Education: r.ProfileService.Education(),
		Contact:   msg,
	}
}

// ContactForm sends the front page form. Failures re-render the page with
// the form filled in and a generic notice.
func (r *Routers) ContactForm(c echo.Context) error {
	var msg models.ContactMessage

	if err := c.Bind(&msg); err != nil {
		data := r.homePage(c, msg)
		data.Error = "Invalid request format."
		return views.RenderStatus(c, http.StatusBadRequest, views.Home(data))
	}

	if err := r.ContactService.Send(c.Request().Context(), c.RealIP(), msg); err != nil {
		code, _ := errorStatus(err)
		data := r.homePage(c, msg)
		data.Error = notice(err)
		return views.RenderStatus(c, code, views.Home(data))
	}

	return c.Redirect(http.StatusSeeOther, "/?sent=1#contact")
}

func (r *Routers) BlogListPage(c echo.Context) error {
	const op = "http.routers.BlogListPage"

	log := r.log.With(
		slog.String("op", op),
	)

	data := views.BlogListPage{
		Page:   r.page(c),
		Search: strings.TrimSpace(c.QueryParam("search")),
		Tag:    strings.TrimSpace(c.QueryParam("tag")),
	}

	posts, err := r.BlogService.ListPublishedPosts(c.Request().Context(), data.Search, data.Tag)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		data.Error = notice(err)
		return views.RenderStatus(c, http.StatusInternalServerError, views.BlogList(data))
	}
	data.Posts = posts

	tags, err := r.BlogService.ListTags(c.Request().Context())
	if err != nil {
		log.Warn("failed to list tags", sl.Err(err))
	}
	data.Tags = tags

	return views.Render(c, views.BlogList(data))
}

func (r *Routers) BlogPostPage(c echo.Context) error {
	post, err := r.BlogService.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return r.NotFound(c)
		}
		r.log.Error("failed to get post", slog.String("op", "http.routers.BlogPostPage"), sl.Err(err))
		return views.RenderStatus(c, http.StatusInternalServerError, views.ServerError(r.page(c)))
	}

	return views.Render(c, views.BlogPost(views.BlogPostPage{
		Page:        r.page(c),
		Post:        post,
		ReadingTime: markdown.ReadingTime(post.Content),
	}))
}

func (r *Routers) AdminAuthPage(c echo.Context) error {
	if _, result := r.resolveAdmin(c); result == gateAllowed {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}

	return views.Render(c, views.AdminAuth(views.AdminAuthPage{Page: r.page(c)}))
}

func (r *Routers) AdminAuthSubmit(c echo.Context) error {
	const op = "http.routers.AdminAuthSubmit"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest
	data := views.AdminAuthPage{Page: r.page(c)}

	if err := c.Bind(&req); err != nil {
		data.Error = "Invalid request format."
		return views.RenderStatus(c, http.StatusBadRequest, views.AdminAuth(data))
	}
	data.Email = req.Email

	if err := c.Validate(req); err != nil {
		data.Error = "Invalid email or password."
		return views.RenderStatus(c, http.StatusBadRequest, views.AdminAuth(data))
	}

	admin, err := r.AuthService.Login(c.RealIP(), req.Email, req.Password)
	if err != nil {
		code, _ := errorStatus(err)
		data.Error = notice(err)
		return views.RenderStatus(c, code, views.AdminAuth(data))
	}

	if err := setAdminSession(c, admin.Email); err != nil {
		log.Error("failed to save session", sl.Err(err))
		data.Error = notice(err)
		return views.RenderStatus(c, http.StatusInternalServerError, views.AdminAuth(data))
	}

	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout ends the session and revokes refresh tokens issued to the admin.
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	if admin, result := r.resolveAdmin(c); result == gateAllowed {
		if err := r.TokenService.Revoke(c.Request().Context(), admin.Email); err != nil {
			log.Warn("failed to revoke tokens", sl.Err(err))
		}
	}

	if err := clearAdminSession(c); err != nil {
		log.Warn("failed to clear session", sl.Err(err))
	}

	return c.Redirect(http.StatusSeeOther, "/admin/auth")
}

func (r *Routers) AdminDashboardPage(c echo.Context) error {
	data := views.AdminDashboardPage{
		Page:   r.page(c),
		Admin:  currentAdmin(c),
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	data.Notice = dashboardNotices[c.QueryParam("notice")]

	posts, stats, err := r.dashboardPosts(c.Request().Context(), data.Search)
	if err != nil {
		r.log.Error("failed to list posts", slog.String("op", "http.routers.AdminDashboardPage"), sl.Err(err))
		data.Error = notice(err)
		return views.RenderStatus(c, http.StatusInternalServerError, views.AdminDashboard(data))
	}
	data.Posts = posts
	data.Stats = stats

	return views.Render(c, views.AdminDashboard(data))
}

// dashboardPosts returns the posts matching search and the counts over every
// post, so the totals stay put while the list is filtered.
func (r *Routers) dashboardPosts(ctx context.Context, search string) ([]models.BlogPost, models.PostStats, error) {
	all, err := r.BlogService.ListPosts(ctx, false)
	if err != nil {
		return nil, models.PostStats{}, err
	}
	stats := r.BlogService.Stats(all)

	if search == "" {
		return all, stats, nil
	}

	posts, err := r.BlogService.SearchPosts(ctx, search, false)
	if err != nil {
		return nil, models.PostStats{}, err
	}
	return posts, stats, nil
}

func (r *Routers) NewPostPage(c echo.Context) error {
	return views.Render(c, views.Editor(views.EditorPage{
		Page:   r.page(c),
		IsNew:  true,
		Action: "/admin/blog/new",
		Form:   views.EditorForm{Status: string(models.StatusDraft)},
	}))
}

func (r *Routers) NewPostSubmit(c echo.Context) error {
	const op = "http.routers.NewPostSubmit"

	page := views.EditorPage{Page: r.page(c), IsNew: true, Action: "/admin/blog/new"}

	form, err := r.bindPostForm(c)
	page.Form = editorForm(form)
	if err != nil {
		return r.editorError(c, op, page, err)
	}

	uploaded, err := r.attachImages(c, &form)
	if err != nil {
		r.discardUploads(c, uploaded)
		return r.editorError(c, op, page, err)
	}

	if _, err := r.BlogService.CreatePost(c.Request().Context(), form.ToInput()); err != nil {
		r.discardUploads(c, uploaded)
		return r.editorError(c, op, page, err)
	}

	return c.Redirect(http.StatusSeeOther, "/admin?notice=created")
}

func (r *Routers) EditPostPage(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return r.NotFound(c)
	}

	post, err := r.BlogService.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return r.NotFound(c)
		}
		r.log.Error("failed to load post", slog.String("op", "http.routers.EditPostPage"), sl.Err(err))
		return views.RenderStatus(c, http.StatusInternalServerError, views.ServerError(r.page(c)))
	}

	return views.Render(c, views.Editor(views.EditorPage{
		Page:   r.page(c),
		Action: editAction(postID),
		Form:   views.EditorFormFromPost(post),
	}))
}

func (r *Routers) EditPostSubmit(c echo.Context) error {
	const op = "http.routers.EditPostSubmit"

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return r.NotFound(c)
	}

	page := views.EditorPage{Page: r.page(c), Action: editAction(postID)}

	form, err := r.bindPostForm(c)
	page.Form = editorForm(form)
	if err != nil {
		return r.editorError(c, op, page, err)
	}

	uploaded, err := r.attachImages(c, &form)
	if err != nil {
		r.discardUploads(c, uploaded)
		return r.editorError(c, op, page, err)
	}

	if _, err := r.BlogService.UpdatePost(c.Request().Context(), postID, form.ToUpdate()); err != nil {
		r.discardUploads(c, uploaded)
		if errors.Is(err, storage.ErrPostNotFound) {
			return r.NotFound(c)
		}
		return r.editorError(c, op, page, err)
	}

	return c.Redirect(http.StatusSeeOther, "/admin?notice=saved")
}

func (r *Routers) DeletePostSubmit(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return r.NotFound(c)
	}

	if err := r.BlogService.DeletePost(c.Request().Context(), postID); err != nil {
		r.log.Warn("failed to delete post",
			slog.String("op", "http.routers.DeletePostSubmit"),
			slog.String("post_id", postID.String()),
			sl.Err(err),
		)
		return c.Redirect(http.StatusSeeOther, "/admin?notice=delete_failed")
	}

	return c.Redirect(http.StatusSeeOther, "/admin?notice=deleted")
}

// bindPostForm reads the editor form. An attached markdown document fills
// the title, excerpt and content left empty.
func (r *Routers) bindPostForm(c echo.Context) (dto.PostForm, error) {
	var form dto.PostForm

	if err := c.Bind(&form); err != nil {
		return form, fmt.Errorf("bind editor form: %w", err)
	}

	if fh, err := c.FormFile("markdown_file"); err == nil && fh.Size > 0 {
		doc, err := readMarkdown(fh)
		if err != nil {
			return form, err
		}
		imported := markdown.Import(doc)
		if strings.TrimSpace(form.Title) == "" {
			form.Title = imported.Title
		}
		if strings.TrimSpace(form.Excerpt) == "" {
			form.Excerpt = imported.Excerpt
		}
		if strings.TrimSpace(form.Content) == "" {
			form.Content = imported.Content
		}
	}

	return form, nil
}

// attachImages stores the images sent with the editor form. The cover image
// replaces the cover URL and the content image is appended to the content as
// markdown. The storage paths written so far are returned even on error.
func (r *Routers) attachImages(c echo.Context, form *dto.PostForm) ([]string, error) {
	var uploaded []string

	if fh, err := c.FormFile("cover_image"); err == nil && fh.Size > 0 {
		image, err := r.uploadFormFile(c, fh)
		if err != nil {
			return uploaded, err
		}
		form.CoverImageURL = image.URL
		uploaded = append(uploaded, image.Path)
	}

	if fh, err := c.FormFile("content_image"); err == nil && fh.Size > 0 {
		image, err := r.uploadFormFile(c, fh)
		if err != nil {
			return uploaded, err
		}
		form.Content = appendImage(form.Content, image.URL)
		uploaded = append(uploaded, image.Path)
	}

	return uploaded, nil
}

func appendImage(content, url string) string {
	return content + "\n\n![Image](" + url + ")"
}

// discardUploads removes images stored for a save that failed.
func (r *Routers) discardUploads(c echo.Context, paths []string) {
	for _, path := range paths {
		if err := r.MediaService.DeleteImage(c.Request().Context(), path); err != nil {
			r.log.Warn("failed to remove orphaned upload", slog.String("path", path), sl.Err(err))
		}
	}
}

func (r *Routers) uploadFormFile(c echo.Context, fh *multipart.FileHeader) (*models.UploadedImage, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return r.MediaService.UploadImage(c.Request().Context(), models.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
	}, src)
}

func (r *Routers) editorError(c echo.Context, op string, page views.EditorPage, err error) error {
	code, _ := errorStatus(err)
	if code >= http.StatusInternalServerError {
		r.log.Error("failed to save post", slog.String("op", op), sl.Err(err))
	}
	page.Error = notice(err)
	return views.RenderStatus(c, code, views.Editor(page))
}

func readMarkdown(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open markdown: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxMarkdownImport))
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	return string(data), nil
}

func editorForm(f dto.PostForm) views.EditorForm {
	return views.EditorForm{
		Title:         f.Title,
		Excerpt:       f.Excerpt,
		Content:       f.Content,
		Tags:          f.Tags,
		CoverImageURL: f.CoverImageURL,
		Status:        f.Status,
	}
}

func editAction(id uuid.UUID) string {
	return "/admin/blog/" + id.String() + "/edit"
}
