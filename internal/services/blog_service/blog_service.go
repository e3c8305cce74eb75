package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/lib/markdown"
	"portfolio/internal/lib/slug"
	"portfolio/internal/metrics"
	"portfolio/internal/repository"
	"portfolio/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidStatus   = errors.New("invalid post status")
)

// PostCache holds published reads. Writers pass the Generation taken before
// their database read; a write from before the last Invalidate is dropped.
type PostCache interface {
	Generation() uint64
	GetList(search, tag string) ([]models.BlogPost, bool)
	SetList(gen uint64, search, tag string, posts []models.BlogPost)
	GetPost(slug string) (*models.BlogPost, bool)
	SetPost(gen uint64, post *models.BlogPost)
	Invalidate()
}

type BlogService struct {
	log        *slog.Logger
	repo       repository.BlogRepository
	authors    repository.AuthorRepository
	tags       repository.TagRepository
	cache      PostCache
	adminEmail string
	now        func() time.Time
}

// NewBlogService wires the blog repositories. Posts created through the
// service are attributed to the author row matching adminEmail.
func NewBlogService(
	log *slog.Logger,
	repo repository.BlogRepository,
	authors repository.AuthorRepository,
	tags repository.TagRepository,
	cache PostCache,
	adminEmail string,
) *BlogService {
	return &BlogService{
		log:        log,
		repo:       repo,
		authors:    authors,
		tags:       tags,
		cache:      cache,
		adminEmail: adminEmail,
		now:        time.Now,
	}
}

// ListPosts returns every post, newest first, for the admin dashboard.
func (s *BlogService) ListPosts(ctx context.Context, includeContent bool) ([]models.BlogPost, error) {
	return s.SearchPosts(ctx, "", includeContent)
}

// SearchPosts is ListPosts narrowed by a title/excerpt search.
func (s *BlogService) SearchPosts(ctx context.Context, search string, includeContent bool) ([]models.BlogPost, error) {
	const op = "blog_service.SearchPosts"
	log := s.log.With(slog.String("op", op))

	posts, err := s.repo.GetBlogPosts(ctx, models.PostFilter{
		Search:         search,
		IncludeContent: includeContent,
	})
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.resolve(ctx, posts); err != nil {
		log.Error("failed to resolve authors and tags", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

// ListPublishedPosts returns published posts without content, newest
// publication first. The tag filter runs over the resolved tags.
func (s *BlogService) ListPublishedPosts(ctx context.Context, search, tag string) ([]models.BlogPost, error) {
	const op = "blog_service.ListPublishedPosts"
	log := s.log.With(slog.String("op", op))

	search = strings.TrimSpace(search)
	tag = strings.TrimSpace(tag)

	if cached, ok := s.cache.GetList(search, tag); ok {
		metrics.PostCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.PostCacheLookups.WithLabelValues("miss").Inc()
	gen := s.cache.Generation()

	posts, err := s.repo.GetBlogPosts(ctx, models.PostFilter{
		Status: models.StatusPublished,
		Search: search,
	})
	if err != nil {
		log.Error("failed to list published posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.resolve(ctx, posts); err != nil {
		log.Error("failed to resolve authors and tags", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts = FilterByTag(posts, tag)
	for i := range posts {
		posts[i].Content = ""
	}

	s.cache.SetList(gen, search, tag, posts)

	return posts, nil
}

// FilterByTag keeps the posts carrying tagSlug; an empty slug keeps all.
func FilterByTag(posts []models.BlogPost, tagSlug string) []models.BlogPost {
	if tagSlug == "" {
		return posts
	}

	filtered := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.HasTag(tagSlug) {
			filtered = append(filtered, p)
		}
	}

	return filtered
}

// GetPostBySlug loads a published post; drafts are reported as missing.
func (s *BlogService) GetPostBySlug(ctx context.Context, postSlug string) (*models.BlogPost, error) {
	const op = "blog_service.GetPostBySlug"
	log := s.log.With(slog.String("op", op), slog.String("slug", postSlug))

	if cached, ok := s.cache.GetPost(postSlug); ok {
		metrics.PostCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.PostCacheLookups.WithLabelValues("miss").Inc()
	gen := s.cache.Generation()

	post, err := s.repo.GetBlogPostBySlug(ctx, postSlug)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if post.Status != models.StatusPublished {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	if err := s.resolveOne(ctx, post); err != nil {
		log.Error("failed to resolve authors and tags", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetPost(gen, post)

	return post, nil
}

// GetPostByID loads a post in any status for the editor.
func (s *BlogService) GetPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const op = "blog_service.GetPostByID"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))

	post, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.resolveOne(ctx, post); err != nil {
		log.Error("failed to resolve authors and tags", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (s *BlogService) CreatePost(ctx context.Context, in models.PostInput) (*models.BlogPost, error) {
	const op = "blog_service.CreatePost"
	log := s.log.With(slog.String("op", op))

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrContentRequired)
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}

	author, err := s.authors.GetAuthorByEmail(ctx, s.adminEmail)
	if err != nil {
		log.Error("failed to resolve author", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post := models.BlogPost{
		Title:         title,
		Slug:          slug.Make(title),
		Content:       in.Content,
		AuthorID:      author.ID,
		Status:        status,
		Excerpt:       optional(in.Excerpt),
		CoverImageURL: optional(in.CoverImageURL),
	}

	if post.Excerpt == nil {
		post.Excerpt = optional(markdown.Excerpt(in.Content))
	}

	if status == models.StatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	saved, err := s.repo.SaveBlogPost(ctx, post)
	if err != nil {
		log.Error("failed to create post", sl.Err(err), slog.String("slug", post.Slug))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Invalidate()
	metrics.PostMutationsTotal.WithLabelValues("create").Inc()

	if len(in.Tags) > 0 {
		if err := s.syncTags(ctx, saved.ID, in.Tags); err != nil {
			log.Error("failed to sync tags", sl.Err(err), slog.String("post_id", saved.ID.String()))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("post created", slog.String("post_id", saved.ID.String()), slog.String("slug", saved.Slug))

	if err := s.resolveOne(ctx, saved); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

// UpdatePost applies the non-nil fields of upd. A new title regenerates the
// slug; published_at is stamped only when the post becomes published. A blank
// excerpt is derived from the content, as on create.
func (s *BlogService) UpdatePost(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.BlogPost, error) {
	const op = "blog_service.UpdatePost"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))

	existing, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]interface{})

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrTitleRequired)
		}
		updates["title"] = title
		updates["slug"] = slug.Make(title)
	}
	if upd.Content != nil {
		if strings.TrimSpace(*upd.Content) == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrContentRequired)
		}
		updates["content"] = *upd.Content
	}
	if upd.Excerpt != nil {
		excerpt := *upd.Excerpt
		if strings.TrimSpace(excerpt) == "" {
			content := existing.Content
			if upd.Content != nil {
				content = *upd.Content
			}
			excerpt = markdown.Excerpt(content)
		}
		updates["excerpt"] = optional(excerpt)
	}
	if upd.CoverImageURL != nil {
		updates["cover_image_url"] = optional(*upd.CoverImageURL)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
		}
		updates["status"] = *upd.Status
		if *upd.Status == models.StatusPublished && existing.Status != models.StatusPublished {
			updates["published_at"] = s.now()
		}
	}

	updated := existing
	if len(updates) > 0 {
		updated, err = s.repo.UpdateBlogPostFields(ctx, id, updates)
		if err != nil {
			log.Error("failed to update post", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.cache.Invalidate()
	metrics.PostMutationsTotal.WithLabelValues("update").Inc()

	if upd.Tags != nil {
		if err := s.syncTags(ctx, id, upd.Tags); err != nil {
			log.Error("failed to sync tags", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("post updated", slog.Int("fields", len(updates)))

	if err := s.resolveOne(ctx, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *BlogService) DeletePost(ctx context.Context, id uuid.UUID) error {
	const op = "blog_service.DeletePost"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))

	if err := s.repo.DeleteBlogPost(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to delete post", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Invalidate()
	metrics.PostMutationsTotal.WithLabelValues("delete").Inc()

	log.Info("post deleted")

	return nil
}

func (s *BlogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "blog_service.ListTags"

	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		s.log.Error("failed to list tags", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}

// Stats counts posts by status.
func (s *BlogService) Stats(posts []models.BlogPost) models.PostStats {
	stats := models.PostStats{Total: len(posts)}
	for _, p := range posts {
		switch p.Status {
		case models.StatusPublished:
			stats.Published++
		case models.StatusDraft:
			stats.Drafts++
		}
	}
	return stats
}

// syncTags replaces the post's tag associations: every existing row is
// removed, each name is resolved to a tag (created when missing) and the
// new associations are inserted in one statement. A failure midway is
// returned as is; associations already removed stay removed.
func (s *BlogService) syncTags(ctx context.Context, postID uuid.UUID, names []string) error {
	const op = "blog_service.syncTags"

	if err := s.tags.DeletePostTags(ctx, postID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[uuid.UUID]struct{}, len(names))
	ids := make([]uuid.UUID, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		tagSlug := slug.Make(name)
		if tagSlug == "" {
			continue
		}

		tag, err := s.tags.GetTagBySlug(ctx, tagSlug)
		if errors.Is(err, storage.ErrTagNotFound) {
			tag, err = s.tags.SaveTag(ctx, name, tagSlug)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		ids = append(ids, tag.ID)
	}

	if err := s.tags.AddPostTags(ctx, postID, ids); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// resolve fetches the author and the tags of every post concurrently. The
// first failure cancels the remaining fetches.
func (s *BlogService) resolve(ctx context.Context, posts []models.BlogPost) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := range posts {
		post := &posts[i]

		g.Go(func() error {
			author, err := s.authors.GetAuthorByID(gctx, post.AuthorID)
			if err != nil {
				return err
			}
			post.Author = author
			return nil
		})

		g.Go(func() error {
			tags, err := s.tags.GetTagsByPostID(gctx, post.ID)
			if err != nil {
				return err
			}
			post.Tags = tags
			return nil
		})
	}

	return g.Wait()
}

func (s *BlogService) resolveOne(ctx context.Context, post *models.BlogPost) error {
	posts := []models.BlogPost{*post}
	if err := s.resolve(ctx, posts); err != nil {
		return err
	}
	*post = posts[0]
	return nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
