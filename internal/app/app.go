package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"portfolio/internal/clients/emailjs"
	"portfolio/internal/config"
	"portfolio/internal/lib/limiter"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/repository"
	"portfolio/internal/services/auth"
	blogsrv "portfolio/internal/services/blog_service"
	contactsrv "portfolio/internal/services/contact_service"
	mediasrv "portfolio/internal/services/media_service"
	profilesrv "portfolio/internal/services/profile_service"
	tokensrv "portfolio/internal/services/token_service"
	"portfolio/internal/storage/bucket"
	"portfolio/internal/storage/cache"
	filestorage "portfolio/internal/storage/filestorage"
	"portfolio/internal/storage/postgresql"
	redisapp "portfolio/internal/storage/redis"
	httprouters "portfolio/internal/transport/http"
	"portfolio/internal/transport/http/views"

	httpapp "portfolio/internal/app/http"
)

const (
	driverLocal = "local"
	driverMinio = "minio"
	driverS3    = "s3"
)

type App struct {
	HTTPServer *httpapp.Server

	log     *slog.Logger
	storage *postgresql.Storage
	redis   *redisapp.Client
	limiter *limiter.LoginLimiter
}

// New connects the backing services, applies migrations and assembles the
// HTTP server. Resources opened before a failure are released.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (_ *App, err error) {
	const op = "app.New"

	a := &App{log: log}
	defer func() {
		if err != nil {
			a.Stop()
		}
	}()

	a.storage, err = postgresql.New(ctx, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.storage.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.New(a.storage.Pool())

	if _, err := repo.Author.EnsureAuthor(ctx, cfg.Admin.Name, cfg.Admin.Email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.redis = redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := a.redis.HealthCheck(ctx); err != nil {
		// Tokens and contact throttling degrade without redis; the site still serves.
		log.Warn("redis is unreachable", sl.Err(err))
	}

	store, uploadsDir, err := newObjectStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.limiter = limiter.NewLoginLimiter(cfg.Limits.LoginMaxAttempts, cfg.Limits.LoginWindow)

	blogService := blogsrv.NewBlogService(
		log,
		repo.Blog,
		repo.Author,
		repo.Tag,
		cache.NewPostCache(cfg.Cache.TTL),
		cfg.Admin.Email,
	)
	authService := auth.New(log, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.PasswordHash, a.limiter)
	tokenService := tokensrv.NewTokenService(
		log,
		repository.NewRedisTokenRepo(a.redis),
		cfg.Token.Secret,
		cfg.Token.AccessTTL,
		cfg.Token.RefreshTTL,
	)
	contactService := contactsrv.NewContactService(
		log,
		emailjs.New(cfg.Email.Endpoint, cfg.Email.PrivateKey, cfg.Email.Timeout),
		contactsrv.EmailTemplate{
			ServiceID:  cfg.Email.ServiceID,
			TemplateID: cfg.Email.TemplateID,
			PublicKey:  cfg.Email.PublicKey,
			ToEmail:    cfg.Email.ToEmail,
		},
		repository.NewRedisRateLimitRepo(a.redis),
		cfg.Limits.ContactPerHour,
	)
	mediaService := mediasrv.NewMediaService(log, store, cfg.Upload.MaxSize, cfg.Upload.MaxWidth)

	profileService, err := profilesrv.New(log, cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	routers := httprouters.NewRouter(
		log,
		views.Site{Name: cfg.Site.Name, Description: cfg.Site.Description, URL: cfg.Site.URL},
		blogService,
		authService,
		tokenService,
		contactService,
		mediaService,
		profileService,
	)

	a.HTTPServer = httpapp.New(log, httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		Timeout:       cfg.HTTP.Timeout,
		IdleTimeout:   cfg.HTTP.IdleTimeout,
		SessionSecret: cfg.Session.Secret,
		SessionMaxAge: cfg.Session.MaxAge,
		CookieSecure:  cfg.HTTP.CookieSecure,
		BodyLimit:     bodyLimit(cfg.Upload.MaxSize),
		UploadsDir:    uploadsDir,
		Health: map[string]httpapp.HealthFunc{
			"postgres": a.storage.HealthCheck,
			"redis":    a.redis.HealthCheck,
		},
	}, routers)
	a.HTTPServer.BuildRouters()

	return a, nil
}

// Stop releases every resource New opened. It is safe on a partial App.
func (a *App) Stop() {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Stop(); err != nil {
			a.log.Error("failed to stop http server", sl.Err(err))
		}
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.storage != nil {
		a.storage.Stop()
	}
}

// newObjectStorage picks the image store for cfg.ObjectStorage.Driver. The
// returned directory is non-empty only for the local driver.
func newObjectStorage(ctx context.Context, cfg *config.Config) (mediasrv.ObjectStorage, string, error) {
	const op = "app.newObjectStorage"

	oc := cfg.ObjectStorage

	switch strings.ToLower(oc.Driver) {
	case driverLocal, "":
		publicURL := oc.PublicURL
		if publicURL == "" {
			publicURL = strings.TrimRight(cfg.Site.URL, "/") + "/uploads"
		}
		store, err := filestorage.NewLocalFileStorage(oc.BaseDir, publicURL)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		return store, oc.BaseDir, nil
	case driverMinio:
		store, err := bucket.NewMinio(bucket.MinioConfig{
			Endpoint:  oc.Endpoint,
			AccessKey: oc.AccessKey,
			SecretKey: oc.SecretKey,
			Region:    oc.Region,
			UseSSL:    oc.UseSSL,
			Bucket:    oc.Bucket,
			PublicURL: oc.PublicURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		return store, "", nil
	case driverS3:
		store, err := bucket.NewS3(ctx, bucket.S3Config{
			Endpoint:  oc.Endpoint,
			AccessKey: oc.AccessKey,
			SecretKey: oc.SecretKey,
			Region:    oc.Region,
			UseSSL:    oc.UseSSL,
			Bucket:    oc.Bucket,
			PublicURL: oc.PublicURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("%s: unknown object storage driver %q", op, oc.Driver)
	}
}

// bodyLimit leaves room for multipart overhead on top of the image limit.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		return ""
	}
	return fmt.Sprintf("%dK", maxUpload/1024+1024)
}
