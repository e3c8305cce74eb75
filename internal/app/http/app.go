package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"portfolio/internal/lib/logger/sl"
	mw "portfolio/internal/middleware"
	httprouters "portfolio/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// HealthFunc reports whether a backing service is reachable.
type HealthFunc func(ctx context.Context) error

type Options struct {
	Host          string
	Port          string
	Timeout       time.Duration
	IdleTimeout   time.Duration
	SessionSecret string
	SessionMaxAge time.Duration
	CookieSecure  bool
	// BodyLimit caps request bodies, e.g. "12M".
	BodyLimit string
	// UploadsDir is served under /uploads when images are stored on disk.
	UploadsDir string
	Health     map[string]HealthFunc
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	srv     *http.Server
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = routers.ErrorHandler

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Warn("request", append(attrs, sl.Err(v.Error))...)
				return nil
			}
			log.Info("request", attrs...)

			return nil
		},
	}))

	e.Use(mw.PrometheusMetrics)
	e.Use(mw.CacheControl)

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      func(c echo.Context) bool { return !strings.HasPrefix(c.Path(), "/api/") },
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'",
	}))

	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	e.Use(session.Middleware(store))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper:        skipCSRF,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   opts.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// skipCSRF leaves token-authenticated and machine endpoints alone.
func skipCSRF(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range []string{"/api/", "/metrics", "/health", "/debug/", "/swagger/"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	s.srv = &http.Server{
		Addr:         s.addr(),
		Handler:      otelhttp.NewHandler(s.e, "http.server"),
		ReadTimeout:  s.opts.Timeout,
		WriteTimeout: s.opts.Timeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	if s.srv == nil {
		return nil
	}

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.srv.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.opts.Host, s.opts.Port)
}

// health pings every registered dependency and reports the failing ones.
func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	code := http.StatusOK
	for name, check := range s.opts.Health {
		if err := check(ctx); err != nil {
			s.log.Warn("health check failed", slog.String("dependency", name), sl.Err(err))
			status[name] = "down"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "up"
	}

	return c.JSON(code, status)
}

func (s *Server) BuildRouters() {
	r := s.routers

	s.e.GET("/health", s.health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.opts.UploadsDir != "" {
		s.e.Static("/uploads", s.opts.UploadsDir)
	}

	s.e.GET("/", r.HomePage)
	s.e.POST("/contact", r.ContactForm)
	s.e.GET("/blog", r.BlogListPage)
	s.e.GET("/blog/:slug", r.BlogPostPage)
	s.e.GET("/rss.xml", r.RSS)
	s.e.GET("/sitemap.xml", r.Sitemap)

	s.e.GET("/admin/auth", r.AdminAuthPage)
	s.e.POST("/admin/auth", r.AdminAuthSubmit)
	s.e.POST("/admin/logout", r.Logout)

	admin := s.e.Group("/admin", r.RequireAdminPage)
	{
		admin.GET("", r.AdminDashboardPage)
		admin.GET("/blog/new", r.NewPostPage)
		admin.POST("/blog/new", r.NewPostSubmit)
		admin.GET("/blog/:id/edit", r.EditPostPage)
		admin.POST("/blog/:id/edit", r.EditPostSubmit)
		admin.POST("/blog/:id/delete", r.DeletePostSubmit)
	}

	api := s.e.Group("/api/v1")
	{
		api.GET("/profile", r.GetProfile)
		api.GET("/posts", r.ListPosts)
		api.GET("/posts/:slug", r.GetPost)
		api.GET("/tags", r.ListTags)
		api.POST("/contact", r.SendContact)
		api.POST("/admin/login", r.Login)
		api.POST("/admin/refresh", r.Refresh)

		adminAPI := api.Group("/admin", r.RequireAdminAPI)
		{
			adminAPI.GET("/posts", r.AdminListPosts)
			adminAPI.POST("/posts", r.CreatePost)
			adminAPI.GET("/posts/:id", r.AdminGetPost)
			adminAPI.PUT("/posts/:id", r.UpdatePost)
			adminAPI.DELETE("/posts/:id", r.DeletePost)
			adminAPI.POST("/images", r.UploadImage)
		}
	}

	s.e.RouteNotFound("/*", r.NotFound)
}
