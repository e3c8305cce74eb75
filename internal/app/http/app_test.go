package httpapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httprouters "portfolio/internal/transport/http"
	"portfolio/internal/transport/http/views"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestServer(health map[string]HealthFunc) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	routers := httprouters.NewRouter(log, views.Site{Name: "Test"}, nil, nil, nil, nil, nil, nil)

	return New(log, Options{SessionSecret: "secret", Health: health}, routers)
}

func TestHealth(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name     string
		health   map[string]HealthFunc
		expected int
		body     string
	}{
		{name: "all up", health: map[string]HealthFunc{"postgres": up, "redis": up}, expected: http.StatusOK, body: `"redis":"up"`},
		{name: "redis down", health: map[string]HealthFunc{"postgres": up, "redis": down}, expected: http.StatusServiceUnavailable, body: `"redis":"down"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.health)
			s.e.GET("/health", s.health)

			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expected, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestSkipCSRF(t *testing.T) {
	e := echo.New()

	tests := []struct {
		path string
		skip bool
	}{
		{path: "/api/v1/admin/posts", skip: true},
		{path: "/metrics", skip: true},
		{path: "/health", skip: true},
		{path: "/debug/statsviz/", skip: true},
		{path: "/admin/auth", skip: false},
		{path: "/contact", skip: false},
		{path: "/admin/blog/new", skip: false},
	}

	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodPost, tt.path, nil), httptest.NewRecorder())
		assert.Equal(t, tt.skip, skipCSRF(c), tt.path)
	}
}

func TestAddr(t *testing.T) {
	s := &Server{opts: Options{Host: "localhost", Port: "8080"}}
	assert.Equal(t, "localhost:8080", s.addr())

	s.opts.Host = ""
	assert.Equal(t, ":8080", s.addr())
}
