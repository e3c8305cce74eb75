package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/services/auth"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Suite runs the whole application against throwaway postgres and redis
// containers and serves it from an httptest server.
type Suite struct {
	*testing.T
	Cfg      *config.Config
	App      *app.App
	Server   *httptest.Server
	Password string
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("end-to-end tests are skipped in short mode")
	}

	t.Parallel()

	cfg := config.MustLoadPath(configPath())

	ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancelCtx)

	password := gofakeit.Password(true, true, true, false, false, 16)
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	cfg.StoragePath = startPostgres(ctx, t)
	cfg.Redis.RedisAddr = startRedis(ctx, t)
	cfg.Redis.RedisPassword = ""
	cfg.Admin.Email = gofakeit.Email()
	cfg.Admin.Name = gofakeit.Name()
	cfg.Admin.PasswordHash = hash
	cfg.ProfilePath = ""
	cfg.ObjectStorage.Driver = "local"
	cfg.ObjectStorage.BaseDir = t.TempDir()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(ctx, log, cfg)
	require.NoError(t, err)

	server := httptest.NewServer(application.HTTPServer.Echo())

	t.Cleanup(func() {
		t.Helper()
		server.Close()
		application.Stop()
	})

	return ctx, &Suite{
		T:        t,
		Cfg:      cfg,
		App:      application,
		Server:   server,
		Password: password,
	}
}

func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "portfolio",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/portfolio?sslmode=disable", host, port.Port())
}

func startRedis(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func configPath() string {
	const key = "CONFIG_PATH"

	if v := os.Getenv(key); v != "" {
		return v
	}

	return "../config/local.yaml"
}
