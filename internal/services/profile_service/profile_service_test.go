package services

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_EmbeddedDefault(t *testing.T) {
	s, err := New(discardLogger(), "")
	require.NoError(t, err)

	p := s.Profile()
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.About)
	assert.NotEmpty(t, p.Projects)
	assert.NotEmpty(t, p.Skills)
	assert.NotEmpty(t, p.Achievements)

	for _, cat := range p.Skills {
		for _, sk := range cat.Skills {
			assert.GreaterOrEqual(t, sk.Level, 0, sk.Name)
			assert.LessOrEqual(t, sk.Level, 100, sk.Name)
		}
	}

	assert.NotEmpty(t, s.WorkExperience())
	assert.NotEmpty(t, s.Education())
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Test Person
headline: Tester
experience:
  - type: work
    title: QA
`), 0o600))

	s, err := New(discardLogger(), path)
	require.NoError(t, err)

	assert.Equal(t, "Test Person", s.Profile().Name)
	assert.Len(t, s.WorkExperience(), 1)
	assert.Empty(t, s.Education())
}

func TestNew_Errors(t *testing.T) {
	_, err := New(discardLogger(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headline: nobody\n"), 0o600))

	_, err = New(discardLogger(), path)
	assert.Error(t, err)
}
