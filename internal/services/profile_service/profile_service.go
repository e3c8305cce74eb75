package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"

	"portfolio/internal/domain/models"

	"github.com/ilyakaznacheev/cleanenv"
)

//go:embed profile.yaml
var defaultProfile []byte

// ProfileService serves the static front page data.
type ProfileService struct {
	profile models.Profile
}

// New loads the profile from path, or the embedded default when path is
// empty.
func New(log *slog.Logger, path string) (*ProfileService, error) {
	const op = "profile_service.New"

	var (
		profile models.Profile
		err     error
	)

	if path == "" {
		err = cleanenv.ParseYAML(bytes.NewReader(defaultProfile), &profile)
	} else {
		err = cleanenv.ReadConfig(path, &profile)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if profile.Name == "" {
		return nil, fmt.Errorf("%s: profile name is empty", op)
	}

	log.Debug("profile loaded",
		slog.String("op", op),
		slog.String("path", path),
		slog.Int("projects", len(profile.Projects)),
	)

	return &ProfileService{profile: profile}, nil
}

func (s *ProfileService) Profile() models.Profile {
	return s.profile
}

// WorkExperience and Education split the timeline for the two columns of
// the experience section.
func (s *ProfileService) WorkExperience() []models.Experience {
	return s.byType(models.ExperienceWork)
}

func (s *ProfileService) Education() []models.Experience {
	return s.byType(models.ExperienceEducation)
}

func (s *ProfileService) byType(t models.ExperienceType) []models.Experience {
	var out []models.Experience
	for _, e := range s.profile.Experience {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
