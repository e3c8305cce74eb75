package models

type Profile struct {
	Name         string          `yaml:"name" json:"name"`
	Headline     string          `yaml:"headline" json:"headline"`
	Tagline      string          `yaml:"tagline" json:"tagline"`
	About        []string        `yaml:"about" json:"about"`
	Location     string          `yaml:"location" json:"location"`
	Email        string          `yaml:"email" json:"email"`
	ResumeURL    string          `yaml:"resume_url" json:"resume_url,omitempty"`
	Socials      []SocialLink    `yaml:"socials" json:"socials"`
	Projects     []Project       `yaml:"projects" json:"projects"`
	Skills       []SkillCategory `yaml:"skills" json:"skills"`
	SoftSkills   []SoftSkill     `yaml:"soft_skills" json:"soft_skills"`
	Experience   []Experience    `yaml:"experience" json:"experience"`
	Achievements []Achievement   `yaml:"achievements" json:"achievements"`
}

type SocialLink struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Category     string   `yaml:"category" json:"category"`
	Status       string   `yaml:"status" json:"status"`
	Features     []string `yaml:"features" json:"features"`
	GithubURL    string   `yaml:"github_url" json:"github_url,omitempty"`
	LiveURL      string   `yaml:"live_url" json:"live_url,omitempty"`
}

type SkillCategory struct {
	Title  string  `yaml:"title" json:"title"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

type Skill struct {
	Name string `yaml:"name" json:"name"`
	// Level is a percentage in [0, 100].
	Level int `yaml:"level" json:"level"`
}

type SoftSkill struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type ExperienceType string

const (
	ExperienceWork      ExperienceType = "work"
	ExperienceEducation ExperienceType = "education"
)

type Experience struct {
	Type         ExperienceType `yaml:"type" json:"type"`
	Title        string         `yaml:"title" json:"title"`
	Company      string         `yaml:"company" json:"company"`
	Location     string         `yaml:"location" json:"location"`
	Period       string         `yaml:"period" json:"period"`
	Description  string         `yaml:"description" json:"description"`
	Technologies []string       `yaml:"technologies" json:"technologies,omitempty"`
	Achievements []string       `yaml:"achievements" json:"achievements,omitempty"`
}

type Achievement struct {
	Title       string `yaml:"title" json:"title"`
	Subtitle    string `yaml:"subtitle" json:"subtitle"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
	Year        string `yaml:"year" json:"year"`
	Impact      string `yaml:"impact" json:"impact"`
}
