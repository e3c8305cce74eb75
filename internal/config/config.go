package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string              `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath   string              `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	ProfilePath   string              `yaml:"profile_path" env:"PROFILE_PATH"`
	HTTP          HTTPConfig          `yaml:"http"`
	Session       SessionConfig       `yaml:"session"`
	Admin         AdminConfig         `yaml:"admin"`
	Token         TokenConfig         `yaml:"token"`
	Redis         RedisConf           `yaml:"redis"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Upload        UploadConfig        `yaml:"upload"`
	Email         EmailConfig         `yaml:"email"`
	Site          SiteConfig          `yaml:"site"`
	Cache         CacheConfig         `yaml:"cache"`
	Limits        LimitsConfig        `yaml:"limits"`
	Tracing       TracingConfig       `yaml:"tracing"`
}

type HTTPConfig struct {
	Host        string        `yaml:"host" env:"HTTP_HOST"`
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// CookieSecure marks session cookies Secure; enable behind TLS.
	CookieSecure bool `yaml:"cookie_secure" env:"HTTP_COOKIE_SECURE"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	MaxAge time.Duration `yaml:"max_age" env-default:"12h"`
}

// AdminConfig describes the single operator allowed into /admin.
type AdminConfig struct {
	Email        string `yaml:"email" env:"ADMIN_EMAIL" env-required:"true"`
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH" env-required:"true"`
	Name         string `yaml:"name" env:"ADMIN_NAME" env-default:"Site Owner"`
}

type TokenConfig struct {
	Secret     string        `yaml:"secret" env:"TOKEN_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type ObjectStorageConfig struct {
	// Driver is one of local, minio, s3.
	Driver    string `yaml:"driver" env:"OBJECT_STORAGE_DRIVER" env-default:"local"`
	Bucket    string `yaml:"bucket" env:"OBJECT_STORAGE_BUCKET" env-default:"blog-images"`
	Endpoint  string `yaml:"endpoint" env:"OBJECT_STORAGE_ENDPOINT"`
	Region    string `yaml:"region" env:"OBJECT_STORAGE_REGION" env-default:"us-east-1"`
	AccessKey string `yaml:"access_key" env:"OBJECT_STORAGE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"OBJECT_STORAGE_SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl" env:"OBJECT_STORAGE_USE_SSL"`
	PublicURL string `yaml:"public_url" env:"OBJECT_STORAGE_PUBLIC_URL"`
	BaseDir   string `yaml:"base_dir" env-default:"./uploads"`
}

type UploadConfig struct {
	MaxSize  int64 `yaml:"max_size" env-default:"10485760"`
	MaxWidth int   `yaml:"max_width" env-default:"1600"`
}

type EmailConfig struct {
	Endpoint   string        `yaml:"endpoint" env:"EMAIL_ENDPOINT" env-default:"https://api.emailjs.com"`
	ServiceID  string        `yaml:"service_id" env:"EMAIL_SERVICE_ID"`
	TemplateID string        `yaml:"template_id" env:"EMAIL_TEMPLATE_ID"`
	PublicKey  string        `yaml:"public_key" env:"EMAIL_PUBLIC_KEY"`
	PrivateKey string        `yaml:"private_key" env:"EMAIL_PRIVATE_KEY"`
	ToEmail    string        `yaml:"to_email" env:"EMAIL_TO"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

type SiteConfig struct {
	Name        string `yaml:"name" env-default:"Portfolio"`
	Description string `yaml:"description" env-default:"Projects, experience and writing"`
	URL         string `yaml:"url" env:"SITE_URL" env-default:"http://localhost:8080"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env-default:"5m"`
}

type LimitsConfig struct {
	ContactPerHour   int64         `yaml:"contact_per_hour" env-default:"5"`
	LoginMaxAttempts int           `yaml:"login_max_attempts" env-default:"5"`
	LoginWindow      time.Duration `yaml:"login_window" env-default:"15m"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" env:"TRACING_ENABLED"`
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"portfolio"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

func LoadPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &PathError{Path: configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "config file does not exist: " + e.Path
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
