package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort        string        `env:"HTTP_PORT,default=8080"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=5m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=24h"`
	SessionTTL      time.Duration `env:"SESSION_TTL,default=12h"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`

	PublicPathsFile string   `env:"PUBLIC_PATHS_FILE"`
	PublicURLs      []string `env:"PUBLIC_URLS"`
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS"`
	StaticDir       string   `env:"STATIC_DIR"`

	RedisURL           string `env:"REDIS_URL"`
	ApplyRatePerMinute int    `env:"APPLY_RATE_PER_MINUTE,default=10"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBConnMaxLife  time.Duration `env:"DB_CONN_MAX_LIFE,default=30m"`

	// PublicPaths is the resolved allow-list: defaults, file entries, then PUBLIC_URLS.
	PublicPaths []PublicPath
}

// PublicPath is one allow-list entry. Pattern is matched against the
// request path without its leading slash. An empty Methods list matches
// every method.
type PublicPath struct {
	Pattern string   `yaml:"pattern"`
	Methods []string `yaml:"methods"`
}

type publicPathsFile struct {
	PublicPaths []PublicPath `yaml:"public_paths"`
}

// DefaultPublicPaths are reachable without credentials.
func DefaultPublicPaths() []PublicPath {
	return []PublicPath{
		{Pattern: `^admin/login/$`},
		{Pattern: `^accounts/login/$`},
		{Pattern: `^swagger/.*$`},
		{Pattern: `^redoc/.*$`},
		{Pattern: `^api/schema/.*$`},
		{Pattern: `^api/docs/.*$`},
		{Pattern: `^api/token(/.*)?$`},
		{Pattern: `^healthz$`},
		{Pattern: `^metrics$`},
		{Pattern: `^api/apply/?$`, Methods: []string{"POST"}},
		{Pattern: `^api/applicants/?$`, Methods: []string{"POST"}},
	}
}

// Load reads envFile when present and decodes the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	paths := DefaultPublicPaths()
	if cfg.PublicPathsFile != "" {
		extra, err := LoadPublicPaths(cfg.PublicPathsFile)
		if err != nil {
			return nil, err
		}
		paths = append(paths, extra...)
	}
	for _, pattern := range cfg.PublicURLs {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			paths = append(paths, PublicPath{Pattern: pattern})
		}
	}
	for _, p := range paths {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return nil, fmt.Errorf("public path %q: %w", p.Pattern, err)
		}
	}
	cfg.PublicPaths = paths
	return &cfg, nil
}

// LoadPublicPaths reads extra allow-list entries from a YAML file.
func LoadPublicPaths(path string) ([]PublicPath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public paths: %w", err)
	}
	var file publicPathsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse public paths: %w", err)
	}
	return file.PublicPaths, nil
}
