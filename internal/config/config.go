package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int                   `yaml:"port"            env:"PORT"`
	Env            string                `yaml:"env"             env:"ENV"` // "development" | "production"
	Timezone       string                `yaml:"timezone"        env:"TIMEZONE"`
	AllowedOrigins []string              `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	LogLevel       string                `yaml:"log_level"       env:"LOG_LEVEL"`
	Paths          RuntimePathsConfig    `yaml:"paths"           envPrefix:"PATHS_"`
	Database       DatabaseRuntimeConfig `yaml:"database"        envPrefix:"DATABASE_"`
	Redis          RedisRuntimeConfig    `yaml:"redis"           envPrefix:"REDIS_"`
	Cache          CacheConfig           `yaml:"cache"           envPrefix:"CACHE_"`
	RateLimit      RateLimitConfig       `yaml:"rate_limit"      envPrefix:"RATE_LIMIT_"`
	Metrics        MetricsConfig         `yaml:"metrics"         envPrefix:"METRICS_"`

	// DSN is the resolved data source name for Database.Driver.
	DSN string `yaml:"-"`
	// RedisURL is the resolved redis:// URL.
	RedisURL string `yaml:"-"`
}

type DatabaseRuntimeConfig struct {
	Driver          string            `yaml:"driver"            env:"DRIVER"`
	DSN             string            `yaml:"dsn"               env:"DSN"`
	Host            string            `yaml:"host"              env:"HOST"`
	Port            int               `yaml:"port"              env:"PORT"`
	User            string            `yaml:"user"              env:"USER"`
	Password        string            `yaml:"password"          env:"PASSWORD"`
	Name            string            `yaml:"name"              env:"NAME"`
	Charset         string            `yaml:"charset"           env:"CHARSET"`
	Loc             string            `yaml:"loc"               env:"LOC"`
	SSLMode         string            `yaml:"sslmode"           env:"SSLMODE"`
	Path            string            `yaml:"path"              env:"PATH"`
	Params          map[string]string `yaml:"params"`
	AutoMigrate     *bool             `yaml:"auto_migrate"      env:"AUTO_MIGRATE"`
	MaxOpenConns    int               `yaml:"max_open_conns"    env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int               `yaml:"max_idle_conns"    env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration     `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

type RedisRuntimeConfig struct {
	Enable   bool   `yaml:"enable"   env:"ENABLE"`
	URL      string `yaml:"url"      env:"URL"`
	Host     string `yaml:"host"     env:"HOST"`
	Port     int    `yaml:"port"     env:"PORT"`
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db"       env:"DB"`
	TLS      bool   `yaml:"tls"      env:"TLS"`
}

type CacheConfig struct {
	Enable bool `yaml:"enable" env:"ENABLE"`
	// TTL in seconds.
	TTL int `yaml:"ttl" env:"TTL"`
}

type RateLimitConfig struct {
	Enable bool `yaml:"enable" env:"ENABLE"`
	// Max requests per client IP per second.
	Max int `yaml:"max" env:"MAX"`
}

type MetricsConfig struct {
	Enable bool   `yaml:"enable" env:"ENABLE"`
	Path   string `yaml:"path"   env:"PATH"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs" env:"LOGS"`
}

// Load reads the YAML file at configPath, then applies .env and environment overrides.
// A missing file is tolerated only for the default path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeYAML(content, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

func decodeYAML(content []byte, cfg *AppConfig) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	return decoder.Decode(cfg)
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		LogLevel: defaultLogLevel,
		Database: DatabaseRuntimeConfig{
			Driver:       defaultDriver,
			Host:         defaultDBHost,
			User:         defaultDBUser,
			Password:     defaultDBPassword,
			Name:         defaultDBName,
			Charset:      defaultDBCharset,
			Loc:          defaultDBLoc,
			MaxOpenConns: defaultMaxOpen,
			MaxIdleConns: defaultMaxIdle,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Cache:     CacheConfig{Enable: true, TTL: defaultCacheTTL},
		RateLimit: RateLimitConfig{Max: defaultRateLimit},
		Metrics:   MetricsConfig{Enable: true, Path: defaultMetrics},
	}
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.Driver != DriverSQLite && (c.Database.Port < 1 || c.Database.Port > 65535) {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must not be negative")
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache.ttl %d, expected >= 0", c.Cache.TTL)
	}
	if c.RateLimit.Max < 0 {
		return fmt.Errorf("invalid rate_limit.max %d, expected >= 0", c.RateLimit.Max)
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// ShouldAutoMigrate defaults to true when database.auto_migrate is unset.
func (c *AppConfig) ShouldAutoMigrate() bool {
	if c.Database.AutoMigrate == nil {
		return true
	}
	return *c.Database.AutoMigrate
}

func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", "logs")
	}
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}
