package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete dashboard configuration
type Config struct {
	App          AppConfig
	Server       ServerConfig
	TLS          TLSConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Session      SessionConfig
	Integrations IntegrationsConfig
	Dashboard    DashboardConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Version     string
	Environment string // development, staging, production
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port     string
	Protocol string // http or https
	Domain   string
}

// TLSConfig holds TLS/HTTPS certificate settings
type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig holds database connection settings.
// The database is optional; it backs the postgres notification source.
type DatabaseConfig struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	HealthCheckPeriod time.Duration
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
}

// RedisConfig holds the optional Redis connection used for session storage
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds browser session settings
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// IntegrationsConfig holds the external API credentials the kitchen backend talks to
type IntegrationsConfig struct {
	MapAPIKey           string
	WeatherAPIKey       string
	GoogleOAuthClientID string
	CloudinaryURL       string
	BrevoAPIKey         string
}

// DashboardConfig holds dashboard behaviour settings
type DashboardConfig struct {
	SetupPath           string
	NotificationsSource string // static or postgres
	NotificationsLimit  int

	// NotificationsCacheTTL is how long shared notification responses are cached; 0 disables
	NotificationsCacheTTL time.Duration
}

// Notification sources
const (
	NotificationsSourceStatic   = "static"
	NotificationsSourcePostgres = "postgres"
)

// LoadConfig loads configuration from the environment (and .env when present)
func LoadConfig(logger *slog.Logger) (*Config, error) {
	// Load .env file (ignore error if it doesn't exist)
	godotenv.Load()

	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("loading dashboard configuration")

	config := &Config{}

	loadAppConfig(&config.App, logger)

	if err := loadServerConfig(&config.Server, logger); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	loadTLSConfig(&config.TLS, logger)
	loadDashboardConfig(&config.Dashboard, logger)

	if err := loadDatabaseConfig(&config.Database, config.Dashboard.NotificationsSource, logger); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	loadRedisConfig(&config.Redis, logger)

	if err := loadSessionConfig(&config.Session, config.App.Environment, logger); err != nil {
		return nil, fmt.Errorf("failed to load session config: %w", err)
	}

	loadIntegrationsConfig(&config.Integrations, logger)

	logger.Info("configuration loaded successfully",
		"environment", config.App.Environment,
		"version", config.App.Version,
		"port", config.Server.Port,
		"notifications_source", config.Dashboard.NotificationsSource,
	)

	return config, nil
}

func loadAppConfig(cfg *AppConfig, logger *slog.Logger) {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "1.0.0"
		logger.Warn("VERSION not set, using default", "default", version)
	}
	cfg.Version = version

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
		logger.Warn("ENV not set, using default", "default", env)
	}
	cfg.Environment = env
}

func loadServerConfig(cfg *ServerConfig, logger *slog.Logger) error {
	port := os.Getenv("PORT")
	if port == "" {
		return fmt.Errorf("PORT environment variable is required")
	}
	cfg.Port = port

	protocol := os.Getenv("PROTOCOL")
	if protocol == "" {
		protocol = "http"
		logger.Warn("PROTOCOL not set, using default", "default", protocol)
	}
	cfg.Protocol = protocol

	domain := os.Getenv("DOMAIN")
	if domain == "" {
		domain = "localhost"
		logger.Warn("DOMAIN not set, using default", "default", domain)
	}
	cfg.Domain = domain

	return nil
}

func loadTLSConfig(cfg *TLSConfig, logger *slog.Logger) {
	cfg.CertFile = os.Getenv("TLS_CERT_FILE")
	cfg.KeyFile = os.Getenv("TLS_KEY_FILE")
	cfg.Enabled = cfg.CertFile != "" && cfg.KeyFile != ""

	if cfg.Enabled {
		logger.Info("TLS enabled", "cert_file", cfg.CertFile, "key_file", cfg.KeyFile)
	}
}

func loadDashboardConfig(cfg *DashboardConfig, logger *slog.Logger) {
	cfg.SetupPath = os.Getenv("SETUP_PATH")
	if cfg.SetupPath == "" {
		cfg.SetupPath = "/setup"
	}

	source := strings.ToLower(os.Getenv("NOTIFICATIONS_SOURCE"))
	switch source {
	case NotificationsSourceStatic, NotificationsSourcePostgres:
	case "":
		source = NotificationsSourceStatic
	default:
		logger.Warn("unknown NOTIFICATIONS_SOURCE, using default",
			"value", source,
			"default", NotificationsSourceStatic,
		)
		source = NotificationsSourceStatic
	}
	cfg.NotificationsSource = source

	cfg.NotificationsLimit = getEnvAsInt("NOTIFICATIONS_LIMIT", 20)
	cfg.NotificationsCacheTTL = time.Duration(getEnvAsInt("NOTIFICATIONS_CACHE_SECONDS", 15)) * time.Second
}

func loadDatabaseConfig(cfg *DatabaseConfig, source string, logger *slog.Logger) error {
	cfg.URL = os.Getenv("DB_URL")
	if cfg.URL == "" {
		if source == NotificationsSourcePostgres {
			return fmt.Errorf("DB_URL environment variable is required for the postgres notification source")
		}
		return nil
	}

	cfg.MaxConns = getEnvAsInt32("DB_MAX_CONNS", 10)
	cfg.MinConns = getEnvAsInt32("DB_MIN_CONNS", 2)

	healthCheckSec := getEnvAsInt32("DB_HEALTH_CHECK_PERIOD_SECONDS", 60)
	cfg.HealthCheckPeriod = time.Duration(healthCheckSec) * time.Second

	maxLifetimeMin := getEnvAsInt32("DB_MAX_CONN_LIFETIME_MINUTES", 0)
	cfg.MaxConnLifetime = time.Duration(maxLifetimeMin) * time.Minute

	maxIdleMin := getEnvAsInt32("DB_MAX_CONN_IDLE_TIME_MINUTES", 0)
	cfg.MaxConnIdleTime = time.Duration(maxIdleMin) * time.Minute

	logger.Debug("database config loaded",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
	)

	return nil
}

func loadRedisConfig(cfg *RedisConfig, logger *slog.Logger) {
	cfg.Addr = os.Getenv("REDIS_ADDR")
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	cfg.DB = getEnvAsInt("REDIS_DB", 0)

	if cfg.Addr != "" {
		logger.Debug("Redis config loaded", "addr", cfg.Addr, "db", cfg.DB)
	}
}

func loadSessionConfig(cfg *SessionConfig, env string, logger *slog.Logger) error {
	cfg.Secret = os.Getenv("SESSION_SECRET")
	if cfg.Secret == "" {
		if env == "production" {
			return fmt.Errorf("SESSION_SECRET environment variable is required")
		}
		cfg.Secret = "insecure-development-session-secret"
		logger.Warn("SESSION_SECRET not set, using development secret")
	}

	cfg.TTL = time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 12)) * time.Hour
	cfg.CookieSecure = getEnvAsBool("COOKIE_SECURE", env == "production")

	return nil
}

func loadIntegrationsConfig(cfg *IntegrationsConfig, logger *slog.Logger) {
	cfg.MapAPIKey = os.Getenv("MAP_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.GoogleOAuthClientID = os.Getenv("GOOGLE_OAUTH_CLIENT_ID")
	cfg.CloudinaryURL = os.Getenv("CLOUDINARY_URL")
	cfg.BrevoAPIKey = os.Getenv("BREVO_API_KEY")

	logger.Debug("integrations config loaded",
		"map_api_key_set", cfg.MapAPIKey != "",
		"weather_api_key_set", cfg.WeatherAPIKey != "",
		"google_oauth_client_id_set", cfg.GoogleOAuthClientID != "",
	)
}

// Helper functions

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvAsInt32(key string, defaultVal int32) int32 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return int32(parsed)
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetServerAddress returns the full server address (protocol://domain:port)
func (c *Config) GetServerAddress() string {
	if c.Server.Protocol == "https" && c.Server.Port == "443" {
		return fmt.Sprintf("https://%s", c.Server.Domain)
	}
	if c.Server.Protocol == "http" && c.Server.Port == "80" {
		return fmt.Sprintf("http://%s", c.Server.Domain)
	}
	return fmt.Sprintf("%s://%s:%s", c.Server.Protocol, c.Server.Domain, c.Server.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Dashboard.NotificationsSource == NotificationsSourcePostgres && c.Database.URL == "" {
		return fmt.Errorf("database URL is required for the postgres notification source")
	}
	if !strings.HasPrefix(c.Dashboard.SetupPath, "/") {
		return fmt.Errorf("setup path must be absolute, got %q", c.Dashboard.SetupPath)
	}
	if c.IsProduction() && !c.Session.CookieSecure {
		return fmt.Errorf("secure cookies are required in production")
	}
	return nil
}
