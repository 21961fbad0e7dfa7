package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Cache    CacheConfig
	Browser  BrowserConfig
	Database DatabaseConfig
	Notify   NotifyConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
	MinDelay    time.Duration
	MaxDelay    time.Duration
	UserAgents  []string
	Proxies     []string
}

type CacheConfig struct {
	Backend   string // disk, redis or memory
	Dir       string
	TTL       time.Duration
	RedisAddr string
	RedisDB   int
	MaxKeys   int // memory backend only
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type NotifyConfig struct {
	Enabled  bool
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	To       string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			MaxAttempts: getIntOrDefault("SCRAPER_MAX_ATTEMPTS", 3),
			RetryDelay:  getDurationOrDefault("SCRAPER_RETRY_DELAY", 3*time.Second),
			MinDelay:    getDurationOrDefault("SCRAPER_MIN_DELAY", 0),
			MaxDelay:    getDurationOrDefault("SCRAPER_MAX_DELAY", 0),
			UserAgents:  getStringSliceOrDefault("SCRAPER_USER_AGENTS", defaultUserAgents()),
			Proxies:     getStringSliceOrDefault("SCRAPER_PROXIES", []string{}),
		},
		Cache: CacheConfig{
			Backend:   getEnvOrDefault("CACHE_BACKEND", "disk"),
			Dir:       getEnvOrDefault("CACHE_DIR", "cache_directory"),
			TTL:       getDurationOrDefault("CACHE_TTL", 86400*time.Second),
			RedisAddr: getEnvOrDefault("CACHE_REDIS_ADDR", "localhost:6379"),
			RedisDB:   getIntOrDefault("CACHE_REDIS_DB", 0),
			MaxKeys:   getIntOrDefault("CACHE_MAX_KEYS", 1024),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 60*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "es-AR"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "gaucho"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},
		Notify: NotifyConfig{
			Enabled:  getBoolOrDefault("NOTIFY_ENABLED", false),
			SMTPHost: getEnvOrDefault("NOTIFY_SMTP_HOST", "smtp.example.com"),
			SMTPPort: getIntOrDefault("NOTIFY_SMTP_PORT", 465),
			Username: getEnvOrDefault("NOTIFY_USERNAME", ""),
			Password: getEnvOrDefault("NOTIFY_PASSWORD", ""),
			From:     getEnvOrDefault("NOTIFY_FROM", "from_email@example.com"),
			To:       getEnvOrDefault("NOTIFY_TO", "to_email@example.com"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxAttempts < 1 {
		return fmt.Errorf("SCRAPER_MAX_ATTEMPTS must be at least 1")
	}

	if len(c.Scraper.UserAgents) == 0 {
		return fmt.Errorf("SCRAPER_USER_AGENTS must not be empty")
	}

	if c.Scraper.MinDelay > c.Scraper.MaxDelay {
		return fmt.Errorf("SCRAPER_MIN_DELAY cannot be greater than SCRAPER_MAX_DELAY")
	}

	switch c.Cache.Backend {
	case "disk", "redis", "memory":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of disk, redis, memory (got %q)", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.Notify.Enabled && (c.Notify.Username == "" || c.Notify.Password == "") {
		return fmt.Errorf("NOTIFY_USERNAME and NOTIFY_PASSWORD are required when notifications are enabled")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}
