package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration loaded from environment variables.
// Site-specific settings live in the YAML file at SiteConfigPath.
type Config struct {
	PagesToScrape      int
	RateLimitMs        int
	RequestTimeoutSec  int
	SkipDuplicateLinks bool

	Transport string
	UserAgent string
	ChromeBin string

	SiteConfigPath  string
	ResultsDir      string
	MetricsTextfile string
	LogLevel        string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PagesToScrape:      getEnvInt("PAGES_TO_SCRAPE", 10),
		RateLimitMs:        getEnvInt("RATE_LIMIT_MS", 2000),
		RequestTimeoutSec:  getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		SkipDuplicateLinks: getEnvBool("SKIP_DUPLICATE_LINKS", false),

		Transport: strings.ToLower(getEnv("TRANSPORT", "http")),
		UserAgent: getEnv("USER_AGENT", defaultUserAgent),
		ChromeBin: getEnv("CHROME_BIN", ""),

		SiteConfigPath:  getEnv("SITE_CONFIG_PATH", "./config/search.yaml"),
		ResultsDir:      getEnv("RESULTS_DIR", "scraping_results"),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
