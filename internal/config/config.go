package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEmotions 首次迁移时写入的情绪
const DefaultEmotions = "amused,sad,excited,uplifted,scared,inspired,joyful,weird,sentimental"

// Config 应用配置
type Config struct {
	Env          string
	Port         string
	DBDriver     string
	DatabaseURL  string
	DBPath       string
	DBMaxOpen    int
	TMDBToken    string
	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBRate     float64
	LogLevel     string
	LogFormat    string
	CORSOrigin   string
	StatsEvery   time.Duration
	SeedEmotions []string
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "feelreel")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	maxOpen, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	tmdbRate, err := strconv.ParseFloat(getEnv("TMDB_RATE_PER_SECOND", "4"), 64)
	if err != nil || tmdbRate <= 0 {
		tmdbRate = 4
	}
	statsEvery, err := time.ParseDuration(getEnv("STATS_INTERVAL", "5m"))
	if err != nil || statsEvery <= 0 {
		statsEvery = 5 * time.Minute
	}

	env := getEnv("APP_ENV", "development")
	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Env:          env,
		Port:         getEnv("PORT", "5005"),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:  dbURL,
		DBPath:       getEnv("DB_PATH", "feelreel.db"),
		DBMaxOpen:    maxOpen,
		TMDBToken:    getEnv("TMDB_TOKEN", ""),
		TMDBAPIKey:   getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:  strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
		TMDBRate:     tmdbRate,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", logFormat),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
		StatsEvery:   statsEvery,
		SeedEmotions: splitList(getEnv("SEED_EMOTIONS", DefaultEmotions)),
	}
}

// TMDBEnabled 是否配置了 TMDB 凭据
func (c *Config) TMDBEnabled() bool {
	return c.TMDBToken != "" || c.TMDBAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
