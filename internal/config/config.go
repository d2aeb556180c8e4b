package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/database"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/utilities"
)

const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreRedis  = "redis"
)

// Config is the client configuration. Values come from the environment,
// which godotenv may have populated from a .env file.
type Config struct {
	APIBase       string
	TokenStore    string
	TokenFile     string
	CookieFile    string
	SharedRefresh bool
	HTTPTimeout   time.Duration
	ClientNode    int64
	Database      database.Config
	Redis         RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ConfigFromEnv reads client config from environment variables.
func ConfigFromEnv() Config {
	dir := stateDir()
	return Config{
		APIBase:       strings.TrimRight(getenv("GADA_API_BASE", "http://127.0.0.1:55060"), "/"),
		TokenStore:    strings.ToLower(getenv("GADA_TOKEN_STORE", StoreFile)),
		TokenFile:     getenv("GADA_TOKEN_FILE", filepath.Join(dir, "session.json")),
		CookieFile:    getenv("GADA_COOKIE_FILE", filepath.Join(dir, "cookies.json")),
		SharedRefresh: getenvBool("GADA_SHARED_REFRESH", true),
		HTTPTimeout:   getenvDuration("GADA_HTTP_TIMEOUT", 0),
		ClientNode:    int64(getenvInt("SNOWFLAKE_NODE", int(utilities.DefaultClientNode))),
		Database:      database.ConfigFromEnv(),
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
	}
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gada"
	}
	return filepath.Join(home, ".gada")
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
