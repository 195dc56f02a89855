package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration (MySQL)
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (read-side mirror)
	MongoDB MongoConfig `json:"mongodb"`

	// Identity provider Configuration
	Identity IdentityConfig `json:"identity"`

	// Mirror sync Configuration
	Sync SyncConfig `json:"sync"`

	// Site Configuration
	Site SiteConfig `json:"site"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
	JWTSecret    string `json:"-"`
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoConfig contains the document mirror connection configuration
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// IdentityConfig contains the remote identity provider configuration.
// Sign-in is delegated to the provider's REST API; the API key goes in
// the request query string.
type IdentityConfig struct {
	APIKey  string `json:"-"`
	BaseURL string `json:"base_url"`
	Enabled bool   `json:"enabled"`
}

// SyncConfig controls the codex mirror worker pool
type SyncConfig struct {
	Workers           int `json:"workers"`             // Number of worker goroutines
	ChannelBufferSize int `json:"channel_buffer_size"` // Event channel buffer size
	WriteTimeout      int `json:"write_timeout"`       // Seconds per mirror write
}

// SiteConfig carries the public base URL used to absolutize media paths
type SiteConfig struct {
	BaseURL  string `json:"base_url"`
	MediaDir string `json:"media_dir"`
}

// Load builds the configuration from environment variables.
// godotenv is loaded by main before this runs.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvOrDefault("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
			JWTSecret:    getEnvOrDefault("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "nexoecos_user"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			DatabaseName: getEnvOrDefault("DB_NAME", "nexoecos_db"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoConfig{
			URI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnvOrDefault("MONGO_DB", "nexoecos"),
		},
		Identity: IdentityConfig{
			APIKey:  getEnvOrDefault("IDENTITY_API_KEY", ""),
			BaseURL: getEnvOrDefault("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
			Enabled: getEnvOrDefault("IDENTITY_ENABLED", "true") == "true",
		},
		Sync: SyncConfig{
			Workers:           getEnvIntOrDefault("SYNC_WORKERS", 2),
			ChannelBufferSize: getEnvIntOrDefault("SYNC_BUFFER", 256),
			WriteTimeout:      getEnvIntOrDefault("SYNC_WRITE_TIMEOUT", 5),
		},
		Site: SiteConfig{
			BaseURL:  getEnvOrDefault("SITE_URL", "http://localhost:8080"),
			MediaDir: getEnvOrDefault("MEDIA_DIR", "media"),
		},
	}
}

// DSN builds the MySQL connection string
func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	return cfg.MongoDB.URI
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
