package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// StoreBackend selects where track sidecar records are persisted.
type StoreBackend string

const (
	StoreFile  StoreBackend = "file"
	StoreMySQL StoreBackend = "mysql"
	StoreRedis StoreBackend = "redis"
)

// Config stores the application configuration.
type Config struct {
	PlaylistDir  string   // Directory scanned for track files
	SidecarDir   string   // Directory for per-track sidecar records (file backend)
	MetamidiPath string   // Path to the metamidi analyzer binary
	TrackExts    []string // Recognized track file extensions, matched case-insensitively
	AutoWrite    bool     // Write-through: persist track mutations synchronously

	StoreBackend StoreBackend // file, mysql or redis

	ServerAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	LogLevel   string
	LogPath    string
	LogMaxSize int // megabytes
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables and defaults.")
	}

	exts := strings.Split(getEnv("TRACK_EXTENSIONS", ".mid"), ",")
	for i := range exts {
		exts[i] = strings.TrimSpace(exts[i])
	}

	playlistDir := getEnv("PLAYLIST_DIR", "playlists")

	return &Config{
		PlaylistDir:  playlistDir,
		SidecarDir:   getEnv("SIDECAR_DIR", playlistDir),
		MetamidiPath: getEnv("METAMIDI_PATH", "metamidi"),
		TrackExts:    exts,
		AutoWrite:    getEnvBool("AUTO_WRITE", true),

		StoreBackend: StoreBackend(getEnv("STORE_BACKEND", string(StoreFile))),

		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "mpfm"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogPath:    getEnv("LOG_PATH", ""),
		LogMaxSize: getEnvInt("LOG_MAX_SIZE", 100),
	}
}
