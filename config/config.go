package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Fixtures FixturesConfig
	LogLevel string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
	MaxConns     int // concurrent connection cap
}

type DatabaseConfig struct {
	// Path is the SQLite location. The default ":memory:" keeps the
	// whole catalog in process memory for the lifetime of the run.
	Path string
}

type SessionConfig struct {
	// Path is where the signed-in user's identity is persisted
	// between runs. It is the only durable state the service keeps.
	Path string
}

type FixturesConfig struct {
	// Path is a directory of JSON fixture files read by the `seed`
	// command.
	Path string
}

// Load creates a new Config from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 3001),
			ReadTimeout:  getEnvInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("IDLE_TIMEOUT", 60),
			MaxConns:     getEnvInt("MAX_CONNS", 256),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", ":memory:"),
		},
		Session: SessionConfig{
			Path: getEnv("SESSION_PATH", "session.json"),
		},
		Fixtures: FixturesConfig{
			Path: getEnv("FIXTURES_PATH", "./fixtures"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
