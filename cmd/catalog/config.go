package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the catalog server configuration.
type Config struct {
	Port     string
	Key      []byte
	Sessions int
	LogLevel slog.Level
}

// Load reads .env if present, then flags and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	return fromEnv(os.Getenv, *port)
}

func fromEnv(getenv func(string) string, port string) (*Config, error) {
	if envPort := strings.TrimSpace(getenv("PORT")); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			port = envPort
		} else {
			port = ":" + envPort
		}
	}

	sessions := 256
	if raw := strings.TrimSpace(getenv("HXFORM_SESSIONS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, &configError{name: "HXFORM_SESSIONS", value: raw}
		}
		sessions = n
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(firstNonEmpty(strings.TrimSpace(getenv("HXFORM_LOG_LEVEL")), "info"))); err != nil {
		return nil, &configError{name: "HXFORM_LOG_LEVEL", value: getenv("HXFORM_LOG_LEVEL")}
	}

	var key []byte
	if raw := strings.TrimSpace(getenv("HXFORM_KEY")); raw != "" {
		key = []byte(raw)
	}

	return &Config{
		Port:     port,
		Key:      key,
		Sessions: sessions,
		LogLevel: level,
	}, nil
}

type configError struct {
	name  string
	value string
}

func (e *configError) Error() string {
	return "invalid " + e.name + ": " + strconv.Quote(e.value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
