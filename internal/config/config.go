package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	MongoURI        string
	MongoDatabase   string
	RedisURI        string
	Port            string
	AllowedOrigins  []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Host            string   // Raw HOST env (e.g. https://api.journeys.app)
	AllowedHost     string   // Hostname only for strict host check (production only)
	Environment     string   // ENV: production, development, etc.
	GeocoderURL     string
	GeocoderAPIKey  string
	GeocoderTimeout time.Duration
	RequestTimeout  time.Duration // bound on each store call made while serving a request
	LogLevel        string
	LogFormat       string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = hostname(host)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	mongoURI := getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/journeys"))

	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		MongoURI:        mongoURI,
		MongoDatabase:   getEnv("MONGODB_DATABASE", DatabaseName(mongoURI)),
		RedisURI:        getEnv("REDIS_URI", ""),
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  allowedOrigins,
		Host:            host,
		AllowedHost:     allowedHost,
		Environment:     env,
		GeocoderURL:     getEnv("GEOCODER_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeocoderAPIKey:  getEnv("GEOCODER_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeocoderTimeout: getDuration("GEOCODER_TIMEOUT", 10*time.Second),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 5*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", logFormat),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// DatabaseName extracts the database name from a connection string
// (mongodb://host/name?opts); it falls back to "journeys".
func DatabaseName(mongoURI string) string {
	const fallback = "journeys"

	rest := mongoURI
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return fallback
	}
	name := rest[idx+1:]
	if q := strings.Index(name, "?"); q != -1 {
		name = name[:q]
	}
	if name == "" {
		return fallback
	}
	return name
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
