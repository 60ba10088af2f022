package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	// SecretKey signs issued auth tokens. Required outside of tests.
	SecretKey         string
	TokenTTLHours     int
	ResetTokenTTLMins int

	RedisHost           string
	RedisPassword       string
	RedisDB             int
	RedisTimeoutSeconds int

	DefaultProjectLimit int
	DefaultUserLimit    int
	DefaultItemLimit    int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:            addr,
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		LogLevel:            envDefault("LOG_LEVEL", "info"),
		SecretKey:           os.Getenv("SECRET_KEY"),
		TokenTTLHours:       envIntDefault("TOKEN_TTL_HOURS", 168),
		ResetTokenTTLMins:   envIntDefault("RESET_TOKEN_TTL_MINUTES", 120),
		RedisHost:           envDefault("REDIS_HOST", "127.0.0.1:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             envIntDefault("REDIS_DB", 0),
		RedisTimeoutSeconds: envIntDefault("REDIS_TIMEOUT_SECONDS", 3),
		DefaultProjectLimit: envIntDefault("DEFAULT_PROJECT_LIMIT", 5),
		DefaultUserLimit:    envIntDefault("DEFAULT_USER_LIMIT", 10),
		DefaultItemLimit:    envIntDefault("DEFAULT_ITEM_LIMIT", 10000),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
