// Package config reads server settings from the environment.
//
// Call godotenv.Load (or Load here, which does it) before reading so that a
// local .env file can supply values during development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "json" or "console"
	DBPath    string

	AnswersFile string
	AllowedFile string
	WordLength  int
	MaxTurns    int

	DailySalt string

	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
}

// Load reads .env files (missing ones are ignored) and then the environment.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		AnswersFile:  os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:  os.Getenv("WORDS_ALLOWED_FILE"),
		WordLength:   envInt("WORD_LENGTH", game.DefaultWordLength),
		MaxTurns:     envInt("MAX_TURNS", game.DefaultTurns),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:       time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "wordle_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET is the development default in production")
	}
	return c
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as a positive integer, falling back to def.
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid integer setting, using default")
		return def
	}
	return n
}
