// Command server runs the WorkedIn marketplace API.
//
// Configuration comes from the environment (a .env file is loaded if
// present):
//
//	PORT        — listen port (default 8080)
//	DB_PATH     — SQLite database file (default data/workedin.db)
//	JWT_SECRET  — session signing key, required, at least 16 characters
//	BCRYPT_COST — password hashing work factor (default 12)
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/haitezaz/workedin-pakistan-connect/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Best effort: a missing .env just means real env vars are in charge.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded configuration from .env")
	}

	cfg := server.Config{
		Port:      envOr("PORT", "8080"),
		DBPath:    envOr("DB_PATH", filepath.Join("data", "workedin.db")),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	// Optional override, mainly for slow hardware. Unset or unparsable means
	// the production default.
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("BCRYPT_COST must be an integer", "value", v)
			os.Exit(1)
		}
		cfg.BcryptCost = cost
	}

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("creating database directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("starting server", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
