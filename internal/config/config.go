package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string // "postgres" or "sqlite"
	DBDSN         string
	ServerPort    string
	SessionSecret string
	UploadDir     string
	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:      os.Getenv("DB_DRIVER"),
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	if cfg.DBDSN == "" {
		if cfg.DBDriver == "sqlite" {
			cfg.DBDSN = "funddesk.db"
		} else {
			log.Fatal("DB_DSN is not set")
		}
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}

	return cfg
}
