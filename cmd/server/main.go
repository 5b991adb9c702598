package main

import (
	"fmt"

	"funddesk/internal/config"
	"funddesk/internal/database"
	"funddesk/internal/logger"
	"funddesk/internal/server"
	"funddesk/internal/services"
	"funddesk/internal/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(""); err != nil {
		panic(err)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}

	files, err := storage.New(cfg.UploadDir)
	if err != nil {
		logger.Fatalf("upload dir: %v", err)
	}

	if err := services.NewAuthService(db).EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatalf("seed admin: %v", err)
	}

	r := server.NewRouter(cfg, db, files)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Infof("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
