package main

import (
	"log"
	"os"

	"bazi-fengshui/app"
	"bazi-fengshui/config"
	"bazi-fengshui/logger"

	"go.uber.org/zap"
)

func main() {
	// Load config from .env file
	cfg := config.LoadFromEnv()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "bazi-fengshui")
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	// Create and start app
	application, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("Startup failed", zap.Error(err))
	}
	if err := application.Start(); err != nil {
		zl.Error("Application stopped with error", zap.Error(err))
		zl.Sync()
		os.Exit(1)
	}
}
