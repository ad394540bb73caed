package main

import (
	"fmt"
	"log"

	"asset-lending/internal/config"
	"asset-lending/internal/database"
	"asset-lending/internal/server"
	"asset-lending/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog := logger.Must(logger.New(cfg.IsProduction()))
	defer func() { _ = zlog.Sync() }()

	database.Init(cfg, zlog.Named("database"))

	r := server.NewRouter(cfg, database.DB, zlog)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	zlog.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
