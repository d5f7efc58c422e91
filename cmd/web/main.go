package main

import (
	"log"
	"os"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/config"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/logger"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/server"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.Init(os.Getenv("THEOEATS_DEBUG") != "")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.L().Info("log init success")

	app := iris.New()
	server.RegisterRoutes(app, cfg)

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("failed to run web server", zap.Error(err))
	}
}
