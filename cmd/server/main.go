package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/msgcat"
	"github.com/benbeisheim/chessrules-backend/internal/obslog"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obslog.Init(obslog.OptionsFromEnv()).Fatal("load config", zap.Error(err))
	}
	logger := obslog.Init(cfg.Log)
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("load messages", zap.Error(err))
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.OriginList(),
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.ClientIDHeader,
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(logger.Named("http")))

	// Initialize services
	gameManager := service.NewGameManager(cfg.MaxGames, logger.Named("games"))
	gameService := service.NewGameService(gameManager, catalog, logger.Named("games"))

	// Initialize controllers
	gameController := controller.NewGameController(gameService, logger.Named("http"))
	wsController := controller.NewWebSocketController(gameService, logger.Named("ws"))

	controller.Register(app, gameController, wsController, cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.ListenAddr), zap.Int("max_games", cfg.MaxGames))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
	logger.Info("server stopped")
}
