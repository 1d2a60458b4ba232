package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	log.SetLevel(level)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()
	if cfg.DataDir == "" {
		log.Warn("no data directory configured, games are kept in memory only")
	}

	// Initialize services
	gameManager := service.NewGameManager(st)
	gameService := service.NewGameService(gameManager)

	app := fiber.New(fiber.Config{
		AppName: "chessrules",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	controller.RegisterRoutes(app, gameService, cfg.Origins())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("listen: %v", err)
	}
}
