package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST and websocket endpoints on app.
func RegisterRoutes(app *fiber.App, gameService *service.GameService, origins []string) {
	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	app.Use("/ws", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/games", gameController.ListGames)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Delete("/:gameId", gameController.DeleteGame)
	gameRoutes.Get("/:gameId/moves/:square", gameController.PossibleMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
}
