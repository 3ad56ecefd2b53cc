package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Register mounts the REST and websocket routes on app.
func Register(app fiber.Router, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Use("/ws/*", middleware.EnsureClientID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api", middleware.EnsureClientID())
	api.Get("/glyphs", gc.Glyphs)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/", gc.CreateGame)
	gameRoutes.Get("/:gameId", gc.GetGame)
	gameRoutes.Delete("/:gameId", gc.DeleteGame)
	gameRoutes.Get("/:gameId/moves", gc.LegalMoves)
	gameRoutes.Post("/:gameId/select", gc.Select)
	gameRoutes.Post("/:gameId/click", gc.Click)
	gameRoutes.Post("/:gameId/move", gc.Move)
	gameRoutes.Post("/:gameId/reset", gc.Reset)
}
