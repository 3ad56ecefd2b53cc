package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/obslog"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GameController struct {
	gameService *service.GameService
	log         *zap.Logger
}

func NewGameController(gameService *service.GameService, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = obslog.L()
	}
	return &GameController{gameService: gameService, log: logger}
}

var errBadRequest = errors.New("bad request")

// fail maps service errors onto HTTP statuses.
func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidSquare), errors.Is(err, errBadRequest):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrTooManyGames):
		status, msg = fiber.StatusTooManyRequests, err.Error()
	default:
		gc.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	view, err := gc.gameService.CreateGame()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (gc *GameController) GetGame(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGame(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return gc.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LegalMoves answers GET /moves?row=&col= without changing the selection.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	sq, err := squareFromQuery(c)
	if err != nil {
		return gc.fail(c, err)
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), sq)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{"square": sq, "moves": moves})
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var body ws.SquarePayload
	if err := c.BodyParser(&body); err != nil {
		return gc.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	res, err := gc.gameService.Select(c.Params("gameId"), body.Square())
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Click(c *fiber.Ctx) error {
	var body ws.SquarePayload
	if err := c.BodyParser(&body); err != nil {
		return gc.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	res, err := gc.gameService.Click(c.Params("gameId"), body.Square())
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Move(c *fiber.Ctx) error {
	var body ws.MovePayload
	if err := c.BodyParser(&body); err != nil {
		return gc.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	res, err := gc.gameService.Move(c.Params("gameId"), body.From.Square(), body.To.Square())
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	view, err := gc.gameService.Reset(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) Glyphs(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.Glyphs())
}

func squareFromQuery(c *fiber.Ctx) (model.Square, error) {
	row, err := strconv.Atoi(c.Query("row"))
	if err != nil {
		return model.Square{}, fmt.Errorf("%w: row must be an integer", errBadRequest)
	}
	col, err := strconv.Atoi(c.Query("col"))
	if err != nil {
		return model.Square{}, fmt.Errorf("%w: col must be an integer", errBadRequest)
	}
	return model.Square{Row: row, Col: col}, nil
}
