package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// gameIDParam copies the id out of the request buffer; sessions keep it as a
// map key.
func gameIDParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("gameId"))
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := gameIDParam(c)
	playerID, _ := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(gameIDParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) PossibleMoves(c *fiber.Ctx) error {
	square := c.Params("square")

	piece, moves, err := gc.gameService.PossibleMoves(gameIDParam(c), square)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"piece":  piece,
		"moves":  moves,
	})
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(gameIDParam(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game deleted",
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := gameIDParam(c)
	playerID, _ := c.Locals("playerID").(string)

	var move service.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		log.Debugf("bad move body for game %s: %v", gameID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	state, err := gc.gameService.HandleMove(gameID, playerID, move)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	ids, err := gc.gameService.ListGames()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"games": ids,
	})
}
