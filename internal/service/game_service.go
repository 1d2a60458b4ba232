package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	log.Infof("created game %s", gameID)
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) PossibleMoves(gameID string, square string) (*model.Piece, []string, error) {
	return gs.gameManager.PossibleMoves(gameID, square)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move MoveRequest) (GameState, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) ListGames() ([]string, error) {
	return gs.gameManager.GameIDs()
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Observer) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Observer) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
