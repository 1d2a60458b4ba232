package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/store"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GameManager owns the live sessions. Games are written through to the
// store after every change and loaded back from it on first access.
type GameManager struct {
	games map[string]*Session
	store *store.Store
	mu    sync.RWMutex
}

// NewGameManager creates a manager. st may be nil, in which case games live
// only in memory.
func NewGameManager(st *store.Store) *GameManager {
	return &GameManager{
		games: make(map[string]*Session),
		store: st,
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}

	session := NewSession(gameID)
	session.archive = gm.persist
	gm.games[gameID] = session
	return gm.persist(session.record())
}

// GetSession returns the live session for gameID, restoring it from the
// store if it is not in memory.
func (gm *GameManager) GetSession(gameID string) (*Session, error) {
	gm.mu.RLock()
	session, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return session, nil
	}
	if gm.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	rec, err := gm.store.LoadGame(gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, err
	}
	restored, err := restoreSession(rec)
	if err != nil {
		return nil, err
	}
	restored.archive = gm.persist

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// another request may have restored it first
	if session, exists := gm.games[gameID]; exists {
		return session, nil
	}
	gm.games[gameID] = restored
	log.Infof("restored game %s from store", gameID)
	return restored, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return "", err
	}

	color, err := session.AddPlayer(playerID)
	if err != nil {
		return "", err
	}
	log.Infof("player %s joined game %s as %s", playerID, gameID, color)
	return color, nil
}

func (gm *GameManager) GetGameState(gameID string) (GameState, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return GameState{}, err
	}
	return session.GetState(), nil
}

func (gm *GameManager) PossibleMoves(gameID string, square string) (*model.Piece, []string, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return nil, nil, err
	}
	return session.PossibleMoves(square)
}

// MakeMove plays move in gameID. The session archives the result and pushes
// the new state to every observer.
func (gm *GameManager) MakeMove(gameID string, playerID string, move MoveRequest) (GameState, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return GameState{}, err
	}

	return session.MakeMove(playerID, move)
}

// DeleteGame drops gameID from memory and from the store. Observers stay
// connected but receive no further updates.
func (gm *GameManager) DeleteGame(gameID string) error {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return err
	}

	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()
	session.markDeleted()

	if gm.store != nil {
		if err := gm.store.DeleteGame(gameID); err != nil {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
	}
	log.Infof("deleted game %s", gameID)
	return nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn Observer) error {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn Observer) {
	gm.mu.RLock()
	session, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	session.UnregisterConnection(playerID, conn)
}

// GameIDs lists every known game, live or archived, sorted.
func (gm *GameManager) GameIDs() ([]string, error) {
	gm.mu.RLock()
	known := make(map[string]struct{}, len(gm.games))
	for id := range gm.games {
		known[id] = struct{}{}
	}
	gm.mu.RUnlock()

	if gm.store != nil {
		archived, err := gm.store.ListGames()
		if err != nil {
			return nil, err
		}
		for _, id := range archived {
			known[id] = struct{}{}
		}
	}

	ids := maps.Keys(known)
	slices.Sort(ids)
	return ids, nil
}

func (gm *GameManager) persist(rec store.GameRecord) error {
	if gm.store == nil {
		return nil
	}
	if err := gm.store.SaveGame(rec); err != nil {
		return fmt.Errorf("save game %s: %w", rec.ID, err)
	}
	return nil
}
