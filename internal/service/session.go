package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/store"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrGameFull     = errors.New("game is full")
	ErrNotAPlayer   = errors.New("player is not seated in this game")
)

// Observer receives game state pushes. *websocket.Conn satisfies it.
type Observer interface {
	WriteJSON(v interface{}) error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Observer // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color model.Color `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the client view of a session.
type GameState struct {
	ID              string           `json:"id"`
	Board           [][]*model.Piece `json:"boardState"`
	ToMove          model.Color      `json:"toMove"`
	Phase           model.GamePhase  `json:"phase"`
	IsCheck         bool             `json:"isCheck"`
	EnPassantTarget *model.Square    `json:"enPassantTarget"`
	LastMove        *model.Ply       `json:"lastMove"`
	MoveHistory     []model.Ply      `json:"moveHistory"`
	FEN             string           `json:"fen"`
	Players         Players          `json:"players"`
}

// Session is one hosted game: the rules engine plus seats, history and the
// websocket observers watching it.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *model.Game
	players     Players
	moveHistory []model.Ply
	deleted     bool
	connections *GameConnections

	// publishMu orders archive writes and broadcasts to match the order of
	// the changes they publish. It is taken before mu is released.
	publishMu sync.Mutex
	archive   func(store.GameRecord) error
}

func NewSession(id string) *Session {
	return &Session{
		ID:          id,
		game:        model.NewGame(),
		moveHistory: make([]model.Ply, 0),
		connections: NewGameConnections(),
		archive:     func(store.GameRecord) error { return nil },
	}
}

// restoreSession rebuilds a session from its archived record.
func restoreSession(rec store.GameRecord) (*Session, error) {
	game, err := model.ParseFEN(rec.FEN)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", rec.ID, err)
	}
	if rec.Phase != "" && rec.Phase != game.Phase() {
		return nil, fmt.Errorf("restore game %s: archived phase %s but position is %s", rec.ID, rec.Phase, game.Phase())
	}
	s := NewSession(rec.ID)
	s.game = game
	if rec.History != nil {
		s.moveHistory = rec.History
	}
	if rec.White != "" {
		s.players.White = ClientPlayer{ID: rec.White, Color: model.White}
	}
	if rec.Black != "" {
		s.players.Black = ClientPlayer{ID: rec.Black, Color: model.Black}
	}
	return s, nil
}

// AddPlayer seats playerID, white first, then archives and broadcasts the
// new seating. A player already seated gets their color back.
func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	if s.deleted {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrGameNotFound, s.ID)
	}
	if color, ok := s.seatOf(playerID); ok {
		s.mu.Unlock()
		return color, nil
	}

	var color model.Color
	switch {
	case s.players.White.ID == "":
		s.players.White = ClientPlayer{ID: playerID, Color: model.White}
		color = model.White
	case s.players.Black.ID == "":
		s.players.Black = ClientPlayer{ID: playerID, Color: model.Black}
		color = model.Black
	default:
		s.mu.Unlock()
		return "", ErrGameFull
	}

	if _, err := s.publish(); err != nil {
		return "", err
	}
	return color, nil
}

func (s *Session) seatOf(playerID string) (model.Color, bool) {
	switch playerID {
	case "":
		return "", false
	case s.players.White.ID:
		return model.White, true
	case s.players.Black.ID:
		return model.Black, true
	}
	return "", false
}

func (s *Session) isSeated() bool {
	return s.players.White.ID != "" || s.players.Black.ID != ""
}

// PossibleMoves returns the piece on square, nil when it is empty, and its
// legal destinations.
func (s *Session) PossibleMoves(square string) (*model.Piece, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves, err := s.game.PossibleMoves(square)
	if err != nil {
		return nil, nil, err
	}
	piece, err := s.game.PieceAt(square)
	if errors.Is(err, model.ErrEmptySquare) {
		return nil, moves, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &piece, moves, nil
}

// MakeMove plays move for playerID, then archives and broadcasts the new
// state. Once anybody has taken a seat only seated players may move, and
// only on their own turn.
func (s *Session) MakeMove(playerID string, move MoveRequest) (GameState, error) {
	s.mu.Lock()
	ply, err := s.play(playerID, move)
	if err != nil {
		s.mu.Unlock()
		return GameState{}, err
	}
	log.Debugf("game %s: %s played %s, phase %s", s.ID, ply.Piece.Color, ply.Notation, ply.Phase)

	return s.publish()
}

func (s *Session) play(playerID string, move MoveRequest) (model.Ply, error) {
	if s.deleted {
		return model.Ply{}, fmt.Errorf("%w: %s", ErrGameNotFound, s.ID)
	}
	if phase := s.game.Phase(); phase.IsTerminal() {
		return model.Ply{}, fmt.Errorf("%w: %s", model.ErrGameOver, phase)
	}
	m, err := move.toModel()
	if err != nil {
		return model.Ply{}, err
	}

	if s.isSeated() {
		color, ok := s.seatOf(playerID)
		if !ok {
			return model.Ply{}, ErrNotAPlayer
		}
		if color != s.game.ToMove() {
			return model.Ply{}, fmt.Errorf("%w: %s to move", model.ErrNotYourTurn, s.game.ToMove())
		}
	}

	ply, err := s.game.Play(m)
	if err != nil {
		return model.Ply{}, err
	}
	s.moveHistory = append(s.moveHistory, ply)
	return ply, nil
}

// publish archives and broadcasts the current state and returns it. It must
// be called with mu held, and releases it.
func (s *Session) publish() (GameState, error) {
	rec, state := s.recordLocked(), s.state()
	s.publishMu.Lock()
	s.mu.Unlock()
	defer s.publishMu.Unlock()

	if err := s.archive(rec); err != nil {
		return GameState{}, err
	}
	s.broadcastState(state)
	return state, nil
}

// markDeleted makes later changes fail with ErrGameNotFound and waits for
// any publication already under way, so nothing is archived after it returns.
func (s *Session) markDeleted() {
	s.mu.Lock()
	s.deleted = true
	s.publishMu.Lock()
	s.mu.Unlock()
	s.publishMu.Unlock()
}

func (s *Session) GetState() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() GameState {
	board := make([][]*model.Piece, 8)
	for y := range board {
		board[y] = make([]*model.Piece, 8)
	}
	s.game.Each(func(sq model.Square, piece model.Piece, occupied bool) {
		if occupied {
			p := piece
			board[sq.Y][sq.X] = &p
		}
	})

	state := GameState{
		ID:          s.ID,
		Board:       board,
		ToMove:      s.game.ToMove(),
		Phase:       s.game.Phase(),
		IsCheck:     s.game.Phase() == model.Check || s.game.Phase() == model.Checkmate,
		MoveHistory: append([]model.Ply(nil), s.moveHistory...),
		FEN:         s.game.FEN(),
		Players:     s.players,
	}
	if target, ok := s.game.EnPassantTarget(); ok {
		state.EnPassantTarget = &target
	}
	if n := len(s.moveHistory); n > 0 {
		last := s.moveHistory[n-1]
		state.LastMove = &last
	}
	return state
}

func (s *Session) record() store.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked()
}

func (s *Session) recordLocked() store.GameRecord {
	return store.GameRecord{
		ID:      s.ID,
		FEN:     s.game.FEN(),
		History: append([]model.Ply(nil), s.moveHistory...),
		Phase:   s.game.Phase(),
		White:   s.players.White.ID,
		Black:   s.players.Black.ID,
	}
}

// RegisterConnection adds conn as the observer for playerID, replacing any
// earlier one, and sends it the current state.
func (s *Session) RegisterConnection(playerID string, conn Observer) error {
	s.mu.Lock()
	state := s.state()
	s.publishMu.Lock()
	s.mu.Unlock()
	defer s.publishMu.Unlock()

	s.connections.mu.Lock()
	s.connections.connections[playerID] = conn
	s.connections.mu.Unlock()
	log.Debugf("game %s: registered connection for player %s", s.ID, playerID)

	if err := s.send(playerID, conn, state); err != nil {
		s.UnregisterConnection(playerID, conn)
		return err
	}
	return nil
}

// UnregisterConnection drops playerID's observer if it is still conn.
func (s *Session) UnregisterConnection(playerID string, conn Observer) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.connections[playerID]; exists && current == conn {
		delete(s.connections.connections, playerID)
		log.Debugf("game %s: unregistered connection for player %s", s.ID, playerID)
	}
}

// broadcastState pushes state to every observer, dropping the ones that fail.
func (s *Session) broadcastState(state GameState) {
	s.connections.mu.RLock()
	activeConnections := make(map[string]Observer, len(s.connections.connections))
	for playerID, conn := range s.connections.connections {
		activeConnections[playerID] = conn
	}
	s.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := s.send(playerID, conn, state); err != nil {
			log.Warnf("game %s: dropping connection for player %s: %v", s.ID, playerID, err)
			s.UnregisterConnection(playerID, conn)
		}
	}
}

func (s *Session) send(playerID string, conn Observer, state GameState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state for %s: %w", playerID, err)
	}
	return conn.WriteJSON(ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: payload,
	})
}

func (s *Session) connectionCount() int {
	s.connections.mu.RLock()
	defer s.connections.mu.RUnlock()
	return len(s.connections.connections)
}
