package service

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/obslog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameManager is the registry of live sessions.
type GameManager struct {
	games    map[string]*Session
	maxGames int
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewGameManager(maxGames int, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = obslog.L()
	}
	return &GameManager{
		games:    make(map[string]*Session),
		maxGames: maxGames,
		log:      logger,
	}
}

// CreateGame registers a new session holding a game in the start position.
func (gm *GameManager) CreateGame() (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.maxGames > 0 && len(gm.games) >= gm.maxGames {
		return nil, fmt.Errorf("create game (limit %d): %w", gm.maxGames, ErrTooManyGames)
	}

	id := uuid.New().String()
	s := newSession(id, gm.log)
	gm.games[id] = s
	gm.log.Info("game created", zap.String("game_id", id), zap.Int("active_games", len(gm.games)))
	return s, nil
}

func (gm *GameManager) GetSession(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("game %q: %w", gameID, ErrGameNotFound)
	}
	return s, nil
}

// DeleteGame removes the session and closes its connections.
func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	s, exists := gm.games[gameID]
	if exists {
		delete(gm.games, gameID)
	}
	remaining := len(gm.games)
	gm.mu.Unlock()

	if !exists {
		return fmt.Errorf("game %q: %w", gameID, ErrGameNotFound)
	}

	s.mu.Lock()
	s.closeAll()
	s.mu.Unlock()
	gm.log.Info("game deleted", zap.String("game_id", gameID), zap.Int("active_games", remaining))
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// RegisterConnection attaches conn to the session under connID. A second
// registration with the same connID replaces the first.
func (gm *GameManager) RegisterConnection(gameID, connID string, conn Conn) (*Session, error) {
	s, err := gm.GetSession(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.conns[connID] = conn
	n := len(s.conns)
	s.mu.Unlock()
	s.log.Debug("connection registered", zap.String("conn_id", connID), zap.Int("connections", n))
	return s, nil
}

func (gm *GameManager) UnregisterConnection(gameID, connID string) {
	s, err := gm.GetSession(gameID)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.conns, connID)
	s.mu.Unlock()
	s.log.Debug("connection unregistered", zap.String("conn_id", connID))
}
