package service

import (
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session is one game plus the connections watching it. All access to the
// game and to the connections goes through mu, which also serializes writes.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	game  *model.Game
	conns map[string]Conn // connID -> connection
	log   *zap.Logger
}

func newSession(id string, logger *zap.Logger) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		game:      model.NewGame(),
		conns:     make(map[string]Conn),
		log:       logger.With(zap.String("game_id", id)),
	}
}

// send writes msg to one connection. Caller holds mu.
func (s *Session) send(connID string, msg ws.Message) {
	conn, ok := s.conns[connID]
	if !ok {
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Warn("dropping connection after write failure", zap.String("conn_id", connID), zap.Error(err))
		delete(s.conns, connID)
	}
}

// broadcast writes msg to every connection. Caller holds mu.
func (s *Session) broadcast(msg ws.Message) {
	for connID := range s.conns {
		s.send(connID, msg)
	}
}

// closeAll closes and forgets every connection. Caller holds mu.
func (s *Session) closeAll() {
	for connID, conn := range s.conns {
		if err := conn.Close(); err != nil {
			s.log.Debug("close connection", zap.String("conn_id", connID), zap.Error(err))
		}
		delete(s.conns, connID)
	}
}
