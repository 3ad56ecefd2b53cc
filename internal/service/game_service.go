package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/msgcat"
	"github.com/benbeisheim/chessrules-backend/internal/obslog"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"go.uber.org/zap"
)

// GameView is what clients receive for a game: the engine snapshot plus
// the rendered status line.
type GameView struct {
	ID         string          `json:"gameId"`
	State      model.GameState `json:"state"`
	StatusText string          `json:"statusText"`
}

type MoveView struct {
	Applied bool     `json:"applied"`
	Game    GameView `json:"game"`
}

type ClickView struct {
	Applied  bool          `json:"applied"`
	Selected *model.Square `json:"selectedSquare"`
	Moves    []model.Move  `json:"legalMoves"`
	Game     GameView      `json:"game"`
}

type GameService struct {
	gameManager *GameManager
	catalog     *msgcat.Catalog
	log         *zap.Logger
}

func NewGameService(gameManager *GameManager, catalog *msgcat.Catalog, logger *zap.Logger) *GameService {
	if logger == nil {
		logger = obslog.L()
	}
	return &GameService{
		gameManager: gameManager,
		catalog:     catalog,
		log:         logger,
	}
}

func checkSquare(sq model.Square) error {
	if !sq.OnBoard() {
		return fmt.Errorf("%w: %v", ErrInvalidSquare, sq)
	}
	return nil
}

// view renders the session's game. Caller holds s.mu.
func (gs *GameService) view(s *Session) (GameView, error) {
	state := s.game.State()
	text, err := gs.catalog.StatusText(state.Status, state.Turn)
	if err != nil {
		return GameView{}, fmt.Errorf("render status: %w", err)
	}
	return GameView{ID: s.ID, State: state, StatusText: text}, nil
}

// pushState sends the current view to every watcher. Caller holds s.mu.
func (gs *GameService) pushState(s *Session, v GameView) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, v)
	if err != nil {
		s.log.Error("encode game state", zap.Error(err))
		return
	}
	s.broadcast(msg)
}

// mutate runs fn on the locked game and returns the resulting view. When fn
// reports a change, the view is pushed to the session's connections.
func (gs *GameService) mutate(gameID string, fn func(g *model.Game) bool) (GameView, error) {
	s, err := gs.gameManager.GetSession(gameID)
	if err != nil {
		return GameView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := fn(s.game)
	v, err := gs.view(s)
	if err != nil {
		return GameView{}, err
	}
	if changed {
		gs.pushState(s, v)
	}
	return v, nil
}

func (gs *GameService) CreateGame() (GameView, error) {
	s, err := gs.gameManager.CreateGame()
	if err != nil {
		return GameView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return gs.view(s)
}

func (gs *GameService) GetGame(gameID string) (GameView, error) {
	return gs.mutate(gameID, func(*model.Game) bool { return false })
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

// LegalMoves lists the moves of the piece on sq without touching the selection.
func (gs *GameService) LegalMoves(gameID string, sq model.Square) ([]model.Move, error) {
	if err := checkSquare(sq); err != nil {
		return nil, err
	}
	var moves []model.Move
	_, err := gs.mutate(gameID, func(g *model.Game) bool {
		moves = g.LegalMoves(sq)
		return false
	})
	if err != nil {
		return nil, err
	}
	return moves, nil
}

func (gs *GameService) Select(gameID string, sq model.Square) (ClickView, error) {
	if err := checkSquare(sq); err != nil {
		return ClickView{}, err
	}
	var res ClickView
	v, err := gs.mutate(gameID, func(g *model.Game) bool {
		res.Moves = g.Select(sq)
		if sel, _, ok := g.Selection(); ok {
			res.Selected = &sel
		}
		return true
	})
	if err != nil {
		return ClickView{}, err
	}
	res.Game = v
	return res, nil
}

func (gs *GameService) Click(gameID string, sq model.Square) (ClickView, error) {
	if err := checkSquare(sq); err != nil {
		return ClickView{}, err
	}
	var res ClickView
	v, err := gs.mutate(gameID, func(g *model.Game) bool {
		before := len(g.History())
		r := g.Click(sq)
		res.Applied, res.Selected, res.Moves = r.Applied, r.Selected, r.Moves
		if r.Applied {
			gs.logMove(gameID, g, before)
		}
		return true
	})
	if err != nil {
		return ClickView{}, err
	}
	res.Game = v
	return res, nil
}

func (gs *GameService) Move(gameID string, from, to model.Square) (MoveView, error) {
	if err := checkSquare(from); err != nil {
		return MoveView{}, err
	}
	if err := checkSquare(to); err != nil {
		return MoveView{}, err
	}
	var applied bool
	v, err := gs.mutate(gameID, func(g *model.Game) bool {
		before := len(g.History())
		applied = g.ApplyMove(from, to).Applied
		if applied {
			gs.logMove(gameID, g, before)
		} else {
			gs.log.Debug("move rejected",
				zap.String("game_id", gameID),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		}
		return applied
	})
	if err != nil {
		return MoveView{}, err
	}
	return MoveView{Applied: applied, Game: v}, nil
}

func (gs *GameService) Reset(gameID string) (GameView, error) {
	return gs.mutate(gameID, func(g *model.Game) bool {
		g.Reset()
		gs.log.Info("game reset", zap.String("game_id", gameID))
		return true
	})
}

func (gs *GameService) logMove(gameID string, g *model.Game, before int) {
	history := g.History()
	if len(history) <= before {
		return
	}
	e := history[len(history)-1]
	fields := []zap.Field{
		zap.String("game_id", gameID),
		zap.Stringer("mover", e.Mover),
		zap.Stringer("piece", e.Piece.Type),
		zap.String("move", e.From.String()+e.To.String()),
		zap.Stringer("status", g.Status()),
	}
	if e.Special != model.SpecialNone {
		fields = append(fields, zap.Stringer("special", e.Special))
	}
	if e.Captured != nil {
		fields = append(fields, zap.Stringer("captured", e.Captured.Type))
	}
	gs.log.Info("move applied", fields...)
	if g.IsOver() {
		gs.log.Info("game over", zap.String("game_id", gameID), zap.Stringer("status", g.Status()))
	}
}

// Watch attaches conn to the game and sends it the current state.
func (gs *GameService) Watch(gameID, connID string, conn Conn) error {
	s, err := gs.gameManager.RegisterConnection(gameID, connID, conn)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := gs.view(s)
	if err != nil {
		return err
	}
	msg, err := ws.NewMessage(ws.MessageTypeGameState, v)
	if err != nil {
		return err
	}
	s.send(connID, msg)
	return nil
}

func (gs *GameService) Unwatch(gameID, connID string) {
	gs.gameManager.UnregisterConnection(gameID, connID)
}

// SendError reports err to a single watcher.
func (gs *GameService) SendError(gameID, connID string, err error) {
	s, lookupErr := gs.gameManager.GetSession(gameID)
	if lookupErr != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(connID, ws.ErrorMessage(err))
}

// Glyphs returns the piece symbols keyed by "color.type".
func (gs *GameService) Glyphs() map[string]string {
	return gs.catalog.Glyphs()
}
