package service

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/msgcat"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   []ws.Message
	fail   bool
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.msgs = append(c.msgs, v.(ws.Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func (c *fakeConn) last(t *testing.T) GameView {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.msgs) == 0 {
		t.Fatalf("no messages received")
	}
	msg := c.msgs[len(c.msgs)-1]
	if msg.Type != ws.MessageTypeGameState {
		t.Fatalf("last message type = %q", msg.Type)
	}
	var v GameView
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		t.Fatalf("decode game state: %v", err)
	}
	return v
}

func newTestService(t *testing.T, maxGames int) (*GameService, *observer.ObservedLogs) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	return NewGameService(NewGameManager(maxGames, logger), cat, logger), logs
}

func sq(t *testing.T, name string) model.Square {
	t.Helper()
	s, ok := model.ParseSquare(name)
	if !ok {
		t.Fatalf("bad square %q", name)
	}
	return s
}

func TestCreateGetDelete(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if v.ID == "" || v.StatusText != "White's Turn" || v.State.Turn != model.White {
		t.Fatalf("unexpected new game view %+v", v)
	}

	got, err := gs.GetGame(v.ID)
	if err != nil || got.ID != v.ID {
		t.Fatalf("GetGame = %+v, %v", got, err)
	}

	if err := gs.DeleteGame(v.ID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := gs.GetGame(v.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if err := gs.DeleteGame(v.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("second delete: expected ErrGameNotFound, got %v", err)
	}
}

func TestGameLimit(t *testing.T) {
	gs, _ := newTestService(t, 2)
	for i := 0; i < 2; i++ {
		if _, err := gs.CreateGame(); err != nil {
			t.Fatalf("CreateGame %d: %v", i, err)
		}
	}
	if _, err := gs.CreateGame(); !errors.Is(err, ErrTooManyGames) {
		t.Fatalf("expected ErrTooManyGames, got %v", err)
	}
	if n := gs.gameManager.Count(); n != 2 {
		t.Fatalf("Count = %d", n)
	}
}

func TestOffBoardSquares(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, _ := gs.CreateGame()
	off := model.Square{Row: 8, Col: 0}
	on := model.Square{Row: 6, Col: 4}

	if _, err := gs.LegalMoves(v.ID, off); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("LegalMoves: %v", err)
	}
	if _, err := gs.Select(v.ID, off); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Select: %v", err)
	}
	if _, err := gs.Click(v.ID, model.Square{Row: 0, Col: -1}); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Click: %v", err)
	}
	if _, err := gs.Move(v.ID, on, off); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Move: %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	gs, _ := newTestService(t, 0)
	if _, err := gs.Click("nope", model.Square{}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Click on missing game: %v", err)
	}
	if err := gs.Watch("nope", "c1", &fakeConn{}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Watch on missing game: %v", err)
	}
}

func TestClickFlowBroadcasts(t *testing.T) {
	gs, logs := newTestService(t, 0)
	v, _ := gs.CreateGame()
	conn := &fakeConn{}
	if err := gs.Watch(v.ID, "c1", conn); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if conn.count() != 1 {
		t.Fatalf("expected initial state on watch, got %d messages", conn.count())
	}

	sel, err := gs.Click(v.ID, sq(t, "e2"))
	if err != nil {
		t.Fatalf("Click e2: %v", err)
	}
	if sel.Applied || sel.Selected == nil || len(sel.Moves) != 2 {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if got := conn.last(t); got.State.Selected == nil || *got.State.Selected != sq(t, "e2") {
		t.Fatalf("broadcast missing selection: %+v", got.State.Selected)
	}

	res, err := gs.Click(v.ID, sq(t, "e4"))
	if err != nil {
		t.Fatalf("Click e4: %v", err)
	}
	if !res.Applied || res.Game.State.Turn != model.Black || res.Game.StatusText != "Black's Turn" {
		t.Fatalf("unexpected click result %+v", res)
	}
	if got := conn.last(t); len(got.State.History) != 1 || got.State.Selected != nil {
		t.Fatalf("broadcast after move = %+v", got.State)
	}
	if n := logs.FilterMessage("move applied").Len(); n != 1 {
		t.Fatalf("expected one move log, got %d", n)
	}
}

func TestRejectedMoveIsQuiet(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, _ := gs.CreateGame()
	conn := &fakeConn{}
	_ = gs.Watch(v.ID, "c1", conn)

	res, err := gs.Move(v.ID, sq(t, "e2"), sq(t, "e5"))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if res.Applied || res.Game.State.Turn != model.White {
		t.Fatalf("illegal move applied: %+v", res)
	}
	if conn.count() != 1 {
		t.Fatalf("rejected move should not broadcast, got %d messages", conn.count())
	}
}

func TestCheckmateStatusText(t *testing.T) {
	gs, logs := newTestService(t, 0)
	v, _ := gs.CreateGame()
	var last MoveView
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		var err error
		last, err = gs.Move(v.ID, sq(t, m[:2]), sq(t, m[2:]))
		if err != nil || !last.Applied {
			t.Fatalf("move %s: %+v %v", m, last, err)
		}
	}
	if last.Game.StatusText != "Checkmate! Black wins!" || last.Game.State.Phase != model.PhaseGameOver {
		t.Fatalf("unexpected final view %q %v", last.Game.StatusText, last.Game.State.Phase)
	}
	if logs.FilterMessage("game over").Len() != 1 {
		t.Fatalf("expected game over log")
	}

	v2, err := gs.Reset(v.ID)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if v2.StatusText != "White's Turn" || len(v2.State.History) != 0 {
		t.Fatalf("reset view %+v", v2)
	}
}

func TestLegalMovesKeepsSelection(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, _ := gs.CreateGame()
	if _, err := gs.Select(v.ID, sq(t, "g1")); err != nil {
		t.Fatal(err)
	}
	moves, err := gs.LegalMoves(v.ID, sq(t, "b1"))
	if err != nil || len(moves) != 2 {
		t.Fatalf("LegalMoves b1 = %v, %v", moves, err)
	}
	got, _ := gs.GetGame(v.ID)
	if got.State.Selected == nil || *got.State.Selected != sq(t, "g1") {
		t.Fatalf("selection changed to %+v", got.State.Selected)
	}
}

func TestFailingConnectionDropped(t *testing.T) {
	gs, logs := newTestService(t, 0)
	v, _ := gs.CreateGame()
	good, bad := &fakeConn{}, &fakeConn{fail: true}
	_ = gs.Watch(v.ID, "good", good)
	_ = gs.Watch(v.ID, "bad", bad)

	if _, err := gs.Select(v.ID, sq(t, "e2")); err != nil {
		t.Fatal(err)
	}
	if good.count() != 2 {
		t.Fatalf("good connection got %d messages", good.count())
	}
	s, _ := gs.gameManager.GetSession(v.ID)
	s.mu.Lock()
	_, stillThere := s.conns["bad"]
	s.mu.Unlock()
	if stillThere {
		t.Fatalf("failing connection was not dropped")
	}
	if logs.FilterMessage("dropping connection after write failure").Len() == 0 {
		t.Fatalf("expected warning for dropped connection")
	}
}

func TestDeleteClosesConnections(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, _ := gs.CreateGame()
	conn := &fakeConn{}
	_ = gs.Watch(v.ID, "c1", conn)
	if err := gs.DeleteGame(v.ID); err != nil {
		t.Fatal(err)
	}
	if !conn.closed {
		t.Fatalf("connection not closed on delete")
	}
	gs.Unwatch(v.ID, "c1") // no-op on a deleted game
}

func TestSendError(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, _ := gs.CreateGame()
	conn := &fakeConn{}
	_ = gs.Watch(v.ID, "c1", conn)
	gs.SendError(v.ID, "c1", ws.ErrUnknownMessage)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	msg := conn.msgs[len(conn.msgs)-1]
	if msg.Type != ws.MessageTypeError {
		t.Fatalf("type = %q", msg.Type)
	}
	var p ws.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Error != ws.ErrUnknownMessage.Error() {
		t.Fatalf("payload = %s", msg.Payload)
	}
}

func TestConcurrentClicks(t *testing.T) {
	gs, _ := newTestService(t, 0)
	v, _ := gs.CreateGame()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			_, _ = gs.Click(v.ID, model.Square{Row: 6, Col: col})
			_, _ = gs.GetGame(v.ID)
		}(i)
	}
	wg.Wait()
	got, err := gs.GetGame(v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State.Selected == nil || got.State.Selected.Row != 6 || len(got.State.History) != 0 {
		t.Fatalf("unexpected state after concurrent selects: %+v", got.State)
	}
}
