package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// MessageType names the kind of a websocket message.
type MessageType string

const (
	// client -> server
	MessageTypeSelect MessageType = "select"
	MessageTypeClick  MessageType = "click"
	MessageTypeMove   MessageType = "move"
	MessageTypeReset  MessageType = "reset"

	// server -> client
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SquarePayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p SquarePayload) Square() model.Square {
	return model.Square{Row: p.Row, Col: p.Col}
}

type MovePayload struct {
	From SquarePayload `json:"from"`
	To   SquarePayload `json:"to"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorMessage builds an error frame. It cannot fail.
func ErrorMessage(err error) Message {
	raw, _ := json.Marshal(ErrorPayload{Error: err.Error()})
	return Message{Type: MessageTypeError, Payload: raw}
}

// Decode unmarshals the payload into v, naming the message type on failure.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%s: decode payload: %w", m.Type, err)
	}
	return nil
}
