package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

const (
	actionNewGame = "game:new"
	actionState   = "game:state"
	actionTurn    = "game:turn"
	actionGoTo    = "game:goto"
	actionReset   = "game:reset"
	actionUpdate  = "game:update"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	GameID string `json:"game_id"`
	Cell   *int   `json:"cell,omitempty"`
	Index  *int   `json:"index,omitempty"`
}

type ResponsePayload struct {
	GameID   string               `json:"game_id,omitempty"`
	Snapshot *entity.Snapshot     `json:"snapshot,omitempty"`
	Result   *timeline.MoveResult `json:"result,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func newMessage(action string, payload ResponsePayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: body})
}
