package entity

const (
	StatusEmpty      = Status("empty")
	StatusInProgress = Status("in_progress")
	StatusWon        = Status("won")
	StatusDraw       = Status("draw")
)

// Status is the state of the game at the displayed snapshot.
type Status string

// HistoryEntry describes one selectable position of the timeline.
type HistoryEntry struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// Snapshot is an immutable view of a game's timeline at its cursor.
type Snapshot struct {
	Board     Board          `json:"board"`
	Cursor    int            `json:"cursor"`
	Length    int            `json:"length"`
	Winner    Mark           `json:"winner,omitempty"`
	NextTurn  Mark           `json:"next_turn,omitempty"`
	LastMover Mark           `json:"last_mover,omitempty"`
	Status    Status         `json:"status"`
	History   []HistoryEntry `json:"history"`
}

func (that Snapshot) IsWon() bool {
	return that.Status == StatusWon
}
