package timeline

const (
	ReasonNone         = Reason("")
	ReasonGameWon      = Reason("game_won")
	ReasonCellOccupied = Reason("cell_occupied")
	ReasonInvalidCell  = Reason("invalid_cell")
)

// Reason explains why a move was ignored.
type Reason string

// MoveResult reports whether ApplyMove changed the timeline.
type MoveResult struct {
	Applied bool   `json:"applied"`
	Reason  Reason `json:"reason,omitempty"`
}

func applied() MoveResult {
	return MoveResult{Applied: true}
}

func ignored(reason Reason) MoveResult {
	return MoveResult{Reason: reason}
}
