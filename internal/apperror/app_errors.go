package apperror

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnknownAction   = errors.New("unknown action")
	ErrStorageNotReady = errors.New("storage is not ready")
)
