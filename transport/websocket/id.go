package websocket

import (
	"crypto/rand"
	"encoding/base64"
)

// randID - generates a short id used to tag a connection in logs.
func randID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
