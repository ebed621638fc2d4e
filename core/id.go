package core

import (
	"crypto/rand"
	"encoding/hex"

	"pkt.systems/socfolio/schema"
)

// newSessionID returns 128 random bits as lowercase hex. crypto/rand.Read
// does not fail on supported platforms.
func newSessionID() schema.SessionID {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return schema.SessionID(hex.EncodeToString(buf[:]))
}
