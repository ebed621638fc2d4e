package schema

// SessionStatus describes whether a terminal session is accepting input.
type SessionStatus string

const (
	// SessionIdle indicates the session is waiting for input.
	SessionIdle SessionStatus = "idle"
	// SessionProcessing indicates a submission holds the session.
	SessionProcessing SessionStatus = "processing"
	// SessionClosed indicates the session was discarded.
	SessionClosed SessionStatus = "closed"
)

// TerminalSnapshot is a read-only view of a terminal session for transports.
type TerminalSnapshot struct {
	ID         SessionID     `json:"id"`
	Prompt     string        `json:"prompt"`
	Transcript []Line        `json:"transcript"`
	Input      string        `json:"input"`
	Status     SessionStatus `json:"status"`
}

// TranscriptEvent reports lines appended by one submission. Reset events
// carry the full replacement transcript.
type TranscriptEvent struct {
	SessionID SessionID `json:"session_id"`
	Lines     []Line    `json:"lines"`
	Reset     bool      `json:"reset,omitempty"`
}
