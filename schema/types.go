package schema

// SessionID identifies a terminal session.
type SessionID string

// ThemeName identifies a UI theme.
type ThemeName string

// LineKind classifies a transcript line.
type LineKind string

const (
	// LineSystem is banner and status output.
	LineSystem LineKind = "system"
	// LineEcho repeats submitted input after the prompt.
	LineEcho LineKind = "echo"
	// LineError reports an unrecognized command.
	LineError LineKind = "error"
	// LineResult is command output.
	LineResult LineKind = "result"
)

// Line is one transcript entry.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// SystemLines wraps each text as a System line.
func SystemLines(texts ...string) []Line {
	out := make([]Line, 0, len(texts))
	for _, text := range texts {
		out = append(out, Line{Kind: LineSystem, Text: text})
	}
	return out
}
