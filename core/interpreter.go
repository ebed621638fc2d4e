package core

import (
	"fmt"
	"slices"
	"strings"

	"pkt.systems/socfolio/schema"
)

// DefaultPrompt is shown before echoed input.
const DefaultPrompt = "➜ /root $ "

// SessionConfig is the static configuration shared by terminal sessions.
type SessionConfig struct {
	Prompt string
	Banner []schema.Line
	Table  CommandTable
}

// State is the mutable part of a terminal session.
type State struct {
	Transcript []schema.Line
	Input      string
}

// NewState returns the initial state: the banner and an empty input line.
func NewState(cfg SessionConfig) State {
	return State{Transcript: slices.Clone(cfg.Banner)}
}

// UnrecognizedText is the error line for a command missing from the table.
func UnrecognizedText(cmd string) string {
	return fmt.Sprintf("Error: Command '%s' not recognized.", cmd)
}

// Submit applies one input line to st and returns the resulting state. It
// never mutates st. Whitespace-only input leaves the state untouched.
func Submit(cfg SessionConfig, st State, raw string) State {
	next, _, _ := submit(cfg, st, raw)
	return next
}

// submit also reports whether raw was accepted and the transcript event the
// submission produced.
func submit(cfg SessionConfig, st State, raw string) (State, schema.TranscriptEvent, bool) {
	if strings.TrimSpace(raw) == "" {
		return st, schema.TranscriptEvent{}, false
	}
	cmd := schema.NormalizeCommand(raw)
	echo := schema.Line{Kind: schema.LineEcho, Text: cfg.Prompt + raw}

	handler, ok := cfg.Table.Lookup(cmd)
	if !ok {
		added := []schema.Line{echo, {Kind: schema.LineError, Text: UnrecognizedText(cmd)}}
		return appendState(st, added), schema.TranscriptEvent{Lines: added}, true
	}
	outcome := handler()
	if outcome.Reset {
		banner := slices.Clone(cfg.Banner)
		return State{Transcript: banner}, schema.TranscriptEvent{Lines: slices.Clone(banner), Reset: true}, true
	}
	added := []schema.Line{echo, {Kind: schema.LineResult, Text: outcome.Text}}
	return appendState(st, added), schema.TranscriptEvent{Lines: added}, true
}

func appendState(st State, lines []schema.Line) State {
	transcript := make([]schema.Line, 0, len(st.Transcript)+len(lines))
	transcript = append(transcript, st.Transcript...)
	transcript = append(transcript, lines...)
	return State{Transcript: transcript}
}
