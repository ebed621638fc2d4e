package core

import (
	"maps"
	"slices"

	"pkt.systems/socfolio/schema"
)

// Outcome is what a command produces: output text, or a transcript reset.
type Outcome struct {
	Reset bool
	Text  string
}

// Handler resolves a command. Handlers in the static table are pure.
type Handler func() Outcome

// Output returns a handler that always produces text.
func Output(text string) Handler {
	return func() Outcome { return Outcome{Text: text} }
}

// Reset returns the handler that restores the banner.
func Reset() Handler {
	return func() Outcome { return Outcome{Reset: true} }
}

// CommandTable is an immutable mapping from normalized command line to
// handler. The zero value recognizes nothing.
type CommandTable struct {
	handlers map[string]Handler
	names    []string
}

// NewCommandTable builds a table from entries. Keys are normalized the same
// way submitted lines are; nil handlers and empty keys are dropped.
func NewCommandTable(entries map[string]Handler) CommandTable {
	handlers := make(map[string]Handler, len(entries))
	for name, handler := range entries {
		key := schema.NormalizeCommand(name)
		if key == "" || handler == nil {
			continue
		}
		handlers[key] = handler
	}
	return CommandTable{
		handlers: handlers,
		names:    slices.Sorted(maps.Keys(handlers)),
	}
}

// Lookup resolves a normalized command.
func (t CommandTable) Lookup(cmd string) (Handler, bool) {
	handler, ok := t.handlers[cmd]
	return handler, ok
}

// Names returns the recognized commands in sorted order.
func (t CommandTable) Names() []string {
	return slices.Clone(t.names)
}

// Len reports the number of recognized commands.
func (t CommandTable) Len() int {
	return len(t.handlers)
}
