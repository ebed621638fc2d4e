// Package content holds the static portfolio data: profile, projects,
// intel briefs and the terminal command table. Content is written in CUE
// and validated against an embedded schema before use.
package content

import (
	"slices"
	"strings"

	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/schema"
)

// Content is the decoded portfolio.
type Content struct {
	Profile  Profile     `json:"profile"`
	Ledger   []LedgerRow `json:"ledger"`
	Projects []Project   `json:"projects"`
	Intel    Intel       `json:"intel"`
	Contact  Contact     `json:"contact"`
	Boot     Boot        `json:"boot"`
	Terminal Terminal    `json:"terminal"`
	Footer   string      `json:"footer,omitempty"`
}

// Profile is the dossier header.
type Profile struct {
	Name    string `json:"name"`
	Handle  string `json:"handle"`
	Role    string `json:"role"`
	Region  string `json:"region"`
	Tagline string `json:"tagline"`
	Status  string `json:"status"`
	Bio     string `json:"bio"`
}

// LedgerRow is one label/value pair of the technical ledger.
type LedgerRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Project is one asset inventory entry.
type Project struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Desc  string   `json:"desc"`
	Tools []string `json:"tools"`
}

// Intel maps tool names to short briefs.
type Intel struct {
	Fallback string            `json:"fallback"`
	Briefs   map[string]string `json:"briefs"`
}

// Contact lists public endpoints.
type Contact struct {
	Email    string `json:"email"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Boot configures the boot sequence text.
type Boot struct {
	Initial  string   `json:"initial"`
	Statuses []string `json:"statuses"`
}

// Terminal configures the pseudo-terminal.
type Terminal struct {
	Prompt   string    `json:"prompt"`
	Banner   []string  `json:"banner"`
	Commands []Command `json:"commands"`
}

// Command is one entry of the static command table.
type Command struct {
	Name   string `json:"name"`
	Output string `json:"output,omitempty"`
	Reset  bool   `json:"reset,omitempty"`
}

const versionPlaceholder = "{{version}}"

// CommandTable builds the immutable dispatch table. The {{version}}
// placeholder in outputs is replaced with version once, here.
func (c Content) CommandTable(version string) core.CommandTable {
	entries := make(map[string]core.Handler, len(c.Terminal.Commands))
	for _, cmd := range c.Terminal.Commands {
		if cmd.Reset {
			entries[cmd.Name] = core.Reset()
			continue
		}
		entries[cmd.Name] = core.Output(strings.ReplaceAll(cmd.Output, versionPlaceholder, version))
	}
	return core.NewCommandTable(entries)
}

// SessionConfig returns the terminal configuration for new sessions.
func (c Content) SessionConfig(version string) core.SessionConfig {
	return core.SessionConfig{
		Prompt: c.Terminal.Prompt,
		Banner: schema.SystemLines(c.Terminal.Banner...),
		Table:  c.CommandTable(version),
	}
}

// Brief returns the intel brief for term, or the fallback text.
func (c Content) Brief(term string) string {
	if brief, ok := c.Intel.Briefs[term]; ok {
		return brief
	}
	for name, brief := range c.Intel.Briefs {
		if strings.EqualFold(name, strings.TrimSpace(term)) {
			return brief
		}
	}
	return c.Intel.Fallback
}

// Tools returns every distinct tool named by a project, in first-seen order.
func (c Content) Tools() []string {
	var out []string
	for _, p := range c.Projects {
		for _, tool := range p.Tools {
			if !slices.Contains(out, tool) {
				out = append(out, tool)
			}
		}
	}
	return out
}
