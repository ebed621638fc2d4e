package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"pkt.systems/socfolio/schema"
)

//go:embed schema.cue
var schemaSource []byte

//go:embed default.cue
var defaultSource []byte

// Default returns the built-in content.
func Default() (Content, error) {
	return Parse("default.cue", defaultSource)
}

// Load reads and validates a CUE content file. An empty path selects the
// built-in content.
func Load(path string) (Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("content: %w", err)
	}
	return Parse(path, data)
}

// Parse validates src against the schema and decodes it.
func Parse(filename string, src []byte) (Content, error) {
	ctx := cuecontext.New()
	def := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := def.Err(); err != nil {
		return Content{}, fmt.Errorf("content: schema: %w", err)
	}
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return Content{}, fmt.Errorf("content: %w", err)
	}
	unified := def.LookupPath(cue.ParsePath("#Content")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Content{}, fmt.Errorf("content: %s: %w", filename, err)
	}
	var out Content
	if err := unified.Decode(&out); err != nil {
		return Content{}, fmt.Errorf("content: decode %s: %w", filename, err)
	}
	if err := out.validate(); err != nil {
		return Content{}, fmt.Errorf("content: %s: %w", filename, err)
	}
	return out, nil
}

func (c Content) validate() error {
	var errs []error
	// Keyed like the command table so no two entries can share a lookup.
	seen := make(map[string]bool, len(c.Terminal.Commands))
	for _, cmd := range c.Terminal.Commands {
		key := schema.NormalizeCommand(cmd.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate command %q", cmd.Name))
		}
		seen[key] = true
		if !cmd.Reset && cmd.Output == "" {
			errs = append(errs, fmt.Errorf("command %q needs output or reset", cmd.Name))
		}
		if cmd.Reset && cmd.Output != "" {
			errs = append(errs, fmt.Errorf("command %q cannot set both output and reset", cmd.Name))
		}
	}
	ids := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if ids[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate project id %q", p.ID))
		}
		ids[p.ID] = true
	}
	return errors.Join(errs...)
}
