package appconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/socfolio/schema"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UI.ScrambleIntervalMs != 40 || cfg.UI.TypewriterSpeedMs != 20 {
		t.Fatalf("expected default timings, got %+v", cfg.UI)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 7
ssh:
  addr: ":2200"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
ssh:
  addr: ":2200"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected missing config_version error, got %v", err)
	}
}

func TestLoadOverridesValues(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
ssh:
  addr: ":2200"
http:
  enabled: true
  addr: "127.0.0.1:9000"
ui:
  theme: amber
  typewriter_speed_ms: 5
  skip_boot: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SSH.Addr != ":2200" || !cfg.HTTP.Enabled || cfg.HTTP.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected transport config %+v %+v", cfg.SSH, cfg.HTTP)
	}
	if cfg.UI.Theme != "amber" || cfg.UI.TypewriterSpeedMs != 5 || !cfg.UI.SkipBoot {
		t.Fatalf("unexpected ui config %+v", cfg.UI)
	}
	if cfg.UI.BootHoldMs != 800 {
		t.Fatalf("expected untouched keys to keep defaults, got %d", cfg.UI.BootHoldMs)
	}
}

func TestLoadRejectsNonPositiveSpeed(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
ui:
  scramble_interval_ms: 0
`)
	_, err := Load(path)
	if !errors.Is(err, schema.ErrInvalidSpeed) || !strings.Contains(err.Error(), "ui.scramble_interval_ms") {
		t.Fatalf("expected speed error, got %v", err)
	}
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
ui:
  theme: solarized
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "ui.theme") {
		t.Fatalf("expected theme error, got %v", err)
	}
}

func TestLoadRejectsInvalidBasePath(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
http:
  base_path: https://example.com/portfolio
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "http.base_path") {
		t.Fatalf("expected base_path error, got %v", err)
	}
}

func TestLoadExpandsContentPath(t *testing.T) {
	t.Setenv("PORTFOLIO_DIR", "/srv/portfolio")
	path := writeConfig(t, `
config_version: 1
content:
  path: $PORTFOLIO_DIR/content.cue
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Content.Path != "/srv/portfolio/content.cue" {
		t.Fatalf("unexpected content path %q", cfg.Content.Path)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("written default should load: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadIgnoresUnknownUIKeys(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
ui:
  scramble_speed_ms: 5
  scramble_interval_ms: 25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UI.ScrambleIntervalMs != 25 {
		t.Fatalf("expected scramble interval 25, got %d", cfg.UI.ScrambleIntervalMs)
	}
}
