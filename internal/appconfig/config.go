package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/socfolio/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	SSH           SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
	HTTP          HTTPConfig    `mapstructure:"http" yaml:"http"`
	Content       ContentConfig `mapstructure:"content" yaml:"content"`
	UI            UIConfig      `mapstructure:"ui" yaml:"ui"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Addr               string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath        string `mapstructure:"host_key_path" yaml:"host_key_path"`
	IdleTimeoutSeconds int    `mapstructure:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
	MaxTimeoutMinutes  int    `mapstructure:"max_timeout_minutes" yaml:"max_timeout_minutes"`
	MaxSessions        int    `mapstructure:"max_sessions" yaml:"max_sessions"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr              string `mapstructure:"addr" yaml:"addr"`
	BasePath          string `mapstructure:"base_path" yaml:"base_path"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes" yaml:"session_ttl_minutes"`
	MaxSessions       int    `mapstructure:"max_sessions" yaml:"max_sessions"`
}

// ContentConfig points at the portfolio content. An empty path selects the
// built-in content.
type ContentConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// UIConfig controls the console and reveal timings. All intervals are in
// milliseconds and must be positive; delays may be zero.
type UIConfig struct {
	Theme              string `mapstructure:"theme" yaml:"theme"`
	FrameIntervalMs    int    `mapstructure:"frame_interval_ms" yaml:"frame_interval_ms"`
	TypewriterSpeedMs  int    `mapstructure:"typewriter_speed_ms" yaml:"typewriter_speed_ms"`
	TypewriterDelayMs  int    `mapstructure:"typewriter_delay_ms" yaml:"typewriter_delay_ms"`
	ScrambleIntervalMs int    `mapstructure:"scramble_interval_ms" yaml:"scramble_interval_ms"`
	BootIntervalMs     int    `mapstructure:"boot_interval_ms" yaml:"boot_interval_ms"`
	BootHoldMs         int    `mapstructure:"boot_hold_ms" yaml:"boot_hold_ms"`
	SkipBoot           bool   `mapstructure:"skip_boot" yaml:"skip_boot"`
}

// LoggingConfig controls audit logging behavior.
type LoggingConfig struct {
	DisableAuditTrails bool `mapstructure:"disable_audit_trails" yaml:"disable_audit_trails"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		SSH: SSHConfig{
			Addr:               ":2222",
			HostKeyPath:        filepath.Join(home, ".socfolio", "ssh_host_key"),
			IdleTimeoutSeconds: 600,
			MaxTimeoutMinutes:  60,
			MaxSessions:        64,
		},
		HTTP: HTTPConfig{
			Enabled:           false,
			Addr:              ":8480",
			BasePath:          "",
			SessionTTLMinutes: 30,
			MaxSessions:       256,
		},
		Content: ContentConfig{
			Path: "",
		},
		UI: UIConfig{
			Theme:              string(schema.DefaultTheme),
			FrameIntervalMs:    16,
			TypewriterSpeedMs:  20,
			TypewriterDelayMs:  1000,
			ScrambleIntervalMs: 40,
			BootIntervalMs:     150,
			BootHoldMs:         800,
			SkipBoot:           false,
		},
		Logging: LoggingConfig{
			DisableAuditTrails: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".socfolio", "config.yaml"), nil
}
