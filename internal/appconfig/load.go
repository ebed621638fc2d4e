package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pkt.systems/socfolio/schema"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SOCFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("ssh.addr", cfg.SSH.Addr)
	v.SetDefault("ssh.host_key_path", cfg.SSH.HostKeyPath)
	v.SetDefault("ssh.idle_timeout_seconds", cfg.SSH.IdleTimeoutSeconds)
	v.SetDefault("ssh.max_timeout_minutes", cfg.SSH.MaxTimeoutMinutes)
	v.SetDefault("ssh.max_sessions", cfg.SSH.MaxSessions)
	v.SetDefault("http.enabled", cfg.HTTP.Enabled)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("http.session_ttl_minutes", cfg.HTTP.SessionTTLMinutes)
	v.SetDefault("http.max_sessions", cfg.HTTP.MaxSessions)
	v.SetDefault("content.path", cfg.Content.Path)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.frame_interval_ms", cfg.UI.FrameIntervalMs)
	v.SetDefault("ui.typewriter_speed_ms", cfg.UI.TypewriterSpeedMs)
	v.SetDefault("ui.typewriter_delay_ms", cfg.UI.TypewriterDelayMs)
	v.SetDefault("ui.scramble_interval_ms", cfg.UI.ScrambleIntervalMs)
	v.SetDefault("ui.boot_interval_ms", cfg.UI.BootIntervalMs)
	v.SetDefault("ui.boot_hold_ms", cfg.UI.BootHoldMs)
	v.SetDefault("ui.skip_boot", cfg.UI.SkipBoot)
	v.SetDefault("logging.disable_audit_trails", cfg.Logging.DisableAuditTrails)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.InConfig("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateSSHConfig(cfg.SSH); err != nil {
		return Config{}, err
	}
	if err := validateHTTPConfig(cfg.HTTP); err != nil {
		return Config{}, err
	}
	if err := validateUIConfig(cfg.UI); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateSSHConfig(cfg SSHConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("ssh.addr is required")
	}
	if strings.TrimSpace(cfg.HostKeyPath) == "" {
		return fmt.Errorf("ssh.host_key_path is required")
	}
	if cfg.IdleTimeoutSeconds < 0 || cfg.MaxTimeoutMinutes < 0 || cfg.MaxSessions < 0 {
		return fmt.Errorf("ssh timeouts and limits must not be negative")
	}
	return nil
}

func validateHTTPConfig(cfg HTTPConfig) error {
	if cfg.Enabled && strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("http.addr is required when http.enabled is true")
	}
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath != "" {
		if strings.Contains(basePath, "://") {
			return fmt.Errorf("http.base_path must be a path prefix, not a URL")
		}
		if strings.ContainsAny(basePath, "?#") {
			return fmt.Errorf("http.base_path must not include query or fragment")
		}
	}
	if cfg.SessionTTLMinutes <= 0 {
		return fmt.Errorf("http.session_ttl_minutes must be positive")
	}
	return nil
}

func validateUIConfig(cfg UIConfig) error {
	if _, ok := schema.NormalizeThemeName(cfg.Theme); !ok {
		return fmt.Errorf("unsupported ui.theme %q (available: %v)", cfg.Theme, schema.AvailableThemes())
	}
	positive := []struct {
		key   string
		value int
	}{
		{"ui.frame_interval_ms", cfg.FrameIntervalMs},
		{"ui.typewriter_speed_ms", cfg.TypewriterSpeedMs},
		{"ui.scramble_interval_ms", cfg.ScrambleIntervalMs},
		{"ui.boot_interval_ms", cfg.BootIntervalMs},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive: %w", p.key, schema.ErrInvalidSpeed)
		}
	}
	if cfg.TypewriterDelayMs < 0 || cfg.BootHoldMs < 0 {
		return fmt.Errorf("ui delays must not be negative: %w", schema.ErrInvalidDelay)
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.SSH.HostKeyPath = expandEnv(cfg.SSH.HostKeyPath)
	cfg.Content.Path = expandEnv(cfg.Content.Path)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
