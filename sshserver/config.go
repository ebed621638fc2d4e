package sshserver

import (
	"time"

	"pkt.systems/socfolio/internal/appconfig"
)

// Config defines SSH server settings.
type Config struct {
	Addr        string
	HostKeyPath string
	IdleTimeout time.Duration
	MaxTimeout  time.Duration
	MaxSessions int
}

// ConfigFromApp maps the ssh section of the application config.
func ConfigFromApp(cfg appconfig.SSHConfig) Config {
	return Config{
		Addr:        cfg.Addr,
		HostKeyPath: cfg.HostKeyPath,
		IdleTimeout: time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		MaxTimeout:  time.Duration(cfg.MaxTimeoutMinutes) * time.Minute,
		MaxSessions: cfg.MaxSessions,
	}
}
