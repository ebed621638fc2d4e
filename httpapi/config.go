package httpapi

import (
	"time"

	"pkt.systems/socfolio/internal/appconfig"
)

// Config defines HTTP API settings.
type Config struct {
	Addr        string
	BasePath    string
	SessionTTL  time.Duration
	MaxSessions int
	HubHistory  int
	Version     string
	Reveal      RevealConfig

	DisableAuditLogging bool
}

// RevealConfig holds the defaults applied to reveal streams when the
// request does not override them.
type RevealConfig struct {
	Speed            time.Duration
	Delay            time.Duration
	ScrambleInterval time.Duration
	MaxText          int
}

// ConfigFromApp maps application settings onto the HTTP configuration.
func ConfigFromApp(cfg appconfig.Config, version string) Config {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return Config{
		Addr:        cfg.HTTP.Addr,
		BasePath:    cfg.HTTP.BasePath,
		SessionTTL:  time.Duration(cfg.HTTP.SessionTTLMinutes) * time.Minute,
		MaxSessions: cfg.HTTP.MaxSessions,
		Version:     version,
		Reveal: RevealConfig{
			Speed:            ms(cfg.UI.TypewriterSpeedMs),
			Delay:            ms(cfg.UI.TypewriterDelayMs),
			ScrambleInterval: ms(cfg.UI.ScrambleIntervalMs),
		},
		DisableAuditLogging: cfg.Logging.DisableAuditTrails,
	}
}

func (c Config) withDefaults() Config {
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.HubHistory <= 0 {
		c.HubHistory = 1000
	}
	if c.Reveal.Speed <= 0 {
		c.Reveal.Speed = 20 * time.Millisecond
	}
	if c.Reveal.Delay < 0 {
		c.Reveal.Delay = 0
	}
	if c.Reveal.ScrambleInterval <= 0 {
		c.Reveal.ScrambleInterval = 40 * time.Millisecond
	}
	if c.Reveal.MaxText <= 0 {
		c.Reveal.MaxText = 4096
	}
	return c
}
