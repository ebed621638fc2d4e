package console

import (
	"time"

	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/internal/appconfig"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/eventbus"
	"pkt.systems/socfolio/reveal"
	"pkt.systems/socfolio/schema"
)

// Window is a terminal size in cells.
type Window struct {
	Width  int
	Height int
}

// Config controls console timings and presentation.
type Config struct {
	Theme               schema.ThemeName
	FrameInterval       time.Duration
	TypewriterSpeed     time.Duration
	TypewriterDelay     time.Duration
	ScrambleInterval    time.Duration
	BootInterval        time.Duration
	BootHold            time.Duration
	SkipBoot            bool
	DisableAuditLogging bool
	Version             string
}

// Deps captures the console's collaborators. Sessions may be nil, in which
// case terminal sessions are created standalone from Content. Events, when
// set, should be the bus the registry publishes to.
type Deps struct {
	Content  content.Content
	Sessions *core.Registry
	Events   *eventbus.Bus
	Clock    func() time.Time
	Source   reveal.Source
}

// ConfigFromApp maps application settings onto a console configuration.
func ConfigFromApp(cfg appconfig.Config, version string) Config {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	theme, _ := schema.NormalizeThemeName(cfg.UI.Theme)
	return Config{
		Theme:               theme,
		FrameInterval:       ms(cfg.UI.FrameIntervalMs),
		TypewriterSpeed:     ms(cfg.UI.TypewriterSpeedMs),
		TypewriterDelay:     ms(cfg.UI.TypewriterDelayMs),
		ScrambleInterval:    ms(cfg.UI.ScrambleIntervalMs),
		BootInterval:        ms(cfg.UI.BootIntervalMs),
		BootHold:            ms(cfg.UI.BootHoldMs),
		SkipBoot:            cfg.UI.SkipBoot,
		DisableAuditLogging: cfg.Logging.DisableAuditTrails,
		Version:             version,
	}
}

func (c Config) withDefaults() Config {
	if c.Theme == "" {
		c.Theme = schema.DefaultTheme
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = 16 * time.Millisecond
	}
	if c.TypewriterSpeed <= 0 {
		c.TypewriterSpeed = 20 * time.Millisecond
	}
	if c.TypewriterDelay < 0 {
		c.TypewriterDelay = 0
	}
	if c.ScrambleInterval <= 0 {
		c.ScrambleInterval = 40 * time.Millisecond
	}
	if c.BootInterval <= 0 {
		c.BootInterval = 150 * time.Millisecond
	}
	if c.BootHold < 0 {
		c.BootHold = 0
	}
	return c
}
