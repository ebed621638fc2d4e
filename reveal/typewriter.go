// Package reveal animates text for terminal hosts: a left-to-right
// typewriter, a scramble that resolves noise into text, and the boot
// progress sequence. Every effect is driven by a tick.Scheduler owned by the
// host; nothing here starts goroutines or reads the wall clock.
package reveal

import (
	"iter"
	"time"

	"pkt.systems/socfolio/internal/tick"
)

// Frame is one rendered step of a reveal.
type Frame struct {
	Text     string
	Resolved int
	Complete bool
}

// Sequence yields the successive typewriter prefixes of text, ending with
// text itself. Empty text yields nothing.
func Sequence(text string) iter.Seq[string] {
	runes := []rune(text)
	return func(yield func(string) bool) {
		for i := range runes {
			if !yield(string(runes[:i+1])) {
				return
			}
		}
	}
}

// TypewriterConfig describes one typewriter run. Speed must be positive.
type TypewriterConfig struct {
	Text  string
	Speed time.Duration
	Delay time.Duration
}

// Typewriter reveals text one rune per tick after an initial delay.
type Typewriter struct {
	sched    *tick.Scheduler
	cfg      TypewriterConfig
	runes    []rune
	progress int
	display  string
	complete bool
	task     *tick.Task
	onFrame  func(Frame)
}

// NewTypewriter schedules a run of cfg on s. onFrame, when set, observes
// every emitted frame.
func NewTypewriter(s *tick.Scheduler, cfg TypewriterConfig, onFrame func(Frame)) *Typewriter {
	tw := &Typewriter{sched: s, cfg: cfg, onFrame: onFrame}
	tw.start()
	return tw
}

// Configure restarts the run when cfg differs from the current one.
func (tw *Typewriter) Configure(cfg TypewriterConfig) {
	if cfg == tw.cfg {
		return
	}
	tw.cfg = cfg
	tw.start()
}

// Restart discards progress and runs the current configuration again.
func (tw *Typewriter) Restart() {
	tw.start()
}

// Close cancels any pending ticks. No frame is emitted afterwards.
func (tw *Typewriter) Close() {
	tw.task.Cancel()
	tw.task = nil
}

// Display is the currently revealed prefix.
func (tw *Typewriter) Display() string { return tw.display }

// Progress is the number of revealed runes.
func (tw *Typewriter) Progress() int { return tw.progress }

// Complete reports whether the full text has been revealed.
func (tw *Typewriter) Complete() bool { return tw.complete }

// Config returns the active configuration.
func (tw *Typewriter) Config() TypewriterConfig { return tw.cfg }

// Len is the rune length of the configured text.
func (tw *Typewriter) Len() int { return len(tw.runes) }

func (tw *Typewriter) start() {
	tw.Close()
	tw.runes = []rune(tw.cfg.Text)
	tw.progress = 0
	tw.display = ""
	tw.complete = false
	if len(tw.runes) == 0 {
		tw.complete = true
		return
	}
	tw.task = tw.sched.Every(tw.cfg.Delay+tw.cfg.Speed, tw.cfg.Speed, tw.step)
}

func (tw *Typewriter) step() bool {
	tw.progress++
	tw.display = string(tw.runes[:tw.progress])
	if tw.progress >= len(tw.runes) {
		tw.complete = true
		tw.task = nil
	}
	if tw.onFrame != nil {
		tw.onFrame(Frame{Text: tw.display, Resolved: tw.progress, Complete: tw.complete})
	}
	return !tw.complete
}
