package reveal

import (
	"math/rand/v2"
	"time"

	"pkt.systems/socfolio/internal/tick"
)

// ticksPerRune is how many scramble ticks it takes to lock one rune.
const ticksPerRune = 3

// ScrambleConfig describes a scramble reveal. Interval must be positive; an
// empty Alphabet selects DefaultAlphabet and a nil Source a time-seeded one.
type ScrambleConfig struct {
	Text     string
	Interval time.Duration
	Alphabet string
	Source   Source
}

// Scramble resolves random glyphs into text while active. The resolved
// count is derived from an integer step counter so it advances by one third
// of a rune per tick regardless of tick jitter.
type Scramble struct {
	sched    *tick.Scheduler
	cfg      ScrambleConfig
	runes    []rune
	alphabet []rune
	rng      Source
	step     int
	resolved int
	frame    string
	active   bool
	complete bool
	task     *tick.Task
	arm      *tick.Task
	onFrame  func(Frame)
}

// NewScramble returns an inactive scramble for cfg.
func NewScramble(s *tick.Scheduler, cfg ScrambleConfig, onFrame func(Frame)) *Scramble {
	sc := &Scramble{sched: s, onFrame: onFrame}
	sc.apply(cfg)
	return sc
}

// SetActive feeds the activation signal. Only a false to true edge starts
// a run; dropping to false stops ticking and freezes the last frame.
func (sc *Scramble) SetActive(active bool) {
	if active == sc.active {
		return
	}
	sc.active = active
	if !active {
		sc.arm.Cancel()
		sc.arm = nil
		sc.stop()
		return
	}
	sc.run()
}

// ArmAfter activates the scramble once delay has elapsed.
func (sc *Scramble) ArmAfter(delay time.Duration) {
	sc.arm.Cancel()
	sc.arm = sc.sched.After(delay, func() {
		sc.arm = nil
		sc.SetActive(true)
	})
}

// SetText swaps the target text, restarting the run when active.
func (sc *Scramble) SetText(text string) {
	if text == sc.cfg.Text {
		return
	}
	cfg := sc.cfg
	cfg.Text = text
	sc.stop()
	sc.apply(cfg)
	if sc.active {
		sc.run()
	}
}

// Close cancels all pending work.
func (sc *Scramble) Close() {
	sc.arm.Cancel()
	sc.arm = nil
	sc.stop()
}

// Display is what a host should paint. A deactivated run keeps its last,
// possibly partly scrambled, frame until the next activation; a scramble
// that never ran shows the plain text.
func (sc *Scramble) Display() string { return sc.frame }

// Frame is the last rendered frame. It is the same string as Display.
func (sc *Scramble) Frame() string { return sc.frame }

// Text is the target text.
func (sc *Scramble) Text() string { return sc.cfg.Text }

// Resolved is the number of leading runes locked in the last frame.
func (sc *Scramble) Resolved() int { return sc.resolved }

// Active reports the current activation signal.
func (sc *Scramble) Active() bool { return sc.active }

// Running reports whether ticks are scheduled.
func (sc *Scramble) Running() bool { return sc.task.Active() }

// Complete reports whether the last run fully resolved.
func (sc *Scramble) Complete() bool { return sc.complete }

func (sc *Scramble) apply(cfg ScrambleConfig) {
	if cfg.Alphabet == "" {
		cfg.Alphabet = DefaultAlphabet
	}
	if cfg.Source == nil {
		cfg.Source = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5c7a))
	}
	sc.cfg = cfg
	sc.runes = []rune(cfg.Text)
	sc.alphabet = []rune(cfg.Alphabet)
	sc.rng = cfg.Source
	sc.step = 0
	sc.resolved = len(sc.runes)
	sc.frame = cfg.Text
	sc.complete = len(sc.runes) == 0
}

// run starts a fresh pass. The frame drops back to full noise on the edge
// so Display and Resolved agree before the first tick.
func (sc *Scramble) run() {
	sc.stop()
	sc.step = 0
	if len(sc.runes) == 0 {
		sc.complete = true
		return
	}
	sc.resolved = 0
	sc.frame = ScrambleFrame(sc.runes, 0, sc.alphabet, sc.rng)
	sc.complete = false
	sc.task = sc.sched.Every(sc.cfg.Interval, sc.cfg.Interval, sc.tick)
}

func (sc *Scramble) stop() {
	sc.task.Cancel()
	sc.task = nil
}

func (sc *Scramble) tick() bool {
	resolved := sc.resolvedAt(sc.step)
	sc.frame = ScrambleFrame(sc.runes, resolved, sc.alphabet, sc.rng)
	done := resolved >= len(sc.runes)
	sc.resolved = min(resolved, len(sc.runes))
	sc.step++
	if done {
		sc.complete = true
		sc.task = nil
	}
	if sc.onFrame != nil {
		sc.onFrame(Frame{Text: sc.frame, Resolved: sc.resolved, Complete: done})
	}
	return !done
}

func (sc *Scramble) resolvedAt(step int) int {
	return step / ticksPerRune
}
