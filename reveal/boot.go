package reveal

import (
	"math/rand/v2"
	"strings"
	"time"

	"pkt.systems/socfolio/internal/tick"
)

// BootConfig drives the simulated boot sequence. Interval must be positive.
type BootConfig struct {
	Initial  string
	Statuses []string
	Interval time.Duration
	Hold     time.Duration
	MaxStep  int
	Source   Source
}

// BootFrame is one observed state of the boot sequence.
type BootFrame struct {
	Percent int
	Status  string
	Done    bool
}

// Boot advances a percentage by a random step per tick, mapping progress
// onto the status list. Reaching 100 pins the percentage and reports Done
// after the hold delay.
type Boot struct {
	sched   *tick.Scheduler
	cfg     BootConfig
	percent int
	status  string
	done    bool
	task    *tick.Task
	hold    *tick.Task
	onFrame func(BootFrame)
}

// NewBoot starts a boot sequence on s.
func NewBoot(s *tick.Scheduler, cfg BootConfig, onFrame func(BootFrame)) *Boot {
	if cfg.MaxStep <= 0 {
		cfg.MaxStep = 15
	}
	if cfg.Source == nil {
		cfg.Source = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xb007))
	}
	b := &Boot{sched: s, cfg: cfg, status: cfg.Initial, onFrame: onFrame}
	b.task = s.Every(cfg.Interval, cfg.Interval, b.tick)
	return b
}

// Frame reports the current state.
func (b *Boot) Frame() BootFrame {
	return BootFrame{Percent: b.percent, Status: b.status, Done: b.done}
}

// Skip finishes the sequence immediately.
func (b *Boot) Skip() {
	if b.done {
		return
	}
	b.Close()
	b.percent = 100
	b.status = b.lastStatus()
	b.finish()
}

// Close cancels pending ticks and the hold timer.
func (b *Boot) Close() {
	b.task.Cancel()
	b.task = nil
	b.hold.Cancel()
	b.hold = nil
}

func (b *Boot) tick() bool {
	next := b.percent + b.cfg.Source.IntN(b.cfg.MaxStep) + 1
	if next >= 100 {
		b.percent = 100
		b.status = b.lastStatus()
		b.task = nil
		b.emit()
		b.hold = b.sched.After(b.cfg.Hold, func() {
			b.hold = nil
			b.finish()
		})
		return false
	}
	b.percent = next
	if len(b.cfg.Statuses) > 0 {
		idx := next * len(b.cfg.Statuses) / 100
		b.status = b.cfg.Statuses[min(idx, len(b.cfg.Statuses)-1)]
	}
	b.emit()
	return true
}

func (b *Boot) finish() {
	b.done = true
	b.emit()
}

func (b *Boot) emit() {
	if b.onFrame != nil {
		b.onFrame(b.Frame())
	}
}

func (b *Boot) lastStatus() string {
	if len(b.cfg.Statuses) == 0 {
		return b.status
	}
	return b.cfg.Statuses[len(b.cfg.Statuses)-1]
}

// ProgressBar renders percent as a fixed-width bar of filled and empty cells.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
