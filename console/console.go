// Package console is the interactive text UI shared by SSH sessions and
// local play. It runs a boot sequence, then the operator dossier, and
// hosts the pseudo-terminal on demand.
package console

import (
	"context"
	"io"
	"strings"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/internal/eventbus"
	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/internal/tick"
	"pkt.systems/socfolio/reveal"
	"pkt.systems/socfolio/schema"
)

type view int

const (
	viewBoot view = iota
	viewDossier
	viewTerminal
)

func (v view) String() string {
	switch v {
	case viewBoot:
		return "boot"
	case viewDossier:
		return "dossier"
	case viewTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type overlay int

const (
	overlayNone overlay = iota
	overlayIntel
	overlayContact
)

const statusPrefix = "SOC_OPERATIONS_CENTER // "

// Console drives one interactive screen. All state is owned by the Run
// goroutine; reveal callbacks fire from scheduler.Advance on that goroutine.
type Console struct {
	ctx    context.Context
	in     io.Reader
	screen *screen
	cfg    Config
	deps   Deps
	theme  palette
	clock  func() time.Time
	sched  *tick.Scheduler

	width   int
	height  int
	view    view
	overlay overlay
	dirty   bool
	done    bool

	boot    *reveal.Boot
	status  *reveal.Scramble
	headers []*reveal.Scramble
	bio     *reveal.Typewriter
	focus   int
	top     int
	qr      []string
	notice  string

	session *core.Session
	events  <-chan eventbus.Event
	unsub   func()
	editor  lineEditor
	recall  recall
	scroll  core.Scrollback
}

// New prepares a console reading keys from and painting to rw.
func New(rw io.ReadWriter, cfg Config, deps Deps) *Console {
	cfg = cfg.withDefaults()
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	c := &Console{
		ctx:    context.Background(),
		in:     rw,
		screen: newScreen(rw),
		cfg:    cfg,
		deps:   deps,
		theme:  paletteFor(cfg.Theme),
		clock:  clock,
		sched:  tick.NewScheduler(clock()),
		width:  80,
		height: 24,
		recall: newRecall(),
	}
	c.status = reveal.NewScramble(c.sched, reveal.ScrambleConfig{
		Text:     statusPrefix + "BOOT",
		Interval: cfg.ScrambleInterval,
		Alphabet: reveal.SymbolAlphabet,
		Source:   deps.Source,
	}, c.markDirty)
	if cfg.SkipBoot {
		c.enterDossier()
	} else {
		c.enterBoot()
	}
	return c
}

// SetSize updates the viewport dimensions.
func (c *Console) SetSize(width, height int) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
	c.screen.invalidate()
	c.dirty = true
}

// Run paints the console and processes input until ctx is done, input
// ends or the visitor quits.
func (c *Console) Run(ctx context.Context, winCh <-chan Window) error {
	c.ctx = ctx
	c.screen.EnterAltScreen()
	defer c.screen.ExitAltScreen()
	defer c.close()

	keys := make(chan key, 32)
	go readKeys(c.in, keys)

	ticker := time.NewTicker(c.cfg.FrameInterval)
	defer ticker.Stop()

	c.log().Info("console started", "width", c.width, "height", c.height)
	c.dirty = true
	for {
		if c.dirty {
			if err := c.render(); err != nil {
				c.log().Debug("console render failed", "err", err)
				return err
			}
			c.dirty = false
		}
		select {
		case <-ctx.Done():
			c.log().Info("console exit", "reason", "context")
			return nil
		case k, ok := <-keys:
			if !ok {
				c.log().Info("console exit", "reason", "input closed")
				return nil
			}
			c.handleKey(k)
			if c.done {
				c.log().Info("console exit", "reason", "quit")
				return nil
			}
		case ev, ok := <-c.events:
			c.handleSessionEvent(ev, ok)
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			c.SetSize(win.Width, win.Height)
		case <-ticker.C:
			c.advance(c.clock())
		}
	}
}

func (c *Console) log() pslog.Logger {
	log := logx.Ctx(c.ctx)
	if c.session != nil {
		log = logx.WithSession(c.ctx, c.session.ID())
	}
	return logx.WithView(log, c.view.String())
}

func (c *Console) markDirty(reveal.Frame) {
	c.dirty = true
}

func (c *Console) advance(now time.Time) {
	if c.sched.Advance(now) > 0 {
		c.dirty = true
	}
}

func (c *Console) close() {
	if c.boot != nil {
		c.boot.Close()
	}
	c.status.Close()
	c.closeDossier()
	c.closeSession()
}

func (c *Console) setStatus(label string) {
	c.status.SetActive(false)
	c.status.SetText(statusPrefix + strings.ToUpper(label))
	c.status.SetActive(true)
}

func (c *Console) enterBoot() {
	c.view = viewBoot
	c.setStatus("boot")
	c.boot = reveal.NewBoot(c.sched, reveal.BootConfig{
		Initial:  c.deps.Content.Boot.Initial,
		Statuses: c.deps.Content.Boot.Statuses,
		Interval: c.cfg.BootInterval,
		Hold:     c.cfg.BootHold,
		Source:   c.deps.Source,
	}, c.onBoot)
}

func (c *Console) onBoot(frame reveal.BootFrame) {
	c.dirty = true
	if frame.Done && c.view == viewBoot {
		c.boot.Close()
		c.boot = nil
		c.enterDossier()
	}
}

func (c *Console) enterDossier() {
	c.view = viewDossier
	c.overlay = overlayNone
	c.setStatus("dossier")
	if c.headers != nil {
		c.dirty = true
		return
	}
	content := c.deps.Content
	titles := []string{"OPERATOR PROFILE", "TECHNICAL LEDGER"}
	for _, p := range content.Projects {
		titles = append(titles, p.Title)
	}
	for _, title := range titles {
		c.headers = append(c.headers, reveal.NewScramble(c.sched, reveal.ScrambleConfig{
			Text:     title,
			Interval: c.cfg.ScrambleInterval,
			Source:   c.deps.Source,
		}, c.markDirty))
	}
	c.bio = reveal.NewTypewriter(c.sched, reveal.TypewriterConfig{
		Text:  content.Profile.Bio,
		Speed: c.cfg.TypewriterSpeed,
		Delay: c.cfg.TypewriterDelay,
	}, c.markDirty)
	c.focus = 0
	c.headers[0].SetActive(true)
	c.dirty = true
}

func (c *Console) closeDossier() {
	for _, h := range c.headers {
		h.Close()
	}
	if c.bio != nil {
		c.bio.Close()
	}
}

// setFocus moves dossier focus. Leaving a section drops its scramble
// signal; entering raises it, restarting the reveal.
func (c *Console) setFocus(index int) {
	n := len(c.headers)
	if n == 0 {
		return
	}
	index = ((index % n) + n) % n
	if index == c.focus {
		return
	}
	c.headers[c.focus].SetActive(false)
	c.focus = index
	c.headers[c.focus].SetActive(true)
	c.dirty = true
}

// focusedProject returns the project index under focus, or -1.
func (c *Console) focusedProject() int {
	idx := c.focus - 2
	if idx < 0 || idx >= len(c.deps.Content.Projects) {
		return -1
	}
	return idx
}

func (c *Console) openTerminal() {
	if c.session == nil {
		sess, err := c.openSession()
		if err != nil {
			c.log().Warn("terminal open failed", "err", err)
			c.notice = "terminal unavailable: " + err.Error()
			return
		}
		c.session = sess
		if c.deps.Events != nil {
			c.events, c.unsub = c.deps.Events.Subscribe(sess.ID())
		}
		c.editor.Clear()
		c.recall.Reset()
		c.scroll = core.Scrollback{}
		c.log().Info("terminal opened")
	}
	c.view = viewTerminal
	c.overlay = overlayNone
	c.setStatus("terminal")
}

func (c *Console) openSession() (*core.Session, error) {
	if c.deps.Sessions != nil {
		return c.deps.Sessions.Open(c.ctx)
	}
	return core.NewSession(c.deps.Content.SessionConfig(c.cfg.Version), core.SessionDeps{}), nil
}

func (c *Console) closeSession() {
	if c.session == nil {
		return
	}
	c.unsubscribe()
	id := c.session.ID()
	if c.deps.Sessions != nil {
		if err := c.deps.Sessions.Close(c.ctx, id); err != nil {
			c.log().Debug("terminal close failed", "err", err)
		}
	} else {
		c.session.Close()
	}
	c.session = nil
	c.editor.Clear()
	c.recall.Reset()
}

func (c *Console) unsubscribe() {
	if c.unsub != nil {
		c.unsub()
	}
	c.events, c.unsub = nil, nil
}

// handleSessionEvent reacts to transcript changes published for the open
// session. A closed event or channel means the session was discarded by
// another owner, such as an operator or the registry shutting down.
func (c *Console) handleSessionEvent(ev eventbus.Event, ok bool) {
	c.dirty = true
	if ok && ev.Type != eventbus.EventClosed {
		return
	}
	c.unsubscribe()
	if c.session == nil {
		return
	}
	c.log().Info("terminal session discarded elsewhere")
	c.session = nil
	c.editor.Clear()
	c.recall.Reset()
	if c.view == viewTerminal {
		c.enterDossier()
	}
	c.notice = "terminal session closed"
}

func (c *Console) submit() {
	raw := c.editor.String()
	c.session.SetInput(raw)
	snap := c.session.SubmitInput(c.ctx)
	c.editor.SetString(snap.Input)
	c.recall.Reset()
	c.scroll.ResetScroll()
	if line := strings.TrimSpace(raw); line != "" && !c.cfg.DisableAuditLogging {
		c.log().Debug("audit command", "command_type", "terminal", "command", line)
	}
}

func (c *Console) handleKey(k key) {
	c.dirty = true
	c.notice = ""
	switch c.view {
	case viewBoot:
		c.boot.Skip()
	case viewDossier:
		c.handleDossierKey(k)
	case viewTerminal:
		c.handleTerminalKey(k)
	}
}

func (c *Console) handleDossierKey(k key) {
	if c.overlay != overlayNone {
		switch {
		case k.kind == keyRune && k.r == 'i' && c.overlay == overlayIntel,
			k.kind == keyRune && k.r == 'c' && c.overlay == overlayContact,
			k.kind == keyEscape, k.kind == keyEnter:
			c.overlay = overlayNone
			return
		case k.kind == keyRune && k.r == 'q', k.kind == keyCtrlD, k.kind == keyCtrlC:
			c.done = true
			return
		}
		c.overlay = overlayNone
	}
	switch k.kind {
	case keyTab, keyDown:
		c.setFocus(c.focus + 1)
	case keyShiftTab, keyUp:
		c.setFocus(c.focus - 1)
	case keyCtrlD, keyCtrlC:
		c.done = true
	case keyRune:
		switch k.r {
		case 'q', 'Q':
			c.done = true
		case 'j':
			c.setFocus(c.focus + 1)
		case 'k':
			c.setFocus(c.focus - 1)
		case 'i', 'I':
			c.overlay = overlayIntel
		case 'c', 'C':
			c.overlay = overlayContact
		case 't', 'T', '`':
			c.openTerminal()
		case 'r', 'R':
			c.bio.Restart()
		}
	}
}

func (c *Console) handleTerminalKey(k key) {
	switch k.kind {
	case keyEnter:
		c.submit()
	case keyCtrlC:
		c.editor.Clear()
		c.recall.Reset()
	case keyCtrlD:
		if c.editor.Len() == 0 {
			c.log().Info("terminal closed")
			c.closeSession()
			c.enterDossier()
			return
		}
		c.editor.Delete()
	case keyEscape:
		c.enterDossier()
	case keyCtrlL:
		c.scroll.ResetScroll()
	case keyUp:
		if entry, ok := c.recall.Older(c.session.History(), c.editor.String()); ok {
			c.editor.SetString(entry)
		}
	case keyDown:
		if entry, ok := c.recall.Newer(c.session.History()); ok {
			c.editor.SetString(entry)
		}
	case keyPageUp:
		c.scroll.Scroll(c.transcriptRows(), c.transcriptRows())
	case keyPageDown:
		c.scroll.Scroll(-c.transcriptRows(), c.transcriptRows())
	case keyCtrlA, keyHome:
		c.editor.MoveStart()
	case keyCtrlE, keyEnd:
		c.editor.MoveEnd()
	case keyAltB:
		c.editor.MoveWordLeft()
	case keyAltF:
		c.editor.MoveWordRight()
	case keyCtrlW:
		c.editor.DeleteWordBackward()
	case keyCtrlU:
		c.editor.KillLineStart()
	case keyCtrlK:
		c.editor.KillLineEnd()
	case keyLeft:
		c.editor.MoveLeft()
	case keyRight:
		c.editor.MoveRight()
	case keyBackspace:
		c.editor.Backspace()
	case keyDelete:
		c.editor.Delete()
	case keyRune:
		c.editor.InsertRune(k.r)
	case keyTab:
		c.complete()
	}
}

// complete extends the input to the single command it prefixes.
func (c *Console) complete() {
	prefix := schema.NormalizeCommand(c.editor.String())
	if prefix == "" {
		return
	}
	var match string
	for _, name := range c.session.Commands() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != "" {
			return
		}
		match = name
	}
	if match != "" {
		c.editor.SetString(match)
	}
}
