package reveal

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"pkt.systems/socfolio/internal/tick"
)

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSequenceYieldsPrefixes(t *testing.T) {
	got := slices.Collect(Sequence("héllo"))
	want := []string{"h", "hé", "hél", "héll", "héllo"}
	if !slices.Equal(got, want) {
		t.Fatalf("Sequence = %q, want %q", got, want)
	}
	if n := len(slices.Collect(Sequence(""))); n != 0 {
		t.Fatalf("expected no values for empty text, got %d", n)
	}
}

func TestTypewriterEmitsPrefixesThenCompletes(t *testing.T) {
	s := tick.NewScheduler(epoch)
	var frames []Frame
	tw := NewTypewriter(s, TypewriterConfig{Text: "AB", Speed: 10 * time.Millisecond}, func(f Frame) {
		frames = append(frames, f)
	})

	s.Advance(epoch.Add(10 * time.Millisecond))
	if tw.Display() != "A" || tw.Complete() {
		t.Fatalf("after first tick display=%q complete=%v", tw.Display(), tw.Complete())
	}
	s.Advance(epoch.Add(time.Second))
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Text != "A" || frames[0].Complete {
		t.Fatalf("unexpected first frame %+v", frames[0])
	}
	if frames[1].Text != "AB" || !frames[1].Complete {
		t.Fatalf("unexpected final frame %+v", frames[1])
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending ticks after completion")
	}
}

func TestTypewriterHonoursDelay(t *testing.T) {
	s := tick.NewScheduler(epoch)
	tw := NewTypewriter(s, TypewriterConfig{Text: "abc", Speed: 20 * time.Millisecond, Delay: time.Second}, nil)
	s.Advance(epoch.Add(time.Second))
	if tw.Display() != "" {
		t.Fatalf("expected nothing before the first interval, got %q", tw.Display())
	}
	s.Advance(epoch.Add(time.Second + 20*time.Millisecond))
	if tw.Display() != "a" {
		t.Fatalf("expected first rune after delay, got %q", tw.Display())
	}
}

func TestTypewriterEmptyTextIsCompleteImmediately(t *testing.T) {
	s := tick.NewScheduler(epoch)
	emitted := 0
	tw := NewTypewriter(s, TypewriterConfig{Speed: time.Millisecond}, func(Frame) { emitted++ })
	if !tw.Complete() || tw.Display() != "" {
		t.Fatalf("empty text should be complete at once")
	}
	s.Advance(epoch.Add(time.Second))
	if emitted != 0 || s.Pending() != 0 {
		t.Fatalf("expected no ticks for empty text, emitted=%d pending=%d", emitted, s.Pending())
	}
}

func TestTypewriterReconfigureRestarts(t *testing.T) {
	s := tick.NewScheduler(epoch)
	var frames []string
	tw := NewTypewriter(s, TypewriterConfig{Text: "abcdef", Speed: 10 * time.Millisecond}, func(f Frame) {
		frames = append(frames, f.Text)
	})
	s.Advance(epoch.Add(30 * time.Millisecond))
	if tw.Display() != "abc" {
		t.Fatalf("expected abc, got %q", tw.Display())
	}

	tw.Configure(TypewriterConfig{Text: "abcdef", Speed: 5 * time.Millisecond})
	if tw.Display() != "" || tw.Progress() != 0 || tw.Complete() {
		t.Fatalf("reconfigure must reset progress")
	}
	frames = frames[:0]
	s.Advance(epoch.Add(35 * time.Millisecond))
	if len(frames) != 1 || frames[0] != "a" {
		t.Fatalf("expected restart from first rune, got %q", frames)
	}
	if s.Pending() != 1 {
		t.Fatalf("stale ticks survived reconfigure: pending=%d", s.Pending())
	}
}

func TestTypewriterRestartTwiceEqualsOnce(t *testing.T) {
	run := func(restarts int) []string {
		s := tick.NewScheduler(epoch)
		var frames []string
		tw := NewTypewriter(s, TypewriterConfig{Text: "xyz", Speed: 10 * time.Millisecond}, func(f Frame) {
			frames = append(frames, f.Text)
		})
		s.Advance(epoch.Add(10 * time.Millisecond))
		frames = frames[:0]
		for range restarts {
			tw.Restart()
		}
		s.Advance(epoch.Add(time.Second))
		return frames
	}
	once, twice := run(1), run(2)
	if !slices.Equal(once, twice) {
		t.Fatalf("restart not idempotent: %q vs %q", once, twice)
	}
}

func TestTypewriterCloseStopsEmissions(t *testing.T) {
	s := tick.NewScheduler(epoch)
	emitted := 0
	tw := NewTypewriter(s, TypewriterConfig{Text: "abc", Speed: 10 * time.Millisecond}, func(Frame) { emitted++ })
	s.Advance(epoch.Add(10 * time.Millisecond))
	tw.Close()
	s.Advance(epoch.Add(time.Second))
	if emitted != 1 {
		t.Fatalf("expected no frames after close, got %d", emitted)
	}
}

func TestScramblePassthroughWhileInactive(t *testing.T) {
	s := tick.NewScheduler(epoch)
	sc := NewScramble(s, ScrambleConfig{Text: "ALERT", Interval: 40 * time.Millisecond, Source: seeded()}, nil)
	s.Advance(epoch.Add(time.Second))
	if sc.Display() != "ALERT" {
		t.Fatalf("inactive scramble should pass text through, got %q", sc.Display())
	}
	if s.Pending() != 0 {
		t.Fatalf("inactive scramble must not schedule work")
	}
}

func TestScrambleResolvesMonotonically(t *testing.T) {
	s := tick.NewScheduler(epoch)
	text := []rune("THREAT_HUNT")
	var frames []Frame
	sc := NewScramble(s, ScrambleConfig{Text: string(text), Interval: 10 * time.Millisecond, Source: seeded()}, func(f Frame) {
		frames = append(frames, f)
	})
	sc.SetActive(true)
	s.Advance(epoch.Add(time.Minute))

	if want := ticksPerRune*len(text) + 1; len(frames) != want {
		t.Fatalf("expected %d ticks, got %d", want, len(frames))
	}
	prev := 0
	for k, f := range frames {
		if f.Resolved != k/ticksPerRune && k/ticksPerRune <= len(text) {
			t.Fatalf("tick %d resolved %d, want %d", k, f.Resolved, k/ticksPerRune)
		}
		if f.Resolved < prev {
			t.Fatalf("resolution went backwards at tick %d", k)
		}
		if got := ResolvedPrefix(text, f.Text); got < f.Resolved {
			t.Fatalf("tick %d frame %q locks only %d runes", k, f.Text, got)
		}
		prev = f.Resolved
	}
	last := frames[len(frames)-1]
	if last.Text != string(text) || !last.Complete || !sc.Complete() {
		t.Fatalf("unexpected final frame %+v", last)
	}
	if sc.Running() {
		t.Fatalf("scramble should stop once resolved")
	}
}

func TestScrambleDeactivateFreezesFrame(t *testing.T) {
	s := tick.NewScheduler(epoch)
	sc := NewScramble(s, ScrambleConfig{Text: "hello", Interval: 10 * time.Millisecond, Source: seeded()}, nil)
	sc.SetActive(true)
	s.Advance(epoch.Add(40 * time.Millisecond))
	frozen := sc.Display()
	if frozen == "hello" || sc.Resolved() != 1 {
		t.Fatalf("expected a partly resolved frame after 4 ticks, got %q (%d)", frozen, sc.Resolved())
	}
	sc.SetActive(false)
	s.Advance(epoch.Add(time.Second))
	if sc.Display() != frozen || sc.Frame() != frozen {
		t.Fatalf("display changed after deactivation: %q -> %q", frozen, sc.Display())
	}
	if sc.Resolved() != 1 {
		t.Fatalf("resolved count changed after deactivation: %d", sc.Resolved())
	}

	sc.SetActive(true)
	if sc.Resolved() != 0 || []rune(sc.Display())[0] == 'h' {
		t.Fatalf("reactivation must restart from noise, got %q (%d)", sc.Display(), sc.Resolved())
	}
	s.Advance(epoch.Add(time.Second + 10*time.Millisecond))
	if sc.Resolved() != 0 {
		t.Fatalf("first tick after reactivation must render zero resolved, got %d", sc.Resolved())
	}
}

func TestScrambleRepeatedActivationIsNotAnEdge(t *testing.T) {
	s := tick.NewScheduler(epoch)
	sc := NewScramble(s, ScrambleConfig{Text: "EDGE", Interval: 10 * time.Millisecond, Source: seeded()}, nil)
	sc.SetActive(true)
	s.Advance(epoch.Add(40 * time.Millisecond))
	before := sc.Resolved()
	sc.SetActive(true)
	s.Advance(epoch.Add(40 * time.Millisecond))
	if sc.Resolved() != before || s.Pending() != 1 {
		t.Fatalf("repeated activation restarted the run")
	}
}

func TestScrambleEmptyTextIsResolved(t *testing.T) {
	s := tick.NewScheduler(epoch)
	sc := NewScramble(s, ScrambleConfig{Interval: 10 * time.Millisecond}, nil)
	sc.SetActive(true)
	if !sc.Complete() || s.Pending() != 0 || sc.Display() != "" {
		t.Fatalf("empty scramble should be a resolved no-op")
	}
}

func TestScrambleArmAfterDelay(t *testing.T) {
	s := tick.NewScheduler(epoch)
	sc := NewScramble(s, ScrambleConfig{Text: "ID", Interval: 30 * time.Millisecond, Alphabet: SymbolAlphabet, Source: seeded()}, nil)
	sc.ArmAfter(200 * time.Millisecond)
	s.Advance(epoch.Add(199 * time.Millisecond))
	if sc.Active() {
		t.Fatalf("armed scramble activated early")
	}
	s.Advance(epoch.Add(time.Minute))
	if !sc.Active() || !sc.Complete() || sc.Display() != "ID" {
		t.Fatalf("armed scramble did not run to completion")
	}
}

func TestScrambleSetTextCancelsStaleTicks(t *testing.T) {
	s := tick.NewScheduler(epoch)
	var frames []Frame
	sc := NewScramble(s, ScrambleConfig{Text: "OLDTEXT", Interval: 10 * time.Millisecond, Source: seeded()}, func(f Frame) {
		frames = append(frames, f)
	})
	sc.SetActive(true)
	s.Advance(epoch.Add(50 * time.Millisecond))
	sc.SetText("NEW")
	frames = frames[:0]
	s.Advance(epoch.Add(time.Minute))
	for _, f := range frames {
		if len([]rune(f.Text)) != 3 {
			t.Fatalf("stale frame from old text: %q", f.Text)
		}
	}
	if sc.Display() != "NEW" {
		t.Fatalf("expected NEW, got %q", sc.Display())
	}
}

func TestGlyphDrawsFromAlphabet(t *testing.T) {
	alphabet := []rune(DefaultAlphabet)
	rng := seeded()
	for range 200 {
		if g := Glyph(alphabet, rng); !slices.Contains(alphabet, g) {
			t.Fatalf("glyph %q not in alphabet", g)
		}
	}
}

func TestBootReachesHundredAndHolds(t *testing.T) {
	s := tick.NewScheduler(epoch)
	statuses := []string{"A", "B", "C"}
	var frames []BootFrame
	b := NewBoot(s, BootConfig{
		Initial:  "INIT",
		Statuses: statuses,
		Interval: 150 * time.Millisecond,
		Hold:     800 * time.Millisecond,
		Source:   seeded(),
	}, func(f BootFrame) { frames = append(frames, f) })
	if b.Frame().Status != "INIT" {
		t.Fatalf("expected initial status, got %q", b.Frame().Status)
	}
	s.Advance(epoch.Add(time.Minute))

	prev := 0
	for _, f := range frames {
		if f.Percent < prev || f.Percent > 100 {
			t.Fatalf("percent not monotonic within bounds: %d after %d", f.Percent, prev)
		}
		prev = f.Percent
	}
	last := frames[len(frames)-1]
	if !last.Done || last.Percent != 100 || last.Status != "C" {
		t.Fatalf("unexpected final boot frame %+v", last)
	}
	if frames[len(frames)-2].Done {
		t.Fatalf("done reported before the hold elapsed")
	}
}

func TestBootSkip(t *testing.T) {
	s := tick.NewScheduler(epoch)
	b := NewBoot(s, BootConfig{Statuses: []string{"ONLY"}, Interval: time.Second, Source: seeded()}, nil)
	b.Skip()
	if f := b.Frame(); !f.Done || f.Percent != 100 || f.Status != "ONLY" {
		t.Fatalf("unexpected frame after skip %+v", f)
	}
	if s.Pending() != 0 {
		t.Fatalf("skip must cancel ticks")
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(50, 10); got != "█████░░░░░" {
		t.Fatalf("unexpected bar %q", got)
	}
	if got := ProgressBar(150, 4); got != "████" {
		t.Fatalf("expected clamped bar, got %q", got)
	}
}
