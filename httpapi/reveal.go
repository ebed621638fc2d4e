package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/internal/tick"
	"pkt.systems/socfolio/reveal"
	"pkt.systems/socfolio/schema"
)

type revealRequest struct {
	Mode  schema.RevealMode
	Text  string
	Speed time.Duration
	Delay time.Duration
}

func (s *Server) parseRevealRequest(q url.Values) (revealRequest, error) {
	mode, err := schema.NormalizeRevealMode(q.Get("mode"))
	if err != nil {
		return revealRequest{}, err
	}
	req := revealRequest{Mode: mode, Text: q.Get("text")}
	if req.Text == "" {
		return revealRequest{}, schema.ErrEmptyText
	}
	if n := utf8.RuneCountInString(req.Text); n > s.cfg.Reveal.MaxText {
		return revealRequest{}, fmt.Errorf("%w: text exceeds %d runes", schema.ErrInvalidRequest, s.cfg.Reveal.MaxText)
	}

	req.Speed, req.Delay = s.cfg.Reveal.Speed, s.cfg.Reveal.Delay
	if mode == schema.RevealScramble {
		req.Speed, req.Delay = s.cfg.Reveal.ScrambleInterval, 0
	}
	if raw := q.Get("speed_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return revealRequest{}, schema.ErrInvalidSpeed
		}
		req.Speed = time.Duration(ms) * time.Millisecond
	}
	if raw := q.Get("delay_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return revealRequest{}, schema.ErrInvalidDelay
		}
		req.Delay = time.Duration(ms) * time.Millisecond
	}
	return req, nil
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	log := logx.Ctx(r.Context())
	req, err := s.parseRevealRequest(r.URL.Query())
	if err != nil {
		log.Debug("http reveal rejected", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	log = log.With("mode", req.Mode, "runes", utf8.RuneCountInString(req.Text))
	frames, err := streamReveal(r.Context(), req, s.now, func(event schema.RevealEvent) error {
		if err := writeSSEvent(w, uint64(event.Seq), event); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Info("http reveal canceled", "frames", frames)
	case err != nil:
		log.Debug("http reveal write failed", "err", err, "frames", frames)
	default:
		log.Info("http reveal done", "frames", frames)
	}
}

// streamReveal runs one reveal on a private scheduler driven by the wall
// clock and emits every frame. The reveal is torn down before it
// returns, so no tick runs after cancellation.
func streamReveal(ctx context.Context, req revealRequest, now func() time.Time, emit func(schema.RevealEvent) error) (int, error) {
	sched := tick.NewScheduler(now())
	var pending []reveal.Frame
	collect := func(f reveal.Frame) { pending = append(pending, f) }

	switch req.Mode {
	case schema.RevealScramble:
		sc := reveal.NewScramble(sched, reveal.ScrambleConfig{Text: req.Text, Interval: req.Speed}, collect)
		defer sc.Close()
		if req.Delay > 0 {
			sc.ArmAfter(req.Delay)
		} else {
			sc.SetActive(true)
		}
	default:
		tw := reveal.NewTypewriter(sched, reveal.TypewriterConfig{Text: req.Text, Speed: req.Speed, Delay: req.Delay}, collect)
		defer tw.Close()
	}

	var (
		seq     int
		emitErr error
	)
	err := tick.Drive(ctx, sched, now, func() bool {
		defer func() { pending = pending[:0] }()
		for _, frame := range pending {
			if emitErr = ctx.Err(); emitErr != nil {
				return false
			}
			seq++
			emitErr = emit(schema.RevealEvent{
				Mode:     req.Mode,
				Seq:      seq,
				Text:     frame.Text,
				Resolved: frame.Resolved,
				Complete: frame.Complete,
			})
			if emitErr != nil || frame.Complete {
				return false
			}
		}
		return true
	})
	if err == nil {
		err = emitErr
	}
	return seq, err
}
