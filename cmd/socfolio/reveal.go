package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/socfolio/internal/tick"
	"pkt.systems/socfolio/reveal"
	"pkt.systems/socfolio/schema"
)

type revealOptions struct {
	Mode  schema.RevealMode
	Text  string
	Speed time.Duration
	Delay time.Duration
}

func newRevealCmd() *cobra.Command {
	var mode string
	var speed time.Duration
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "reveal [text...]",
		Short: "Print text with a typewriter or scramble reveal",
		Long:  "Print text with a typewriter or scramble reveal. Without arguments the text is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := schema.NormalizeRevealMode(mode)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(data), "\r\n")
			}
			if !cmd.Flags().Changed("speed") && m == schema.RevealScramble {
				speed = 40 * time.Millisecond
			}
			return runReveal(cmd.Context(), cmd.OutOrStdout(), revealOptions{
				Mode:  m,
				Text:  text,
				Speed: speed,
				Delay: delay,
			}, time.Now)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(schema.RevealTypewriter), "reveal mode: typewriter or scramble")
	cmd.Flags().DurationVarP(&speed, "speed", "s", 20*time.Millisecond, "interval between reveal ticks")
	cmd.Flags().DurationVarP(&delay, "delay", "d", 0, "wait before the first tick")
	return cmd
}

// runReveal plays one reveal to w in real time. Typewriter frames append the
// newly revealed runes; scramble frames redraw the line in place.
func runReveal(ctx context.Context, w io.Writer, opts revealOptions, now func() time.Time) error {
	if opts.Text == "" {
		return schema.ErrEmptyText
	}
	if opts.Speed <= 0 {
		return schema.ErrInvalidSpeed
	}
	if opts.Delay < 0 {
		return schema.ErrInvalidDelay
	}
	sched := tick.NewScheduler(now())
	var (
		pending  []reveal.Frame
		written  int
		writeErr error
	)
	collect := func(f reveal.Frame) { pending = append(pending, f) }
	switch opts.Mode {
	case schema.RevealScramble:
		sc := reveal.NewScramble(sched, reveal.ScrambleConfig{Text: opts.Text, Interval: opts.Speed}, collect)
		defer sc.Close()
		if opts.Delay > 0 {
			sc.ArmAfter(opts.Delay)
		} else {
			sc.SetActive(true)
		}
	default:
		tw := reveal.NewTypewriter(sched, reveal.TypewriterConfig{Text: opts.Text, Speed: opts.Speed, Delay: opts.Delay}, collect)
		defer tw.Close()
	}

	done := false
	err := tick.Drive(ctx, sched, now, func() bool {
		defer func() { pending = pending[:0] }()
		for _, frame := range pending {
			if writeErr = ctx.Err(); writeErr != nil {
				return false
			}
			if opts.Mode == schema.RevealScramble {
				_, writeErr = fmt.Fprint(w, "\r"+frame.Text)
			} else {
				// Typewriter frames are prefixes of the text.
				_, writeErr = io.WriteString(w, frame.Text[written:])
				written = len(frame.Text)
			}
			if writeErr != nil {
				return false
			}
			if frame.Complete {
				done = true
				return false
			}
		}
		return true
	})
	if err == nil {
		err = writeErr
	}
	if err != nil {
		return err
	}
	if done {
		_, err = fmt.Fprintln(w)
	}
	return err
}
