//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"pkt.systems/socfolio/console"
)

// watchResize reports the size of fd on every SIGWINCH until ctx is done.
// A pending size that was not consumed is replaced by the newer one.
func watchResize(ctx context.Context, fd int) <-chan console.Window {
	out := make(chan console.Window, 1)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
			}
			ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
			if err != nil || ws.Col == 0 || ws.Row == 0 {
				continue
			}
			win := console.Window{Width: int(ws.Col), Height: int(ws.Row)}
			select {
			case out <- win:
			default:
				select {
				case <-out:
				default:
				}
				out <- win
			}
		}
	}()
	return out
}
