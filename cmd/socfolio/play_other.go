//go:build !unix

package main

import (
	"context"

	"pkt.systems/socfolio/console"
)

// watchResize is a no-op where SIGWINCH does not exist; the console keeps
// the size it was started with.
func watchResize(context.Context, int) <-chan console.Window {
	return nil
}
