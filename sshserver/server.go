package sshserver

import (
	"context"
	"io"
	"net"
	"sync/atomic"

	gliderssh "github.com/gliderlabs/ssh"
	"golang.org/x/crypto/ssh"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/console"
	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/eventbus"
	"pkt.systems/socfolio/internal/logx"
)

// Server exposes the console over SSH. Any user name and key is accepted;
// the portfolio is public.
type Server struct {
	Config
	Listener net.Listener
	Content  content.Content
	Sessions *core.Registry
	Events   *eventbus.Bus
	Console  console.Config
	logger   pslog.Logger
	active   atomic.Int64
}

type authContextKey string

const fingerprintKey authContextKey = "fingerprint"

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}

	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:                       s.Addr,
		Handler:                    s.handleSession,
		PublicKeyHandler:           s.handlePublicKey,
		KeyboardInteractiveHandler: s.handleKeyboardInteractive,
		IdleTimeout:                s.IdleTimeout,
		MaxTimeout:                 s.MaxTimeout,
	}
	server.AddHostKey(signer)

	addr := s.Addr
	if s.Listener != nil {
		addr = s.Listener.Addr().String()
	}
	s.logger.Info("ssh server listening", "addr", addr, "host_key", ssh.FingerprintSHA256(signer.PublicKey()))

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

// Active reports the number of connected consoles.
func (s *Server) Active() int {
	return int(s.active.Load())
}

func (s *Server) handlePublicKey(ctx gliderssh.Context, key gliderssh.PublicKey) bool {
	fingerprint := ssh.FingerprintSHA256(key)
	ctx.SetValue(fingerprintKey, fingerprint)
	s.authLog(ctx).Info("ssh pubkey accepted", "fingerprint", fingerprint, "key_type", key.Type())
	return true
}

func (s *Server) handleKeyboardInteractive(ctx gliderssh.Context, _ ssh.KeyboardInteractiveChallenge) bool {
	s.authLog(ctx).Info("ssh keyboard-interactive accepted")
	return true
}

func (s *Server) authLog(ctx gliderssh.Context) pslog.Logger {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(ctx)
	}
	log = log.With("user", ctx.User(), "remote", remoteAddr(ctx))
	if id := ctx.SessionID(); id != "" {
		log = log.With("ssh_session", id)
	}
	return log
}

func remoteAddr(ctx gliderssh.Context) string {
	if ctx == nil || ctx.RemoteAddr() == nil {
		return ""
	}
	return ctx.RemoteAddr().String()
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	remote := sess.RemoteAddr().String()
	log = log.With("user", sess.User(), "remote", remote)
	if id := sess.Context().SessionID(); id != "" {
		log = log.With("ssh_session", id)
	}
	if fingerprint, ok := sess.Context().Value(fingerprintKey).(string); ok {
		log = log.With("fingerprint", fingerprint)
	}
	ctx := logx.ContextWithRemoteLogger(sess.Context(), log, remote)

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "an interactive terminal is required; connect with ssh -t\n")
		_ = sess.Exit(1)
		return
	}

	n := s.active.Add(1)
	defer s.active.Add(-1)
	if s.MaxSessions > 0 && n > int64(s.MaxSessions) {
		log.Warn("ssh session rejected", "reason", "session limit", "max", s.MaxSessions)
		_, _ = io.WriteString(sess, "all consoles are busy; try again later\r\n")
		_ = sess.Exit(1)
		return
	}

	log.Info("ssh session opened", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
	ui := console.New(sess, s.Console, console.Deps{Content: s.Content, Sessions: s.Sessions, Events: s.Events})
	ui.SetSize(pty.Window.Width, pty.Window.Height)
	if err := ui.Run(ctx, forwardWindows(ctx, winCh)); err != nil {
		log.Warn("ssh console failed", "err", err)
	}
	log.Info("ssh session closed", "term", pty.Term)
	_ = sess.Exit(0)
}

func forwardWindows(ctx context.Context, in <-chan gliderssh.Window) <-chan console.Window {
	out := make(chan console.Window, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case win, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- console.Window{Width: win.Width, Height: win.Height}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
