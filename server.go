// Package socfolio composes the SSH console and the HTTP API around one
// shared terminal session registry.
package socfolio

import (
	"context"
	"errors"
	"net"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/console"
	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/httpapi"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/eventbus"
	"pkt.systems/socfolio/sshserver"
)

// Server composes the HTTP and SSH services.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	HTTP        httpapi.Config
	SSH         sshserver.Config
	Console     console.Config
	HubHistory  int
	MaxSessions int
}

// ServerDeps captures dependencies required to build the server.
// Listeners are optional and override the configured addresses.
type ServerDeps struct {
	Content      content.Content
	Logger       pslog.Logger
	EventSink    core.EventSink
	HTTPListener net.Listener
	SSHListener  net.Listener
}

// ServerOption toggles compositor components.
type ServerOption func(*serverOptions)

type serverOptions struct {
	enableHTTP bool
	enableSSH  bool
}

// WithHTTP enables the HTTP API server.
func WithHTTP() ServerOption {
	return func(o *serverOptions) { o.enableHTTP = true }
}

// WithSSH enables the SSH server.
func WithSSH() ServerOption {
	return func(o *serverOptions) { o.enableSSH = true }
}

// New constructs a composable socfolio server.
func New(cfg ServerConfig, deps ServerDeps, opts ...ServerOption) (Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.enableHTTP && !options.enableSSH {
		return nil, errors.New("no services enabled")
	}
	if len(deps.Content.Terminal.Commands) == 0 {
		return nil, errors.New("content dependency is required")
	}

	var hub *httpapi.Hub
	var bus *eventbus.Bus
	if options.enableSSH {
		bus = eventbus.New(deps.Logger)
	}
	if options.enableHTTP {
		history := cfg.HubHistory
		if history <= 0 {
			history = cfg.HTTP.HubHistory
		}
		hub = httpapi.NewHub(history)
	}

	sinks := make([]core.EventSink, 0, 3)
	if deps.EventSink != nil {
		sinks = append(sinks, deps.EventSink)
	}
	if hub != nil {
		sinks = append(sinks, hub)
	}
	if bus != nil {
		sinks = append(sinks, bus)
	}
	var sink core.EventSink
	switch len(sinks) {
	case 0:
	case 1:
		sink = sinks[0]
	default:
		sink = eventFanout{sinks: sinks}
	}

	registry := core.NewRegistry(deps.Content.SessionConfig(cfg.Console.Version), core.RegistryDeps{
		EventSink:   sink,
		Logger:      deps.Logger,
		MaxSessions: cfg.MaxSessions,
	})

	srv := &compositeServer{
		cfg:      cfg,
		options:  options,
		registry: registry,
		httpLn:   deps.HTTPListener,
	}
	if options.enableHTTP {
		srv.httpSrv = httpapi.NewServer(cfg.HTTP, deps.Content, registry, hub)
	}
	if options.enableSSH {
		srv.sshSrv = &sshserver.Server{
			Config:   cfg.SSH,
			Listener: deps.SSHListener,
			Content:  deps.Content,
			Sessions: registry,
			Events:   bus,
			Console:  cfg.Console,
		}
	}
	return srv, nil
}

type compositeServer struct {
	cfg      ServerConfig
	options  serverOptions
	registry *core.Registry
	httpSrv  *httpapi.Server
	httpLn   net.Listener
	sshSrv   *sshserver.Server
	logger   pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	started bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.errCh = make(chan error, 2)
	s.started = true
	s.logger = pslog.Ctx(s.ctx)
	s.mu.Unlock()

	log := s.logger
	log.Info(
		"server start",
		"http", s.options.enableHTTP,
		"ssh", s.options.enableSSH,
		"http_addr", s.cfg.HTTP.Addr,
		"http_base_path", s.cfg.HTTP.BasePath,
		"ssh_addr", s.cfg.SSH.Addr,
	)
	if s.httpSrv != nil {
		s.httpSrv.SetBaseContext(s.ctx)
		go s.httpSrv.ExpireSessions(s.ctx)
		go func() {
			if err := httpapi.ListenAndServe(s.ctx, s.cfg.HTTP.Addr, s.httpLn, s.httpSrv.Handler()); err != nil {
				log.Error("http server failed", "err", err)
				s.errCh <- err
			}
		}()
	}
	if s.sshSrv != nil {
		go func() {
			if err := s.sshSrv.ListenAndServe(s.ctx); err != nil {
				log.Error("ssh server failed", "err", err)
				s.errCh <- err
			}
		}()
	}
	return nil
}

func (s *compositeServer) Wait() error {
	s.mu.Lock()
	ctx := s.ctx
	errCh := s.errCh
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			pslog.Ctx(ctx).Error("server stopped", "err", err)
			_ = s.Stop(context.Background())
			return err
		}
		return nil
	}
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	log := s.logger
	srvCtx := s.ctx
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested")
	if s.registry != nil {
		closed := 0
		for _, id := range s.registry.IDs() {
			if err := s.registry.Close(srvCtx, id); err == nil {
				closed++
			}
		}
		log.Info("server sessions closed", "count", closed)
	}
	if cancel != nil {
		cancel()
	}
	if ctx == nil {
		log.Info("server stop completed")
		return nil
	}
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err())
		return ctx.Err()
	case <-srvCtx.Done():
		log.Info("server stopped")
		return nil
	}
}
