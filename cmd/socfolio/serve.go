package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/socfolio"
	"pkt.systems/socfolio/console"
	"pkt.systems/socfolio/httpapi"
	"pkt.systems/socfolio/internal/appconfig"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/version"
	"pkt.systems/socfolio/sshserver"
)

//go:embed assets/logo.txt
var serveLogo string

const stopTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var cfgPath string
	var contentPath string
	var disableAuditTrails bool
	var noBanner bool
	var enableHTTP bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SSH console and, when enabled, the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logMode := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_MODE")))
			showBanner := !noBanner && logMode != "json" && logMode != "structured"
			if showBanner && serveLogo != "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), serveLogo)
			}
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if disableAuditTrails {
				cfg.Logging.DisableAuditTrails = true
			}
			if contentPath != "" {
				cfg.Content.Path = contentPath
			}
			if cmd.Flags().Changed("http") {
				cfg.HTTP.Enabled = enableHTTP
			}
			cnt, err := content.Load(cfg.Content.Path)
			if err != nil {
				return err
			}
			source := cfg.Content.Path
			if source == "" {
				source = "built-in"
			}
			logger.Info("content loaded", "source", source, "projects", len(cnt.Projects), "commands", len(cnt.Terminal.Commands))

			server, _, err := buildServer(cfg, cnt, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&contentPath, "content", "", "path to a CUE content file (overrides content.path)")
	cmd.Flags().BoolVar(&enableHTTP, "http", false, "enable the HTTP API (overrides http.enabled)")
	cmd.Flags().BoolVar(&disableAuditTrails, "disable-audit-trails", false, "disable audit trail logging for commands")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "disable startup banner")
	return cmd
}

// buildServer maps the application config onto the compositor.
func buildServer(cfg appconfig.Config, cnt content.Content, logger pslog.Logger) (socfolio.Server, socfolio.ServerConfig, error) {
	v := version.Current()
	serverCfg := socfolio.ServerConfig{
		HTTP:        httpapi.ConfigFromApp(cfg, v),
		SSH:         sshserver.ConfigFromApp(cfg.SSH),
		Console:     console.ConfigFromApp(cfg, v),
		HubHistory:  1000,
		MaxSessions: cfg.SSH.MaxSessions + cfg.HTTP.MaxSessions,
	}
	opts := []socfolio.ServerOption{socfolio.WithSSH()}
	if cfg.HTTP.Enabled {
		opts = append(opts, socfolio.WithHTTP())
	}
	server, err := socfolio.New(serverCfg, socfolio.ServerDeps{Content: cnt, Logger: logger}, opts...)
	if err != nil {
		return nil, serverCfg, err
	}
	return server, serverCfg, nil
}
