package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/console"
	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/internal/appconfig"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/internal/version"
)

type stdio struct {
	io.Reader
	io.Writer
}

func newPlayCmd() *cobra.Command {
	var cfgPath string
	var contentPath string
	var logPath string
	var skipBoot bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run the console in the local terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("stdin is not a terminal")
			}
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if contentPath != "" {
				cfg.Content.Path = contentPath
			}
			if skipBoot {
				cfg.UI.SkipBoot = true
			}
			cnt, err := content.Load(cfg.Content.Path)
			if err != nil {
				return err
			}
			logger, closeLog, err := playLogger(logPath)
			if err != nil {
				return err
			}
			defer closeLog()

			old, err := term.MakeRaw(fd)
			if err != nil {
				return err
			}
			defer func() { _ = term.Restore(fd, old) }()

			v := version.Current()
			sessions := core.NewRegistry(cnt.SessionConfig(v), core.RegistryDeps{Logger: logger})
			c := console.New(stdio{Reader: os.Stdin, Writer: os.Stdout}, console.ConfigFromApp(cfg, v), console.Deps{
				Content:  cnt,
				Sessions: sessions,
			})
			if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				c.SetSize(width, height)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			ctx = logx.ContextWithRemoteLogger(ctx, logger, "local")
			return c.Run(ctx, watchResize(ctx, int(os.Stdout.Fd())))
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&contentPath, "content", "", "path to a CUE content file (overrides content.path)")
	cmd.Flags().StringVar(&logPath, "log-file", "", "write structured logs to this file")
	cmd.Flags().BoolVar(&skipBoot, "skip-boot", false, "open the dossier without the boot sequence")
	return cmd
}

// playLogger keeps log output off the raw terminal. Without a log file the
// console logs are discarded.
func playLogger(path string) (pslog.Logger, func(), error) {
	if path == "" {
		return pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true}), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger := pslog.NewWithOptions(f, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.DebugLevel,
	})
	return logger, func() { _ = f.Close() }, nil
}
