package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newServeCmd(app func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render pages on request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), app())
		},
	}
	cmd.Flags().String("bind", "localhost:8080", "address or path to bind to")
	cmd.Flags().String("net", "tcp", `"tcp", "tcp4", "tcp6", "unix" or "unixpacket"`)
	cmd.Flags().Bool("watch", false, "reload content and reset the global cache on changes")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg
	ln, err := net.Listen(cfg.Net, cfg.Bind)
	if err != nil {
		return errors.Wrapf(err, "listen on %s %s", cfg.Net, cfg.Bind)
	}
	defer ln.Close()
	if strings.HasPrefix(cfg.Net, "unix") {
		if err := os.Chmod(cfg.Bind, 0666); err != nil {
			return errors.Wrapf(err, "chmod %s", cfg.Bind)
		}
	}

	if cfg.Watch {
		if a.content == nil {
			slog.Warn("--watch needs --content, not watching")
		} else {
			w, err := watchContent(ctx, a.content.watchPaths(), a.reload)
			if err != nil {
				return err
			}
			defer w.Close()
		}
	}

	srv := &http.Server{
		Handler:           newHandler(a),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting",
		slog.String("addr", cfg.Bind),
		slog.String("network", cfg.Net),
		slog.String("content", cfg.Content),
		slog.Bool("git", cfg.Git),
		slog.String("api", cfg.APIURL),
	)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
