package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/ytmproxy/internal/server"
	"github.com/desertthunder/ytmproxy/internal/session"
	"github.com/urfave/cli/v3"
)

const shutdownGracePeriod = 10 * time.Second

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// Serve builds the router, wires middleware and handlers, and runs the server
// until an interrupt or termination signal arrives.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := r.config.Server.Host
	if flagHost := cmd.String("host"); flagHost != "" {
		host = flagHost
	}
	port := r.config.Server.Port
	if flagPort := cmd.Int("port"); flagPort != 0 {
		port = int(flagPort)
	}

	router := server.NewBasicRouter()
	router.Use(
		server.Recovery(r.logger),
		server.RequestID(),
		server.Logging(r.logger),
	)
	if r.config.Server.RateLimit > 0 {
		router.Use(server.RateLimit(r.config.Server.RateLimit))
	}
	if session.ResolveBool(session.SourceHTTPS, r.config.Server.HTTPSRedirect) {
		router.Use(server.HTTPSRedirect())
	}

	router.Handler(server.NewHealthHandler(version))
	router.Handler(server.NewAuthStatusHandler(r.music, r.generator))
	router.Handler(server.NewMusicHandler(r.music, r.logger))
	router.Handler(server.NewCacheHandler(r.music, r.logger))

	if dir := r.config.Server.StaticDir; dir != "" {
		r.logger.Info("serving static player assets", "dir", dir)
		router.Handle(http.MethodGet, "/app/", http.StripPrefix("/app/", http.FileServer(http.Dir(dir))))
	}

	srv := server.New(host, port, router, r.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		r.logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		r.logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
