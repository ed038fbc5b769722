package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage session and HTTP client caches",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Drop all cached session data and HTTP clients",
				Action: r.CacheClear,
			},
		},
	}
}

// CacheClear drops every cached session and HTTP client. Evicted clients have
// their idle connections closed.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	sessions := r.generator.Sessions().Len()
	clients := r.music.Clients().Len()

	r.music.ClearCaches()

	r.logger.Info("caches cleared", "sessions", sessions, "clients", clients)
	return r.writePlain("✓ Cleared %d cached session(s) and %d client(s)\n", sessions, clients)
}
