package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmproxy/internal/session"
	"github.com/desertthunder/ytmproxy/internal/shared"
	"github.com/desertthunder/ytmproxy/internal/ui"
	"github.com/urfave/cli/v3"
)

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Inspect and configure YouTube Music credentials",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the current session configuration and credential health",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "watch",
				Usage: "Continuously monitor credential health in the terminal",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "interval",
						Usage: "Seconds between refreshes",
						Value: 5,
					},
				},
				Action: r.AuthWatch,
			},
			{
				Name:   "login",
				Usage:  "Sign in with the OAuth device flow",
				Action: r.AuthLogin,
			},
			{
				Name:  "import",
				Usage: "Import session cookies from a cURL command copied from the browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command text",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to save the extracted cookie header",
						Value:   "cookies.txt",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// authSnapshot resolves the effective session and assembles a diagnostic
// snapshot, probing the token server when one is configured.
func (r *Runner) authSnapshot(ctx context.Context) session.AuthStatus {
	cfg := r.music.ResolveSession(ctx, nil)

	status := session.NewAuthStatus(cfg).WithArtifacts(cfg.VisitorData, cfg.PoToken)
	if cfg.TokenServer != "" {
		if err := r.generator.TestTokenServer(ctx, cfg.TokenServer); err != nil {
			status.Error = err.Error()
		} else {
			status.TokenServerReachable = true
		}
	}
	return status
}

// AuthStatus prints a one-shot credential health report.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := r.authSnapshot(ctx)

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", ui.RenderAuthStatus(status))
}

// AuthWatch runs the interactive status view, refreshing on an interval.
func (r *Runner) AuthWatch(ctx context.Context, cmd *cli.Command) error {
	interval := time.Duration(cmd.Int("interval")) * time.Second
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", shared.ErrInvalidFlag)
	}

	fetch := func(ctx context.Context) (session.AuthStatus, error) {
		return r.authSnapshot(ctx), nil
	}

	p := tea.NewProgram(ui.NewWatchModel(ctx, fetch, interval))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running status view: %w", err)
	}
	return nil
}

// AuthLogin signs in with the OAuth device flow and persists the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	oauthCfg, err := session.NewOAuthConfig(r.config.OAuth.ClientID, r.config.OAuth.ClientSecret)
	if err != nil {
		return err
	}

	token, err := session.RunDeviceFlow(ctx, oauthCfg, func(verificationURL, userCode string) {
		r.writePlain("Visit %s and enter code: %s\n", verificationURL, userCode)
		if err := shared.OpenBrowser(verificationURL); err != nil {
			r.logger.Debug("could not open browser", "error", err)
		}
	})
	if err != nil {
		return err
	}

	tokenPath := r.config.OAuth.TokenPath
	if tokenPath == "" {
		tokenPath = "oauth_token.json"
	}
	if err := session.SaveToken(tokenPath, token); err != nil {
		return err
	}

	r.music.SetBearerToken(token.AccessToken)
	r.logger.Info("signed in", "token_path", tokenPath)

	r.writePlain("✓ Signed in successfully\n")
	r.writePlain("Token saved to: %s\n", tokenPath)
	return nil
}

// AuthImport extracts session cookies from a saved cURL command, validates
// them, and writes the cookie header to a file.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var headers *shared.CurlHeaders
	var err error
	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
	} else {
		headers, err = shared.ParseCurlCommand(curlCmd)
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}

	if headers.Cookie == "" {
		return fmt.Errorf("%w: no cookie found in cURL command", shared.ErrMissingCredentials)
	}

	result := session.ValidateYouTubeCookies(session.ParseCookies(headers.Cookie))
	if !result.Valid {
		for _, issue := range result.Missing {
			r.writePlain("✗ %s: %s\n", issue.Name, issue.Reason)
		}
		return fmt.Errorf("%w: cookie set is incomplete", shared.ErrInvalidCredentials)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(headers.Cookie), 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}

	r.logger.Info("cookies imported", "path", outputPath, "cookies", len(result.Present))

	r.writePlain("✓ Cookies imported successfully\n")
	r.writePlain("Saved to: %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set session.cookies in config.toml to the saved value, or export YTM_COOKIES\n")
	if ua := headers.UserAgent(); ua != "" {
		r.writePlain("2. Set session.user_agent to match the browser: %s\n", ua)
	}
	return nil
}
