package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmproxy/internal/lyrics"
	"github.com/desertthunder/ytmproxy/internal/potoken"
	"github.com/desertthunder/ytmproxy/internal/repositories"
	"github.com/desertthunder/ytmproxy/internal/services"
	"github.com/desertthunder/ytmproxy/internal/session"
	"github.com/desertthunder/ytmproxy/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	if session.ResolveBool(session.SourceDebug, config.Server.Debug) {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	var engine potoken.Engine
	if config.Engine.ScriptPath != "" {
		engine = potoken.NewGojaEngineWithScript(config.Engine.ScriptPath)
	} else {
		engine = potoken.NewGojaEngine()
	}
	generator := potoken.NewGenerator(engine, nil, logger)

	var db *sql.DB
	var lyricsClient *lyrics.Client
	if session.ResolveBool(session.SourceLyrics, config.Lyrics.Enabled) {
		timeout := time.Duration(config.Lyrics.TimeoutMS) * time.Millisecond
		lyricsClient = lyrics.New(config.Lyrics.BaseURL, nil, timeout, logger)

		if _, err := os.Stat(config.Database.Path); err == nil {
			if db, err = shared.NewDatabase(config.Database.Path); err == nil {
				shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
				lyricsClient.SetStore(repositories.NewLyricsStoreAdapter(repositories.NewLyricsRepository(db), logger))
			} else {
				logger.Warn("failed to open lyrics database", "path", config.Database.Path, "error", err)
			}
		}
	}

	music := services.NewMusicService(config, generator, lyricsClient, logger)

	if config.OAuth.TokenPath != "" {
		if token, err := session.LoadToken(config.OAuth.TokenPath); err == nil && token.Valid() {
			logger.Info("using saved oauth token for upstream calls")
			music.SetBearerToken(token.AccessToken)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Music:     music,
		Generator: generator,
		DB:        db,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "ytmproxy",
		Usage:    "Backend proxy for the YouTube Music API",
		Version:  version,
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	if db != nil {
		db.Close()
	}
	if err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
