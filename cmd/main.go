package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/services"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	retry := shared.DefaultRetryPolicy(config.Sync.MaxRetries)

	var spotify services.SourceService
	if svc, err := services.NewSpotifyService(config.Spotify, retry, logger); err == nil {
		spotify = svc
	}

	var tidal services.TargetService
	if svc, err := services.NewTidalService(config.Tidal, retry, logger); err == nil {
		svc.ChunkSize = config.Sync.ChunkSize
		tidal = svc
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Spotify:    spotify,
		Tidal:      tidal,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "spotify-to-tidal",
		Usage:    "Sync a Spotify library (playlists, likes, albums, artists) to Tidal",
		Version:  "0.3.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
