// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database, and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication with both services",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using the OAuth2 authorization-code flow",
				Action: r.AuthSpotify,
			},
			{
				Name:   "tidal",
				Usage:  "Authenticate with Tidal using the device-code flow",
				Action: r.AuthTidal,
			},
			{
				Name:   "status",
				Usage:  "Check stored credentials for both services",
				Action: r.AuthStatus,
			},
		},
	}
}

// spotifyCommand handles read-only Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Inspect the Spotify library",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List Spotify playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyPlaylists,
			},
			{
				Name:  "tracks",
				Usage: "List the tracks of one Spotify playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyTracks,
			},
			{
				Name:  "export",
				Usage: "Export one Spotify playlist to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path (base filename for csv, directory for markdown)",
					},
				},
				Action: r.SpotifyExport,
			},
		},
	}
}

// tidalCommand handles Tidal-side operations
func tidalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tidal",
		Usage: "Inspect the Tidal library",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List Tidal playlists",
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
				Action: r.TidalPlaylists,
			},
			{
				Name:  "search",
				Usage: "Search the Tidal catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Entity kind to search: tracks, albums, or artists",
						Value: "tracks",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TidalSearch,
			},
		},
	}
}

// syncCommand drives the reconciliation engine
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync collections from Spotify to Tidal",
		Commands: []*cli.Command{
			{
				Name:  "all",
				Usage: "Sync every playlist, liked songs, saved albums, and followed artists",
				Flags: []cli.Flag{
					dryRunFlag(),
					&cli.StringSliceFlag{
						Name:  "playlist",
						Usage: "Only sync the named playlists (repeatable)",
					},
				},
				Action: r.SyncAll,
			},
			{
				Name:  "playlist",
				Usage: "Sync a single playlist by id or name",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Spotify playlist ID",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Spotify playlist name (exact, case-insensitive)",
					},
					dryRunFlag(),
				},
				Action: r.SyncPlaylist,
			},
			{
				Name:    "favorites",
				Aliases: []string{"likes"},
				Usage:   "Sync liked songs to Tidal favorite tracks",
				Flags:   []cli.Flag{dryRunFlag()},
				Action:  r.SyncFavorites,
			},
			{
				Name:   "albums",
				Usage:  "Sync saved albums to Tidal favorite albums",
				Flags:  []cli.Flag{dryRunFlag()},
				Action: r.SyncAlbums,
			},
			{
				Name:   "artists",
				Usage:  "Sync followed artists to Tidal favorite artists",
				Flags:  []cli.Flag{dryRunFlag()},
				Action: r.SyncArtists,
			},
			{
				Name:  "history",
				Usage: "Show recent sync runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: r.SyncHistory,
			},
		},
	}
}

func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Compute and show the plan without changing anything on Tidal",
	}
}

// cacheCommand inspects and maintains the persistent failure cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the match-failure cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show failure cache counts",
				Action: r.CacheStats,
			},
			{
				Name:   "prune",
				Usage:  "Remove failure records whose retry window has passed",
				Action: r.CachePrune,
			},
			{
				Name:  "clear",
				Usage: "Forget the failure record for one item",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Failure key, e.g. track:<spotify-id>",
						Required: true,
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist syncing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist syncing",
		Action:  r.TUI,
	}
}
