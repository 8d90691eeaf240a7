package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/cache"
	"github.com/spotify2tidal/spotify-to-tidal/internal/matcher"
	"github.com/spotify2tidal/spotify-to-tidal/internal/repositories"
	"github.com/spotify2tidal/spotify-to-tidal/internal/search"
	"github.com/spotify2tidal/spotify-to-tidal/internal/services"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
	"github.com/spotify2tidal/spotify-to-tidal/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.SourceService
	tidal      services.TargetService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.SourceService
	Tidal      services.TargetService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		tidal:      opts.Tidal,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, spotifyCommand, tidalCommand, syncCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI takes over the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// session bundles everything a sync command needs, built once per
// invocation and torn down with Close.
type session struct {
	engine   *tasks.Engine
	failures *repositories.FailureRepository
	runs     *repositories.SyncRunRepository
	db       *sql.DB
}

func (s *session) Close() error {
	return s.db.Close()
}

// openDatabase opens the configured SQLite store and brings the schema up
// to date.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// sessionOpts carries per-invocation engine knobs set from command flags.
type sessionOpts struct {
	DryRun        bool
	OnlyPlaylists []string
}

// buildSession authenticates both services and wires the sync engine with
// its caches, repositories, and search pool.
func (r *Runner) buildSession(ctx context.Context, opts sessionOpts) (*session, error) {
	if r.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized, check [spotify] credentials in %s", shared.ErrServiceUnavailable, r.configName())
	}
	if r.tidal == nil {
		return nil, fmt.Errorf("%w: Tidal service not initialized, check [tidal] credentials in %s", shared.ErrServiceUnavailable, r.configName())
	}

	if err := r.authenticate(ctx); err != nil {
		return nil, err
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}

	matchCache := cache.New()
	m := matcher.New(matcher.Options{
		EnableFuzzy:           r.config.Sync.EnableFuzzyMatching,
		NameThreshold:         r.config.Sync.FuzzyNameThreshold,
		ArtistThreshold:       r.config.Sync.FuzzyArtistThreshold,
		ArtistEntityThreshold: r.config.Sync.FuzzyArtistEntityThreshold,
	})

	failures := repositories.NewFailureRepository(db)
	orchestrator := search.NewOrchestrator(r.tidal, m, matchCache, failures, r.logger)
	orchestrator.ArtistSearchLimit = r.config.Sync.ArtistSearchLimit

	runs := repositories.NewSyncRunRepository(db)

	engine := tasks.NewEngine(tasks.EngineConfig{
		Source:  r.spotify,
		Target:  r.tidal,
		Matcher: m,
		Cache:   matchCache,
		Search:  orchestrator,
		Pool: &search.Pool{
			Workers:   r.config.Sync.MaxConcurrency,
			RateLimit: r.config.Sync.RateLimit,
		},
		Links:         repositories.NewPlaylistLinkRepository(db),
		Runs:          runs,
		Config:        r.config,
		Logger:        r.logger,
		DryRun:        opts.DryRun,
		OnlyPlaylists: opts.OnlyPlaylists,
	})

	return &session{engine: engine, failures: failures, runs: runs, db: db}, nil
}

// authService is the token-loading half both catalog clients implement.
type authService interface {
	Authenticate(ctx context.Context) error
}

// authenticate loads the stored tokens for both services, pointing the
// user at the auth commands when one is missing.
func (r *Runner) authenticate(ctx context.Context) error {
	if err := r.authenticateSpotify(ctx); err != nil {
		return err
	}
	return r.authenticateTidal(ctx)
}

func (r *Runner) authenticateSpotify(ctx context.Context) error {
	if svc, ok := r.spotify.(authService); ok {
		if err := svc.Authenticate(ctx); err != nil {
			return fmt.Errorf("spotify login required, run 'auth spotify' first: %w", err)
		}
	}
	return nil
}

func (r *Runner) authenticateTidal(ctx context.Context) error {
	if svc, ok := r.tidal.(authService); ok {
		if err := svc.Authenticate(ctx); err != nil {
			return fmt.Errorf("tidal login required, run 'auth tidal' first: %w", err)
		}
	}
	return nil
}

func (r *Runner) configName() string {
	if r.configPath != "" {
		return r.configPath
	}
	return "config.toml"
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
