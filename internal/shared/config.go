package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify     SpotifyConfig     `toml:"spotify"`
	Tidal       TidalConfig       `toml:"tidal"`
	Database    DatabaseConfig    `toml:"database"`
	Sync        SyncConfig        `toml:"sync"`
	PlaylistMap []PlaylistMapping `toml:"playlist_map"`
}

// SpotifyConfig contains Spotify API credentials for the authorization-code flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
}

// TidalConfig contains Tidal API credentials for the device-code flow.
type TidalConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenPath    string `toml:"token_path"`
	CountryCode  string `toml:"country_code"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SyncConfig contains tunables for matching and reconciliation.
type SyncConfig struct {
	MaxConcurrency             int      `toml:"max_concurrency"`
	RateLimit                  float64  `toml:"rate_limit"`
	ChunkSize                  int      `toml:"chunk_size"`
	MaxRetries                 int      `toml:"max_retries"`
	EnableFuzzyMatching        bool     `toml:"enable_fuzzy_matching"`
	FuzzyNameThreshold         float64  `toml:"fuzzy_name_threshold"`
	FuzzyArtistThreshold       float64  `toml:"fuzzy_artist_threshold"`
	FuzzyArtistEntityThreshold float64  `toml:"fuzzy_artist_entity_threshold"`
	ArtistSearchLimit          int      `toml:"artist_search_limit"`
	ReportPath                 string   `toml:"report_path"`
	ExcludePlaylists           []string `toml:"exclude_playlists"`
}

// PlaylistMapping pins a Spotify playlist to an existing Tidal playlist,
// bypassing name matching for that pair.
type PlaylistMapping struct {
	SpotifyID string `toml:"spotify_id"`
	TidalID   string `toml:"tidal_id"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidArgument)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
