package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// LoadToken reads a stored OAuth token from path. A missing file returns
// ErrNotAuthenticated so callers can prompt for login.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no token at %s", shared.ErrNotAuthenticated, path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// SaveToken writes token to path with owner-only permissions, creating
// parent directories as needed.
func SaveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// persistingTokenSource wraps an oauth2.TokenSource and writes every
// refreshed token back to disk, so long-lived refresh tokens survive
// between runs.
type persistingTokenSource struct {
	mu   sync.Mutex
	path string
	src  oauth2.TokenSource
	last string
}

func newPersistingTokenSource(path string, src oauth2.TokenSource, current *oauth2.Token) *persistingTokenSource {
	last := ""
	if current != nil {
		last = current.AccessToken
	}
	return &persistingTokenSource{path: path, src: src, last: last}
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token.AccessToken != p.last {
		if err := SaveToken(p.path, token); err != nil {
			return nil, err
		}
		p.last = token.AccessToken
	}

	return token, nil
}
