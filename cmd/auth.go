package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/server"
	"github.com/spotify2tidal/spotify-to-tidal/internal/services"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// authTimeout bounds how long the auth commands wait for the user to
// finish the browser-side half of a login.
const authTimeout = 2 * time.Minute

// AuthSpotify performs the OAuth2 authorization-code flow for Spotify.
//
// Starts a local HTTP server on the configured redirect URI, opens the
// browser for user authorization, and persists the exchanged token.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	spotify, ok := r.spotify.(*services.SpotifyService)
	if !ok || spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized, set client_id and client_secret in %s", shared.ErrServiceUnavailable, r.configName())
	}

	state := shared.GenerateID()
	authURL := spotify.GetAuthURL(state)

	oauthHandler := server.NewOAuthHandler(spotify.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr, err := redirectAddr(r.config.Spotify.RedirectURI)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting OAuth callback server", "addr", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", authTimeout)

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after %s", shared.ErrAuthFailed, authTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down callback server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	if err := services.SaveToken(spotify.TokenPath(), result.Token); err != nil {
		return err
	}

	r.writePlainln("✓ Spotify authorization successful")
	r.writePlain("✓ Token saved to %s\n", spotify.TokenPath())
	return nil
}

// AuthTidal performs the device-code flow for Tidal: prints the
// verification URL and code, then polls until the user approves.
func (r *Runner) AuthTidal(ctx context.Context, cmd *cli.Command) error {
	tidal, ok := r.tidal.(*services.TidalService)
	if !ok || tidal == nil {
		return fmt.Errorf("%w: Tidal service not initialized, set client_id and client_secret in %s", shared.ErrServiceUnavailable, r.configName())
	}

	auth, err := tidal.StartDeviceLogin(ctx)
	if err != nil {
		return err
	}

	verification := auth.VerificationURIComplete
	if verification == "" {
		verification = auth.VerificationURI
	}

	r.writePlain("→ Visit %s\n", verification)
	r.writePlain("→ Enter code: %s\n", auth.UserCode)
	if err := shared.OpenBrowser(verification); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
	}
	r.writePlain("→ Waiting for approval...\n")

	if err := tidal.CompleteDeviceLogin(ctx, auth); err != nil {
		return err
	}

	r.writePlainln("✓ Tidal authorization successful")
	return nil
}

// AuthStatus reports whether each service holds a stored, loadable token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writeServiceStatus("Spotify", r.spotify != nil, r.config.Spotify.TokenPath)
	r.writeServiceStatus("Tidal", r.tidal != nil, r.config.Tidal.TokenPath)
	return nil
}

func (r *Runner) writeServiceStatus(name string, configured bool, tokenPath string) {
	if !configured {
		r.writePlain("✗ %s: not configured (missing credentials in %s)\n", name, r.configName())
		return
	}
	if _, err := services.LoadToken(tokenPath); err != nil {
		r.writePlain("✗ %s: not authenticated (%v)\n", name, err)
		return
	}
	r.writePlain("✓ %s: token stored at %s\n", name, tokenPath)
}

// redirectAddr derives the local listen address from the configured OAuth
// redirect URI.
func redirectAddr(redirectURI string) (string, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid spotify redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}
	host := parsed.Hostname()
	port := parsed.Port()
	if port == "" {
		port = "80"
	}
	return host + ":" + port, nil
}
