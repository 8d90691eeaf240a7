// Package server hosts the loopback HTTP endpoint that receives the Spotify
// OAuth redirect during login.
package server

import (
	"net/http"
)

// Middleware wraps an [http.Handler] with additional behavior such as logging
// or request filtering.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and middleware for the callback server.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}
