// Package api provides the HTTP API server for translating text and browsing
// translation history.
package api

import "net/http"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8787")
	ListenAddr string

	// MCPHandler is mounted at /mcp when non-nil.
	MCPHandler http.Handler
}
