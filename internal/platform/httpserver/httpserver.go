// Package httpserver builds the net/http server the service runs on.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server with defaults suited to this API. WriteTimeout stays
// unset because the CSV export streams its response and must not be cut off
// mid-file.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
