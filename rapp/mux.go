package rapp

import (
	"net/http"

	"github.com/advdv/rhttp"
	"go.uber.org/zap"
)

// DefaultMaxResponseBytes bounds buffered responses to 6 MiB minus 1 KiB of header room.
const DefaultMaxResponseBytes = 6*1024*1024 - 1024

// Mux is an alias for rhttp.ServeMux.
type Mux = rhttp.ServeMux

// NewMux creates a new Mux with buffered responses bounded by [DefaultMaxResponseBytes]
// and failures reported through the zap logger.
func NewMux(logs *zap.Logger) *Mux {
	return rhttp.NewServeMuxWith(
		DefaultMaxResponseBytes,
		newZapHTTPLogger(logs),
		http.NewServeMux(),
		rhttp.NewReverser(),
	)
}
