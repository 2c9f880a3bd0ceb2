// Package artifacts stores generated proposal documents. Keys are
// session-scoped (`<session_id>/<filename>`) so concurrent sessions producing
// identically titled documents never collide.
package artifacts

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/tenderwright/tenderwright/pkg/lifecycle"
)

// Store persists generated document artifacts.
type Store interface {
	// Start registers lifecycle hooks that prepare the backing storage.
	Start(lc *lifecycle.Coordinator) error
	// Put writes the artifact under the given key and returns a stable
	// location string (filesystem path or blob URL).
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Open returns a stream for the artifact at the given key. The caller must
	// close the reader. Returns ErrNotFound if the artifact does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the artifact at the given key. Returns ErrNotFound if absent.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an artifact exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates a Store from the given configuration.
func New(cfg *Config, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendLocal:
		return newLocal(cfg, logger), nil
	case BackendAzure:
		return newAzure(cfg, logger)
	default:
		return nil, ErrUnknownBackend
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}
