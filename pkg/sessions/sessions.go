// Package sessions provides key-value session state storage behind a pluggable
// Store interface. A session id is an opaque random token issued on Create and
// is the caller's only handle to the stored state. Backends serialize state as
// JSON so stored bags never share memory with the caller.
package sessions

import (
	"context"
	"errors"
)

// ErrNotFound indicates the session id is unknown, deleted, or expired.
var ErrNotFound = errors.New("session not found")

// Store persists one state bag per session id.
//
// Contract:
//   - Create issues a fresh collision-free id and never fails on conflict
//   - Get returns the last-persisted state or ErrNotFound
//   - Update overwrites unconditionally (last-writer-wins) but returns
//     ErrNotFound if the session was deleted or expired since Create/Get
//   - Delete is an idempotent no-op for absent sessions
type Store[S any] interface {
	Create(ctx context.Context, state S) (string, error)
	Get(ctx context.Context, id string) (S, error)
	Update(ctx context.Context, id string, state S) error
	Delete(ctx context.Context, id string) error
}
