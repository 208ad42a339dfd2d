// Package blob defines the key-value blob store the record store persists to.
package blob

import "context"

// Store holds opaque string values under string keys. Set replaces the
// whole value atomically.
type Store interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
