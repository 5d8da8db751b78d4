// Package storage is the boundary to the artifact store. The core only
// ever saves and loads opaque bytes under relative paths; the disk
// implementation below is the default collaborator.
package storage

import "context"

// Store persists rendered artifacts and uploaded assets.
type Store interface {
	// Save writes bytes under the given relative path, creating parent
	// directories as needed, and returns the canonical relative path.
	Save(ctx context.Context, path string, data []byte) (string, error)

	// Load reads the bytes stored under the relative path.
	Load(ctx context.Context, path string) ([]byte, error)

	// Resolve maps a relative path to an absolute filesystem location,
	// rejecting anything that escapes the store root.
	Resolve(path string) (string, error)
}
