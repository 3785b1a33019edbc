package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Loader is the interface for a format-specific profile loader.
type Loader interface {
	// Load reads the profile file at path and returns a validated Profile.
	Load(ctx context.Context, path string) (*Profile, error)

	// Extensions lists the file extensions this loader understands.
	Extensions() []string
}

// Resolve finds the profile file for game inside dbFolder and returns it
// together with the loader that understands its extension. Loaders are tried
// in order, so the first loader wins when several files exist.
func Resolve(dbFolder, game string, loaders ...Loader) (string, Loader, error) {
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			path := filepath.Join(dbFolder, game+ext)
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return "", nil, fmt.Errorf("error accessing profile %s: %w", path, err)
			}
			if !info.IsDir() {
				return path, l, nil
			}
		}
	}
	return "", nil, fmt.Errorf("no profile for game %q in %s", game, dbFolder)
}
