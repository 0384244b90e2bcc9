// Package prefs persists user preferences, chiefly the active theme.
//
// Preferences are plain string key/value pairs. The theme lives under
// [ThemeKey]; when it is absent, [DefaultTheme] applies. The layout engine
// never reads preferences.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and ephemeral servers
//   - [FileStore]: a JSON file, for the CLI
//   - [SQLiteStore]: a single-table database, for a standalone server
//   - [RedisStore]: a Redis hash, for multi-instance servers
package prefs

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/themes"
)

// ThemeKey is the preference key holding the active theme id.
const ThemeKey = themes.Key

// DefaultTheme applies when no theme has been stored.
const DefaultTheme = themes.Default

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("prefs: store closed")

// Store is a string key/value preference store.
type Store interface {
	// Get returns the value for key. A missing key is ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Close releases backend resources.
	Close() error
}

// CurrentTheme returns the stored theme id, or DefaultTheme when none is
// stored or the stored id is no longer a known theme.
func CurrentTheme(ctx context.Context, s Store) (string, error) {
	v, ok, err := s.Get(ctx, ThemeKey)
	if err != nil {
		return DefaultTheme, fmt.Errorf("read theme: %w", err)
	}
	if !ok {
		return DefaultTheme, nil
	}
	if _, known := themes.Lookup(v); !known {
		return DefaultTheme, nil
	}
	return v, nil
}

// SetTheme validates id and stores it.
func SetTheme(ctx context.Context, s Store, id string) error {
	if err := perrors.ValidateThemeID(id); err != nil {
		return err
	}
	if _, ok := themes.Lookup(id); !ok {
		return perrors.New(perrors.ErrCodeInvalidTheme, "unknown theme %q", id)
	}
	if err := s.Set(ctx, ThemeKey, id); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}
