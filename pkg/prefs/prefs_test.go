package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/themes"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "prefs.json"))
	require.NoError(t, err)
	db, err := NewSQLiteStore(filepath.Join(dir, "prefs.db"))
	require.NoError(t, err)
	mem, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	all := map[string]Store{
		"memory":        NewMemoryStore(),
		"file":          file,
		"sqlite":        db,
		"sqlite-memory": mem,
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "k", "v1"))
			require.NoError(t, s.Set(ctx, "k", "v2"))
			v, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v2", v)
		})
	}
}

func TestCurrentThemeDefaultsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			theme, err := CurrentTheme(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, DefaultTheme, theme)
		})
	}
}

func TestSetTheme(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, SetTheme(ctx, s, "midnight"))
	theme, err := CurrentTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "midnight", theme)

	err = SetTheme(ctx, s, "neon")
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidTheme), "unknown theme: %v", err)

	err = SetTheme(ctx, s, "<b>")
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidTheme), "malformed theme: %v", err)

	theme, _ = CurrentTheme(ctx, s)
	assert.Equal(t, "midnight", theme, "rejected themes must not be stored")
}

func TestCurrentThemeIgnoresUnknownStoredValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, ThemeKey, "retired"))

	theme, err := CurrentTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme)
}

func TestThemesIncludeDefault(t *testing.T) {
	th, ok := themes.Lookup(DefaultTheme)
	require.True(t, ok)
	assert.Equal(t, "Warm Vintage", th.Name)

	seen := map[string]bool{}
	for _, th := range themes.All {
		assert.NoError(t, perrors.ValidateThemeID(th.ID))
		assert.False(t, seen[th.ID], "duplicate theme %s", th.ID)
		seen[th.ID] = true
	}
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, ThemeKey, "forest"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "forest", v)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, ThemeKey, "forest"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "forest", v)
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())
	_, _, err := s.Get(context.Background(), ThemeKey)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(context.Background(), ThemeKey, "x"), ErrClosed)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PHOTOGRID_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PHOTOGRID_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := DialRedisStore(ctx, addr, "", 0)
	require.NoError(t, err)
	defer s.Close()
	s.hash = "photogrid-test:prefs"
	defer s.client.Del(ctx, s.hash)

	require.NoError(t, SetTheme(ctx, s, "forest"))
	theme, err := CurrentTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "forest", theme)
}
