package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	dir, _ = configDir()
	if want := filepath.Join("/etc/xdg", appName); dir != want {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, want)
	}
}

func TestPrefsPath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	got, err := prefsPath("", "prefs.json")
	if err != nil {
		t.Fatalf("prefsPath() error: %v", err)
	}
	if want := filepath.Join(base, appName, "prefs.json"); got != want {
		t.Errorf("prefsPath() = %q, want %q", got, want)
	}
	if info, err := os.Stat(filepath.Dir(got)); err != nil || !info.IsDir() {
		t.Errorf("prefsPath() did not create %s", filepath.Dir(got))
	}

	got, _ = prefsPath("/srv/prefs.db", "prefs.db")
	if got != "/srv/prefs.db" {
		t.Errorf("explicit path = %q, want it unchanged", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		format string
		multi  bool
		want   string
	}{
		{"", "html", false, "gallery.html"},
		{"", "svg", true, "gallery.svg"},
		{"site/index.html", "html", false, "site/index.html"},
		{"site/index.html", "svg", true, "site/index.svg"},
		{"out/page", "html", false, "out/page.html"},
		{"out/page", "json", true, "out/page.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.output, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"html"}},
		{"svg", []string{"svg"}},
		{"HTML, svg ,json", []string{"html", "svg", "json"}},
		{"html,,", []string{"html"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
