package config

import (
	"os"
	"path/filepath"
	"testing"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/overlay"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func noEnv(string) (string, bool) { return "", false }

func TestDefaults(t *testing.T) {
	cfg, err := Loader{LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != justified.DefaultConfig(0) {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
	if cfg.Lightbox != overlay.Default {
		t.Errorf("Lightbox = %+v, want default", cfg.Lightbox)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.DefaultWidth != 1200 {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "photogrid.toml", `
[layout]
target_row_height = 240
box_spacing = 8

[server]
addr = ":9000"

[cache]
backend = "none"
`)
	envFile := writeFile(t, dir, ".env", "PHOTOGRID_BOX_SPACING=6\nPHOTOGRID_ADDR=:9100\n")

	cfg, err := Loader{
		File:      file,
		EnvFile:   envFile,
		LookupEnv: envMap(map[string]string{"PHOTOGRID_ADDR": ":9200"}),
	}.Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"toml over default", cfg.Layout.TargetRowHeight, 240.0},
		{"dotenv over toml", cfg.Layout.BoxSpacing, 6.0},
		{"env over dotenv", cfg.Server.Addr, ":9200"},
		{"toml backend", cfg.Cache.Backend, BackendNone},
		{"untouched default", cfg.Layout.ContainerPadding, justified.DefaultContainerPadding},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	emptyEnv := writeFile(t, dir, "empty.env", "")
	tests := []struct {
		name   string
		loader Loader
		code   perrors.Code
	}{
		{
			name:   "missing explicit file",
			loader: Loader{File: filepath.Join(dir, "nope.toml"), LookupEnv: noEnv},
			code:   perrors.ErrCodeFileNotFound,
		},
		{
			name:   "unknown key",
			loader: Loader{File: writeFile(t, dir, "typo.toml", "[layout]\ntarget_height = 1\n"), LookupEnv: noEnv},
			code:   perrors.ErrCodeInvalidInput,
		},
		{
			name:   "bad toml",
			loader: Loader{File: writeFile(t, dir, "bad.toml", "[layout\n"), LookupEnv: noEnv},
			code:   perrors.ErrCodeDecode,
		},
		{
			name: "bad number",
			loader: Loader{
				File:      writeFile(t, dir, "ok.toml", ""),
				LookupEnv: envMap(map[string]string{"PHOTOGRID_TOLERANCE": "lots"}),
			},
			code: perrors.ErrCodeInvalidInput,
		},
		{
			name: "unknown backend",
			loader: Loader{
				File:      writeFile(t, dir, "ok2.toml", ""),
				LookupEnv: envMap(map[string]string{"PHOTOGRID_CACHE": "memcached"}),
			},
			code: perrors.ErrCodeInvalidInput,
		},
		{
			name: "redis without addr",
			loader: Loader{
				File:      writeFile(t, dir, "ok3.toml", "[prefs]\nbackend = \"redis\"\n"),
				LookupEnv: noEnv,
			},
			code: perrors.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.loader.EnvFile = emptyEnv
			_, err := tt.loader.Load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestValidateWidth(t *testing.T) {
	cfg := Default()
	cfg.Server.DefaultWidth = 0
	if err := cfg.Validate(); !perrors.Is(err, perrors.ErrCodeInvalidWidth) {
		t.Errorf("Validate() = %v, want INVALID_WIDTH", err)
	}
}
