// Package config loads photogrid settings.
//
// Sources are applied in order, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, photogrid.toml by default
//  3. a .env file in the working directory
//  4. PHOTOGRID_* process environment variables
//
// Command-line flags are applied by the CLI after Load returns.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/photogrid/pkg/cache"
	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/overlay"
)

// File names looked up in the working directory.
const (
	DefaultFile    = "photogrid.toml"
	DefaultEnvFile = ".env"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PHOTOGRID_"

// Backend names.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete settings tree.
type Config struct {
	Layout   justified.Config `toml:"layout"`
	Lightbox overlay.Config   `toml:"lightbox"`
	Gallery  Gallery          `toml:"gallery"`
	Server   Server           `toml:"server"`
	Cache    Cache            `toml:"cache"`
	Prefs    Prefs            `toml:"prefs"`
}

// Gallery locates content and image files.
type Gallery struct {
	// Source is BackendFile or BackendMongo.
	Source     string              `toml:"source"`
	File       string              `toml:"file"`
	ImageDir   string              `toml:"image_dir"`
	Collection string              `toml:"collection"`
	Mongo      gallery.MongoConfig `toml:"mongo"`
}

// Server configures `photogrid serve`.
type Server struct {
	Addr string `toml:"addr"`

	// DefaultWidth is used to pre-lay the page when the request has no
	// width parameter.
	DefaultWidth float64 `toml:"default_width"`

	// StaticDir serves the wasm bundle and stylesheets. Empty disables it.
	StaticDir string `toml:"static_dir"`
}

// Cache configures the probed-metrics cache.
type Cache struct {
	// Backend is BackendFile, BackendRedis or BackendNone.
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// Prefs configures the theme preference store.
type Prefs struct {
	// Backend is BackendFile, BackendSQLite, BackendRedis or BackendMemory.
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Layout:   justified.DefaultConfig(0),
		Lightbox: overlay.Default,
		Gallery: Gallery{
			Source:   BackendFile,
			File:     gallery.DefaultFile,
			ImageDir: ".",
		},
		Server: Server{
			Addr:         ":8080",
			DefaultWidth: 1200,
		},
		Cache: Cache{Backend: BackendFile},
		Prefs: Prefs{Backend: BackendFile},
	}
}

// Loader controls where settings are read from.
type Loader struct {
	// File is the TOML file. When empty, DefaultFile is used if it exists.
	File string

	// EnvFile is the dotenv file. When empty, DefaultEnvFile is used if it
	// exists.
	EnvFile string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load reads settings from file (or DefaultFile), .env and the environment.
func Load(file string) (*Config, error) {
	return Loader{File: file}.Load()
}

// Load applies every source in order and validates the result.
func (l Loader) Load() (*Config, error) {
	cfg := Default()

	if err := l.decodeFile(cfg); err != nil {
		return nil, err
	}

	dotenv, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l Loader) decodeFile(cfg *Config) error {
	path, explicit := l.File, l.File != ""
	if !explicit {
		path = DefaultFile
	}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeDecode, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (l Loader) readEnvFile() (map[string]string, error) {
	path, explicit := l.EnvFile, l.EnvFile != ""
	if !explicit {
		path = DefaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil, nil
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeDecode, err, "read %s", path)
	}
	return vars, nil
}

type envFunc func(key string) (string, bool)

func applyEnv(cfg *Config, env envFunc) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok && v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) error {
		v, ok := env(key)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, key)
		}
		*dst = f
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := env(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, key)
		}
		*dst = n
		return nil
	}

	str("GALLERY_SOURCE", &cfg.Gallery.Source)
	str("GALLERY", &cfg.Gallery.File)
	str("IMAGE_DIR", &cfg.Gallery.ImageDir)
	str("COLLECTION", &cfg.Gallery.Collection)
	str("MONGO_URI", &cfg.Gallery.Mongo.URI)
	str("MONGO_DATABASE", &cfg.Gallery.Mongo.Database)
	str("GALLERY_ID", &cfg.Gallery.Mongo.GalleryID)

	str("ADDR", &cfg.Server.Addr)
	str("STATIC_DIR", &cfg.Server.StaticDir)

	str("CACHE", &cfg.Cache.Backend)
	str("CACHE_DIR", &cfg.Cache.Dir)
	str("REDIS_ADDR", &cfg.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Cache.Redis.Password)

	str("PREFS", &cfg.Prefs.Backend)
	str("PREFS_PATH", &cfg.Prefs.Path)
	str("PREFS_REDIS_ADDR", &cfg.Prefs.RedisAddr)

	return errors.Join(
		float("TARGET_ROW_HEIGHT", &cfg.Layout.TargetRowHeight),
		float("BOX_SPACING", &cfg.Layout.BoxSpacing),
		float("CONTAINER_PADDING", &cfg.Layout.ContainerPadding),
		float("TOLERANCE", &cfg.Layout.Tolerance),
		float("DEFAULT_WIDTH", &cfg.Server.DefaultWidth),
		integer("REDIS_DB", &cfg.Cache.Redis.DB),
		integer("PREFS_REDIS_DB", &cfg.Prefs.RedisDB),
	)
}

// Validate checks backend names and layout values.
func (c *Config) Validate() error {
	if err := oneOf("gallery.source", c.Gallery.Source, BackendFile, BackendMongo); err != nil {
		return err
	}
	if err := oneOf("cache.backend", c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return err
	}
	if err := oneOf("prefs.backend", c.Prefs.Backend, BackendFile, BackendSQLite, BackendRedis, BackendMemory); err != nil {
		return err
	}
	if !(c.Layout.TargetRowHeight > 0) {
		return perrors.New(perrors.ErrCodeInvalidInput, "layout.target_row_height must be positive, got %v", c.Layout.TargetRowHeight)
	}
	if c.Layout.BoxSpacing < 0 || c.Layout.ContainerPadding < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "layout spacing and padding must not be negative")
	}
	if err := perrors.ValidateWidth(c.Server.DefaultWidth); err != nil {
		return fmt.Errorf("server.default_width: %w", err)
	}
	if c.Gallery.Source == BackendMongo && c.Gallery.Mongo.URI == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "gallery.mongo.uri is required for the mongo source")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis cache")
	}
	if c.Prefs.Backend == BackendRedis && c.Prefs.RedisAddr == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "prefs.redis_addr is required for the redis store")
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return perrors.New(perrors.ErrCodeInvalidInput, "%s: unknown backend %q (want one of %v)", field, value, allowed)
}
