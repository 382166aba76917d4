package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/storyforge/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Store.Backend != BackendFile {
		t.Errorf("Store.Backend = %q, want file", cfg.Store.Backend)
	}
	if cfg.Layout.Options().OrphanColumns != 6 || cfg.Layout.NodeWidth != 240 {
		t.Errorf("layout defaults = %+v", cfg.Layout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
catalog = "game/catalog.toml"

[store]
backend = "redis"
redis_url = "redis://localhost:6379/1"
timeout = "3s"

[layout]
node_width = 180
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog != "game/catalog.toml" {
		t.Errorf("Catalog = %q", cfg.Catalog)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.Timeout != 3*time.Second {
		t.Errorf("Store.Timeout = %v", cfg.Store.Timeout)
	}
	if cfg.Layout.NodeWidth != 180 || cfg.Layout.NodeHeight != 100 {
		t.Errorf("Layout = %+v, want width override and default height", cfg.Layout)
	}
	if cfg.Store.RedisPrefix != "storyline:" {
		t.Errorf("untouched default lost: %q", cfg.Store.RedisPrefix)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "[store]\nbackend = \"memory\"\n")
	t.Setenv("STORYFORGE_STORE_BACKEND", "mongo")
	t.Setenv("STORYFORGE_STORE_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("STORYFORGE_LAYOUT_GAP_X", "12")
	t.Setenv("STORYFORGE_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != BackendMongo || cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Layout.GapX != 12 {
		t.Errorf("Layout.GapX = %d", cfg.Layout.GapX)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"unknown key", "[store]\nbackedn = \"file\"\n", errors.ErrCodeInvalidConfig},
		{"bad toml", "[store\n", errors.ErrCodeInvalidConfig},
		{"unknown backend", "[store]\nbackend = \"sqlite\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[store]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"mongo bad scheme", "[store]\nbackend = \"mongo\"\nmongo_uri = \"http://x\"\n", errors.ErrCodeInvalidConfig},
		{"unknown cache", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"negative layout", "[layout]\nnode_width = -1\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Errorf("missing default file error = %v", err)
	}
}

func TestXDGPaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	if p, _ := DefaultPath(); p != filepath.Join(base, "config", "storyforge", "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
	if p, _ := CacheDir(); p != filepath.Join(base, "cache", "storyforge") {
		t.Errorf("CacheDir() = %q", p)
	}
	if p, _ := DataDir(); p != filepath.Join(base, "data", "storyforge", "storylines") {
		t.Errorf("DataDir() = %q", p)
	}
}
