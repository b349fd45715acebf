package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/config"
)

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	tests := []struct {
		name string
		cfg  config.Cache
		want string
	}{
		{"none", config.Cache{Backend: "none"}, "null"},
		{"file default dir", config.Cache{Backend: "file"}, "file"},
		{"file custom dir", config.Cache{Backend: "file", Dir: t.TempDir()}, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, err := newCache(ctx, tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			defer cc.Close()

			switch tt.want {
			case "null":
				if _, ok := cc.(cache.NullCache); !ok {
					t.Errorf("got %T, want NullCache", cc)
				}
			case "file":
				fc, ok := cc.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *FileCache", cc)
				}
				if tt.cfg.Dir != "" && fc.Dir() != tt.cfg.Dir {
					t.Errorf("Dir() = %q, want %q", fc.Dir(), tt.cfg.Dir)
				}
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "uploads")
	cfg := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = "+strconv.Quote(dir)+"\n")

	// Nothing to clear before the directory exists.
	if err := execute(t, c, "cache", "clear", "--config", cfg); err != nil {
		t.Fatal(err)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte(`{"path":"ai/x.webp"}`), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	for _, sub := range []string{"stats", "prune", "path"} {
		if err := execute(t, c, "cache", sub, "--config", cfg); err != nil {
			t.Fatalf("cache %s: %v", sub, err)
		}
	}
	if _, ok, _ := fc.Get(ctx, "a"); !ok {
		t.Error("prune removed a live entry")
	}

	if err := execute(t, c, "cache", "clear", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	stats, err := fc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 {
		t.Errorf("entries after clear = %d, want 0", stats.Entries)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("clear removed the cache directory: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
