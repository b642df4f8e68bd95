package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{name: "default", xdg: "", want: filepath.Join(home, ".cache", appName)},
		{name: "xdg", xdg: "/tmp/xdg-cache", want: filepath.Join("/tmp/xdg-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenCacheNoCache(t *testing.T) {
	isolate(t)
	c := New(os.Stderr, LogInfo)
	backend, err := c.openCache(t.Context(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()

	if err := backend.Set(t.Context(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := backend.Get(t.Context(), "k"); ok {
		t.Error("--no-cache backend should never hit")
	}
}
