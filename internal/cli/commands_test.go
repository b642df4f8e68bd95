package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/obscura/pkg/errors"
)

func writeLyrics(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lyrics.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFrameCommandText(t *testing.T) {
	isolate(t)
	path := writeLyrics(t, "hello world\nsecond line")

	out, err := runCLI(t, "", "frame", path, "--at", "0s", "--seed", "42")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 12 {
		t.Fatalf("output too short:\n%s", out)
	}
	if n := len(strings.Fields(lines[0])); n != 12 {
		t.Errorf("first grid row has %d cells, want 12", n)
	}
	if !strings.Contains(out, `0 "hello world"`) {
		t.Errorf("output should name the current unit:\n%s", out)
	}

	again, err := runCLI(t, "", "frame", path, "--at", "0s", "--seed", "42")
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Error("same input and seed should print the same frame")
	}
}

func TestFrameCommandJSON(t *testing.T) {
	isolate(t)
	path := writeLyrics(t, "hello world\nsecond line")

	out, err := runCLI(t, "", "frame", path, "--at", "0s", "--seed", "42", "--format", "json")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	var f frameOutput
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if f.Unit == nil || *f.Unit != "hello world" || f.Index != 0 {
		t.Fatalf("unit = %v index %d", f.Unit, f.Index)
	}
	if f.Seed != 42 || f.Grid.Size != 12 {
		t.Errorf("seed = %d size = %d", f.Seed, f.Grid.Size)
	}
	if f.Placed != 2 {
		t.Errorf("placed = %d, want 2", f.Placed)
	}
	active := 0
	for _, row := range f.Grid.Active {
		for _, a := range row {
			if a {
				active++
			}
		}
	}
	if active != len("helloworld") {
		t.Errorf("active cells = %d, want %d", active, len("helloworld"))
	}
}

func TestFrameCommandLRCFromStdin(t *testing.T) {
	isolate(t)
	lrc := "[00:00.00]one\n[00:01.00]two\n"

	out, err := runCLI(t, lrc, "frame", "-", "--at", "1500ms", "--format", "json", "--seed", "1")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	var f frameOutput
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatal(err)
	}
	if f.Unit == nil || *f.Unit != "two" || f.Index != 1 {
		t.Errorf("unit = %v index %d, want \"two\" at 1", f.Unit, f.Index)
	}
	if f.Complete {
		t.Error("1.5s is within the trailing grace period")
	}

	// --manual ignores the timestamps: line pacing puts 1.5s on line 0
	out, err = runCLI(t, lrc, "frame", "-", "--at", "1500ms", "--format", "json", "--manual")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatal(err)
	}
	if f.Unit == nil || *f.Unit != "one" {
		t.Errorf("manual unit = %v, want \"one\"", f.Unit)
	}
}

func TestFrameCommandUsesConfig(t *testing.T) {
	isolate(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[playback]\npacing = \"word\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeLyrics(t, "alpha beta gamma")

	out, err := runCLI(t, "", "--config", cfg, "frame", path, "--at", "800ms", "--format", "json", "--seed", "5")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	var f frameOutput
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatal(err)
	}
	if f.Unit == nil || *f.Unit != "beta" {
		t.Errorf("unit = %v, want \"beta\" with word pacing", f.Unit)
	}
}

func TestFrameCommandErrors(t *testing.T) {
	isolate(t)
	path := writeLyrics(t, "hi")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{name: "no input", args: []string{"frame"}, code: errors.ErrCodeInvalidInput},
		{name: "missing file", args: []string{"frame", filepath.Join(t.TempDir(), "nope.txt")}, code: errors.ErrCodeFileNotFound},
		{name: "bad format", args: []string{"frame", path, "--format", "xml"}, code: errors.ErrCodeInvalidInput},
		{name: "bad pacing", args: []string{"frame", path, "--pacing", "syllable"}, code: errors.ErrCodeInvalidPacing},
		{name: "bad speed", args: []string{"frame", path, "--speed=-1"}, code: errors.ErrCodeInvalidSpeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	_, configHome := isolate(t)

	out, err := runCLI(t, "", "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(configHome, appName, "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}

	if _, err := runCLI(t, "", "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("config init should create %s: %v", want, err)
	}
	if _, err := runCLI(t, "", "config", "init"); err == nil {
		t.Error("second config init without --force should fail")
	}

	out, err = runCLI(t, "", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"[playback]", `pacing = "line"`, `refresh_interval = "500ms"`} {
		if !strings.Contains(out, s) {
			t.Errorf("config show missing %q:\n%s", s, out)
		}
	}
}

func TestBadConfigFails(t *testing.T) {
	isolate(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[playback]\nspeed = 0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "", "--config", cfg, "config", "show")
	if !errors.Is(err, errors.ErrCodeInvalidSpeed) {
		t.Errorf("err = %v, want INVALID_SPEED", err)
	}
}
