package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/jchantrell/wmset/internal/export"
	"github.com/jchantrell/wmset/internal/fftext"
	"github.com/jchantrell/wmset/internal/wmset"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wmset.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(cfg.Formats, export.Formats) {
		t.Errorf("formats = %v, want %v", cfg.Formats, export.Formats)
	}
	if !slices.Equal(cfg.ScriptSections, wmset.DefaultScriptSections) {
		t.Errorf("script sections = %v, want %v", cfg.ScriptSections, wmset.DefaultScriptSections)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.VertexScale != 100 || cfg.TextureScale != 1 {
		t.Errorf("scales = %v, %d, want 100, 1", cfg.VertexScale, cfg.TextureScale)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging = %s/%s, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
output: out
database: wm.db
formats: [png, txt]
script_sections: [14, 20]
workers: 2
texture_scale: 4
log_format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "out" || cfg.Database != "wm.db" {
		t.Errorf("paths = %q, %q", cfg.Output, cfg.Database)
	}
	if !slices.Equal(cfg.Formats, []string{"png", "txt"}) {
		t.Errorf("formats = %v", cfg.Formats)
	}
	if cfg.Workers != 2 || cfg.TextureScale != 4 || cfg.LogFormat != "json" {
		t.Errorf("cfg = %+v", cfg)
	}

	layout, err := cfg.Layout()
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got := layout.Kind(20); got != wmset.KindScript {
		t.Errorf("section 20 kind = %s, want script", got)
	}
	if got := layout.Kind(16); got != wmset.KindSkip {
		t.Errorf("section 16 kind = %s, want skip", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown format", "formats: [fbx]"},
		{"empty format", `formats: [""]`},
		{"section out of range", "script_sections: [48]"},
		{"section collides with geometry", "script_sections: [15]"},
		{"duplicate section", "script_sections: [14, 14]"},
		{"negative vertex scale", "vertex_scale: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load() with %q should fail", tt.body)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestTextDecoder(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	d, err := cfg.TextDecoder()
	if err != nil {
		t.Fatalf("TextDecoder() error = %v", err)
	}
	if d != fftext.DefaultDecoder {
		t.Error("no text tables should give the default decoder")
	}

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("0x21: \""+name[:1]+"\"\n"), 0644); err != nil {
			t.Fatalf("writing table: %v", err)
		}
		paths = append(paths, path)
	}

	cfg.TextTables = paths
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	d, err = cfg.TextDecoder()
	if err != nil {
		t.Fatalf("TextDecoder() error = %v", err)
	}
	if got := d.Decode([]byte{0x1A, 0x21}).String(); got != "b" {
		t.Errorf("got = %q, want %q", got, "b")
	}

	cfg.TextTables = paths[:2]
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with two alternate tables should fail")
	}

	cfg.TextTables = []string{paths[0], paths[1], filepath.Join(dir, "missing.yaml")}
	if _, err := cfg.TextDecoder(); err == nil {
		t.Error("TextDecoder() with a missing table should fail")
	}
}
