package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCreatesDefaultStructure(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.File.Generator.Backend != BackendTemplate {
		t.Fatalf("unexpected default backend: %q", cfg.File.Generator.Backend)
	}
	for _, path := range []string{
		filepath.Join(dir, Dir, "config.yaml"),
		filepath.Join(dir, Dir, "logs"),
		filepath.Join(dir, Dir, "templates"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing %s: %v", path, err)
		}
	}
	if cfg.UsersPath() != "" {
		t.Fatalf("default users path should be empty, got %q", cfg.UsersPath())
	}
}

func TestNewReloadsExistingConfig(t *testing.T) {
	dir := t.TempDir()
	relay := filepath.Join(dir, Dir)
	if err := os.MkdirAll(relay, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `version: 1
generator:
  backend: openrouter
  model: test-model
  token_env: TEST_TOKEN
users_file: users.yaml
`
	if err := os.WriteFile(filepath.Join(relay, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.File.Generator.Backend != BackendOpenRouter || cfg.File.Generator.Model != "test-model" {
		t.Fatalf("config not loaded: %+v", cfg.File)
	}
	if got := cfg.UsersPath(); got != filepath.Join(relay, "users.yaml") {
		t.Fatalf("UsersPath = %q", got)
	}
	t.Setenv("TEST_TOKEN", "secret")
	if cfg.Token() != "secret" {
		t.Fatalf("Token = %q", cfg.Token())
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	relay := filepath.Join(dir, Dir)
	if err := os.MkdirAll(relay, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(relay, "config.yaml"), []byte("generator:\n  backend: crystal-ball\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
