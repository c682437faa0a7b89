package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name    string        `yaml:"name"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_OverridesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "edgelog")
	p := writeFile(t, "name: ${SAMPLE_NAME}\ntimeout: 2s\n")

	cfg := sample{Port: 8080}
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "edgelog" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Errorf("default port lost: %d", cfg.Port)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	cfg := sample{Port: 8080}
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := sample{Port: 1}
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	cfg := sample{Name: "default", Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("name = %q", cfg.Name)
	}

	bad := sample{}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &bad); err == nil {
		t.Fatal("defaults should still be validated")
	}
}

func TestDecode_Malformed(t *testing.T) {
	var cfg sample
	if err := Decode([]byte("port: [1,"), &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}
