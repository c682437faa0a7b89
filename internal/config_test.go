package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Storage.Driver != StorageFS {
		t.Errorf("driver = %q, want fs", cfg.Storage.Driver)
	}
	if cfg.Chart.DefaultSymbol != "EURUSD" {
		t.Errorf("default symbol = %q", cfg.Chart.DefaultSymbol)
	}
	if cfg.Transcription.Enabled() {
		t.Error("transcription should be disabled without a key")
	}
}

func TestStorageConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"fs with path", StorageConfig{Driver: StorageFS, Path: "./data"}, false},
		{"sqlite with path", StorageConfig{Driver: StorageSQLite, Path: "edgelog.db"}, false},
		{"memory without path", StorageConfig{Driver: StorageMemory}, false},
		{"fs without path", StorageConfig{Driver: StorageFS}, true},
		{"unknown driver", StorageConfig{Driver: "s3", Path: "x"}, true},
		{"empty driver", StorageConfig{Path: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChartConfig_Invalid(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Chart.MinTitle = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero min title should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Chart.DefaultSymbol = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty default symbol should fail")
	}
}

func TestArchiveConfig_NegativeRetention(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Archive.Retention = -time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative retention should fail")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	c := HTTPConfig{Port: 9090}
	if got := c.Address(); got != ":9090" {
		t.Errorf("Address() = %q", got)
	}
}
