package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base = %q", cfg.API.BaseURL)
	}
	if cfg.API.TRPCURL != DefaultBaseURL+"/api/trpc" {
		t.Errorf("trpc = %q", cfg.API.TRPCURL)
	}
	if cfg.API.AuthURL != DefaultBaseURL+"/api/auth" {
		t.Errorf("auth = %q", cfg.API.AuthURL)
	}
	if cfg.API.DeviceURL != DefaultBaseURL+"/device" {
		t.Errorf("device = %q", cfg.API.DeviceURL)
	}
	if cfg.Session.Backend != "keyring" {
		t.Errorf("session backend = %q", cfg.Session.Backend)
	}
	if cfg.Gateway.Port == 0 || cfg.Gateway.RateLimitRPM == 0 {
		t.Errorf("gateway defaults missing: %+v", cfg.Gateway)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base = %q", cfg.API.BaseURL)
	}
}

func TestLoad_OverridesAndDerivedURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
api:
  base_url: http://localhost:3000
gateway:
  port: 9000
session:
  backend: file
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.TRPCURL != "http://localhost:3000/api/trpc" {
		t.Errorf("trpc = %q", cfg.API.TRPCURL)
	}
	if cfg.API.DeviceURL != "http://localhost:3000/device" {
		t.Errorf("device = %q", cfg.API.DeviceURL)
	}
	if cfg.Gateway.Port != 9000 {
		t.Errorf("port = %d", cfg.Gateway.Port)
	}
	if cfg.Session.Backend != "file" {
		t.Errorf("backend = %q", cfg.Session.Backend)
	}
	if cfg.Session.FilePath == "" {
		t.Error("file path default missing")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("session:\n  backend: vault\n"), 0600)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(":\tnot yaml"), 0600)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBountyURL(t *testing.T) {
	cfg := Default()
	if got := cfg.BountyURL("b1"); got != DefaultBaseURL+"/bounty/b1" {
		t.Errorf("url = %q", got)
	}
}
