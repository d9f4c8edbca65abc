package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.UploadsURL != "http://localhost:8000" {
		t.Fatalf("uploads url should drop the versioned api path, got %q", cfg.API.UploadsURL)
	}
	if cfg.App.LogLevel != "info" {
		t.Fatalf("unexpected log level %q", cfg.App.LogLevel)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	t.Setenv("WEBSHOP_API_URL", "http://api.example.com/api/v2/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "http://api.example.com/api/v2" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.UploadsURL != "http://api.example.com" {
		t.Fatalf("unexpected uploads url %q", cfg.API.UploadsURL)
	}
}

func TestLoadUploadsOverride(t *testing.T) {
	t.Setenv("WEBSHOP_API_URL", "http://api.example.com/api/v1")
	t.Setenv("WEBSHOP_UPLOADS_URL", "http://cdn.example.com/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.UploadsURL != "http://cdn.example.com" {
		t.Fatalf("unexpected uploads url %q", cfg.API.UploadsURL)
	}
}

func TestLoadUnversionedBaseKeepsHostForUploads(t *testing.T) {
	t.Setenv("WEBSHOP_API_URL", "http://api.example.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.UploadsURL != "http://api.example.com" {
		t.Fatalf("unexpected uploads url %q", cfg.API.UploadsURL)
	}
}

func TestLoadRejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("WEBSHOP_API_URL", "localhost:8000/api/v1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-absolute base url")
	}
}
