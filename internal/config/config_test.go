package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.GitHub.Org != "rh-ai-quickstart" {
		t.Errorf("expected default org 'rh-ai-quickstart', got %q", cfg.GitHub.Org)
	}

	if cfg.GitHub.TitlePrefix != "[Quickstart suggestion]:" {
		t.Errorf("unexpected title prefix %q", cfg.GitHub.TitlePrefix)
	}

	if cfg.GitHub.CacheTTL != 15*time.Minute {
		t.Errorf("expected github cache TTL 15m, got %v", cfg.GitHub.CacheTTL)
	}

	if cfg.Analysis.Workers != 6 {
		t.Errorf("expected 6 workers, got %d", cfg.Analysis.Workers)
	}

	if cfg.Analysis.PersonaWorkers != 5 {
		t.Errorf("expected 5 persona workers, got %d", cfg.Analysis.PersonaWorkers)
	}

	if cfg.Analysis.MaxToolIterations != 15 {
		t.Errorf("expected 15 tool iterations, got %d", cfg.Analysis.MaxToolIterations)
	}

	if !cfg.Analysis.Guardrails {
		t.Error("expected guardrails enabled by default")
	}

	if !cfg.Analysis.Personas || !cfg.Analysis.Platform || !cfg.Analysis.Portfolio {
		t.Error("expected all optional agents enabled by default")
	}

	if cfg.Catalog.Dir != "data" {
		t.Errorf("expected default catalog dir 'data', got %q", cfg.Catalog.Dir)
	}

	if cfg.Cache.TTL != 0 {
		t.Errorf("expected analyses to never expire by default, got TTL %v", cfg.Cache.TTL)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `anthropic:
  model: claude-sonnet-4-5
  use_aws_bedrock: true
  aws_region: us-west-2
github:
  org: my-org
  repo: my-repo
  cache_ttl: 5m
analysis:
  workers: 3
  personas: false
cache:
  ttl: 1h
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-5" {
		t.Errorf("model = %q", cfg.Anthropic.Model)
	}
	if !cfg.Anthropic.UseAWSBedrock {
		t.Error("expected bedrock enabled")
	}
	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("region = %q", cfg.Anthropic.AWSRegion)
	}
	if cfg.GitHub.Org != "my-org" || cfg.GitHub.Repo != "my-repo" {
		t.Errorf("github target = %s/%s", cfg.GitHub.Org, cfg.GitHub.Repo)
	}
	if cfg.GitHub.CacheTTL != 5*time.Minute {
		t.Errorf("github cache TTL = %v", cfg.GitHub.CacheTTL)
	}
	if cfg.Analysis.Workers != 3 {
		t.Errorf("workers = %d", cfg.Analysis.Workers)
	}
	if cfg.Analysis.Personas {
		t.Error("personas should be disabled")
	}
	// Unset values keep their defaults.
	if !cfg.Analysis.Platform {
		t.Error("platform should stay enabled")
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache TTL = %v", cfg.Cache.TTL)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFromPathExpandsEnvRefs(t *testing.T) {
	t.Setenv("TRIAGE_TEST_KEY", "sk-ant-REDACTED")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "anthropic:\n  api_key: ${TRIAGE_TEST_KEY}\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-ant-REDACTED" {
		t.Errorf("api key not expanded: %q", cfg.Anthropic.APIKey)
	}
}

func TestCacheDirPrefersConfigured(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/custom-cache"

	if got := cfg.CacheDir(); got != "/tmp/custom-cache" {
		t.Errorf("CacheDir = %q", got)
	}
}

func TestCacheDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	cfg := Default()
	want := filepath.Join("/tmp/xdg-cache", "triage")
	if got := cfg.CacheDir(); got != want {
		t.Errorf("CacheDir = %q, want %q", got, want)
	}
}

func TestIndexPathDefaultsUnderCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/c"

	want := filepath.Join("/tmp/c", "research.db")
	if got := cfg.IndexPath(); got != want {
		t.Errorf("IndexPath = %q, want %q", got, want)
	}

	cfg.Research.IndexPath = "/elsewhere/idx.db"
	if got := cfg.IndexPath(); got != "/elsewhere/idx.db" {
		t.Errorf("IndexPath = %q", got)
	}
}
