package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.User.ID != "default" {
		t.Errorf("expected default user id %q, got %q", "default", cfg.User.ID)
	}
	if cfg.Embeddings.Provider != ProviderOpenAI {
		t.Errorf("expected default embeddings provider %q, got %q", ProviderOpenAI, cfg.Embeddings.Provider)
	}
	if cfg.Retrieval.TopN != 5 {
		t.Errorf("expected default top_n 5, got %d", cfg.Retrieval.TopN)
	}
	if cfg.Retrieval.MatchK != 10 {
		t.Errorf("expected default match_k 10, got %d", cfg.Retrieval.MatchK)
	}
	if cfg.Retrieval.TieBreakGap != 0.15 {
		t.Errorf("expected default tie_break_gap 0.15, got %f", cfg.Retrieval.TieBreakGap)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.course-coach.yml")

	original := DefaultConfig()
	original.User.ID = "riccardo"
	original.User.CompanyGoal = "accelerate internal mobility"
	original.LLM.Provider = ProviderOllama
	original.LLM.Model = "llama3"
	original.Retrieval.TopN = 7
	original.Data.Dir = "state"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.User.ID != original.User.ID {
		t.Errorf("user.id: got %q, want %q", loaded.User.ID, original.User.ID)
	}
	if loaded.User.CompanyGoal != original.User.CompanyGoal {
		t.Errorf("user.company_goal: got %q, want %q", loaded.User.CompanyGoal, original.User.CompanyGoal)
	}
	if loaded.LLM.Provider != original.LLM.Provider {
		t.Errorf("llm.provider: got %q, want %q", loaded.LLM.Provider, original.LLM.Provider)
	}
	if loaded.LLM.Model != original.LLM.Model {
		t.Errorf("llm.model: got %q, want %q", loaded.LLM.Model, original.LLM.Model)
	}
	if loaded.Retrieval.TopN != original.Retrieval.TopN {
		t.Errorf("retrieval.top_n: got %d, want %d", loaded.Retrieval.TopN, original.Retrieval.TopN)
	}
	if loaded.Data.Dir != original.Data.Dir {
		t.Errorf("data.dir: got %q, want %q", loaded.Data.Dir, original.Data.Dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Embeddings.Provider != ProviderOpenAI {
		t.Errorf("expected default embeddings provider, got %q", cfg.Embeddings.Provider)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("COACH_USER_ID", "env-user")
	defer os.Unsetenv("COACH_USER_ID")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.User.ID != "env-user" {
		t.Errorf("env override failed: got %q, want %q", loaded.User.ID, "env-user")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty user id", func(c *Config) { c.User.ID = "" }},
		{"invalid embeddings provider", func(c *Config) { c.Embeddings.Provider = "groq" }},
		{"empty embeddings model", func(c *Config) { c.Embeddings.Model = "" }},
		{"invalid llm provider", func(c *Config) { c.LLM.Provider = "anthropic" }},
		{"empty llm model", func(c *Config) { c.LLM.Model = "" }},
		{"negative rpm", func(c *Config) { c.LLM.RPM = -1 }},
		{"zero top_n", func(c *Config) { c.Retrieval.TopN = 0 }},
		{"zero match_k", func(c *Config) { c.Retrieval.MatchK = 0 }},
		{"negative tie_break_gap", func(c *Config) { c.Retrieval.TieBreakGap = -0.1 }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnvVar(openai) = %q, want OPENAI_API_KEY", got)
	}
	if got := APIKeyEnvVar(ProviderOllama); got != "" {
		t.Errorf("APIKeyEnvVar(ollama) = %q, want empty", got)
	}
}
