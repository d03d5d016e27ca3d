package config

// DefaultConfigPath is the config file looked up when --config is not given.
const DefaultConfigPath = ".course-coach.yml"

// DefaultConfig returns the built-in configuration. These values are the
// baseline that the YAML file and COACH_* environment variables overlay.
func DefaultConfig() *Config {
	return &Config{
		User: UserConfig{
			ID: "default",
		},
		Embeddings: EmbeddingsConfig{
			Provider:   ProviderOpenAI,
			Model:      "text-embedding-3-small",
			OllamaHost: "http://localhost:11434",
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			Model:       "gpt-4o-mini",
			OllamaHost:  "http://localhost:11434",
			MaxTokens:   1024,
			Temperature: 0.2,
			RPM:         0,
		},
		Retrieval: RetrievalConfig{
			TopN:        5,
			MatchK:      10,
			TieBreakGap: 0.15,
		},
		Data: DataConfig{
			Dir: "data",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Log: LogConfig{
			JSON:  false,
			Debug: false,
		},
	}
}
