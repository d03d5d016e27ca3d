package config

// ProviderType identifies an LLM or embedding backend.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level course-coach configuration, corresponding to
// .course-coach.yml.
type Config struct {
	User       UserConfig       `yaml:"user" koanf:"user"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" koanf:"embeddings"`
	LLM        LLMConfig        `yaml:"llm" koanf:"llm"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" koanf:"retrieval"`
	Data       DataConfig       `yaml:"data" koanf:"data"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Log        LogConfig        `yaml:"log" koanf:"log"`
}

// UserConfig identifies the profile this instance coaches. The engine is
// single-user; the id is the profile store key.
type UserConfig struct {
	ID          string `yaml:"id" koanf:"id"`
	CompanyGoal string `yaml:"company_goal" koanf:"company_goal"`
}

// EmbeddingsConfig selects the embedding backend used for taxonomy and
// catalog search.
type EmbeddingsConfig struct {
	Provider   ProviderType `yaml:"provider" koanf:"provider"`
	Model      string       `yaml:"model" koanf:"model"`
	OllamaHost string       `yaml:"ollama_host" koanf:"ollama_host"`
}

// LLMConfig selects the completion backend used for justifications and
// profile extraction.
type LLMConfig struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	OllamaHost  string       `yaml:"ollama_host" koanf:"ollama_host"`
	MaxTokens   int          `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature float64      `yaml:"temperature" koanf:"temperature"`
	RPM         int          `yaml:"rpm" koanf:"rpm"` // requests per minute, 0 disables rate limiting
}

// RetrievalConfig tunes taxonomy matching and catalog retrieval.
type RetrievalConfig struct {
	TopN        int     `yaml:"top_n" koanf:"top_n"`
	MatchK      int     `yaml:"match_k" koanf:"match_k"`
	TieBreakGap float64 `yaml:"tie_break_gap" koanf:"tie_break_gap"`
}

// DataConfig locates the on-disk state: SQLite database and index snapshots.
type DataConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host     string `yaml:"host" koanf:"host"`
	Port     int    `yaml:"port" koanf:"port"`
	AllowAll bool   `yaml:"allow_all" koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// LogConfig controls log output.
type LogConfig struct {
	JSON  bool `yaml:"json" koanf:"json"`
	Debug bool `yaml:"debug" koanf:"debug"`
}
