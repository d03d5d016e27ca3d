package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .course-coach.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to course-coach! Let's set up your coaching profile.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. User id.
	userPrompt := promptui.Prompt{
		Label:   "User id for your learning profile",
		Default: cfg.User.ID,
	}
	userID, err := userPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	cfg.User.ID = strings.TrimSpace(userID)

	// 2. Organizational goal (optional, folded into every retrieval query).
	companyPrompt := promptui.Prompt{
		Label:   "Company or team goal (optional)",
		Default: "",
	}
	companyGoal, err := companyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("company goal: %w", err)
	}
	cfg.User.CompanyGoal = strings.TrimSpace(companyGoal)

	// 3. Embedding backend.
	embPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "ollama"},
	}
	_, embStr, err := embPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.Embeddings.Provider = ProviderType(embStr)
	if cfg.Embeddings.Provider == ProviderOllama {
		cfg.Embeddings.Model = "nomic-embed-text"
	}

	// 4. LLM backend for justifications and profile extraction.
	llmPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, llmStr, err := llmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("llm provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(llmStr)
	if cfg.LLM.Provider == ProviderOllama {
		cfg.LLM.Model = "llama3"
	}

	// 5. Recommendations per review round.
	topNPrompt := promptui.Prompt{
		Label:   "Recommendations per review round",
		Default: strconv.Itoa(cfg.Retrieval.TopN),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive number")
			}
			return nil
		},
	}
	topNStr, err := topNPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("top n: %w", err)
	}
	cfg.Retrieval.TopN, _ = strconv.Atoi(strings.TrimSpace(topNStr))

	// 6. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (profiles and index snapshots)",
		Default: cfg.Data.Dir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.Data.Dir = strings.TrimSpace(dataDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Warn about missing API keys. Keys come from the environment only,
	// never the config file.
	for _, p := range []ProviderType{cfg.Embeddings.Provider, cfg.LLM.Provider} {
		if envVar := APIKeyEnvVar(p); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running course-coach.\n", envVar)
			break
		}
	}

	if err := cfg.Save(DefaultConfigPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigPath)
	return cfg, nil
}
