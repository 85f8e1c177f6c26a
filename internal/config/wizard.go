package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .voxley.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to voxley! Let's configure your interview server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Research provider.
	providerPrompt := promptui.Select{
		Label: "Research provider (generates the pre-interview company analysis)",
		Items: []string{"openai", "none"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.ResearchProvider = ProviderType(providerStr)

	if cfg.ResearchProvider == ProviderOpenAI {
		if os.Getenv(APIKeyEnvVar(ProviderOpenAI)) == "" {
			fmt.Printf("Note: %s is not set. Research generation will fail until it is.\n",
				APIKeyEnvVar(ProviderOpenAI))
		}
		modelPrompt := promptui.Prompt{
			Label:   "Research model",
			Default: cfg.ResearchModel,
		}
		if model, err := modelPrompt.Run(); err == nil && model != "" {
			cfg.ResearchModel = model
		}
	}

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Data directory.
	dirPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database location)",
		Default: cfg.DataDir,
	}
	if dir, err := dirPrompt.Run(); err == nil && dir != "" {
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(".voxley.yml"); err != nil {
		return nil, err
	}
	fmt.Println("\nConfiguration saved to .voxley.yml")

	return cfg, nil
}
