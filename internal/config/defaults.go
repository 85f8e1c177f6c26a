package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:             8460,
		DataDir:          ".voxley",
		ResearchProvider: ProviderOpenAI,
		ResearchModel:    "gpt-4o",
		SessionTTLHours:  24,
		CheckpointSecs:   120,
	}
}
