package config

// ProviderType identifies an LLM provider used for research generation.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderNone   ProviderType = "none"
)

// Config is the top-level voxley configuration, corresponding to .voxley.yml.
type Config struct {
	Port             int          `yaml:"port" koanf:"port"`
	DataDir          string       `yaml:"data_dir" koanf:"data_dir"`
	ResearchProvider ProviderType `yaml:"research_provider" koanf:"research_provider"`
	ResearchModel    string       `yaml:"research_model" koanf:"research_model"`
	SessionTTLHours  int          `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
	CheckpointSecs   int          `yaml:"checkpoint_secs" koanf:"checkpoint_secs"`
	AllowAllOrigins  bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
