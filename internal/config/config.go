package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Database path; ":memory:" is valid for throwaway sessions
	DBPath string `json:"db_path"`

	// Scoring settings
	Scoring ScoringConfig `json:"scoring"`

	// Labeling queue settings
	Labeling LabelingConfig `json:"labeling"`

	// LLM evaluation settings
	LLM LLMConfig `json:"llm"`
}

// ScoringConfig holds sentiment scoring preferences
type ScoringConfig struct {
	BatchSize       int  `json:"batch_size"`        // Articles per scoring batch
	UseSecondary    bool `json:"use_secondary"`     // Blend in the directional classifier
	CacheTTLSeconds int  `json:"cache_ttl_seconds"` // Learned-lexicon cache TTL
}

// LabelingConfig holds daily-queue preferences
type LabelingConfig struct {
	QueueSize            int     `json:"queue_size"`            // Max items queued per day
	UncertaintyThreshold float64 `json:"uncertainty_threshold"` // Minimum uncertainty to queue
}

// LLMConfig holds settings for the optional LLM evaluator
type LLMConfig struct {
	Enabled       bool    `json:"enabled"`
	APIKey        string  `json:"api_key,omitempty"`
	Endpoint      string  `json:"endpoint,omitempty"` // OpenAI-compatible endpoint
	Model         string  `json:"model,omitempty"`
	BatchSize     int     `json:"batch_size"`
	MinConfidence float64 `json:"min_confidence"` // Confidence floor for feedback sync
	RatePerMinute int     `json:"rate_per_minute"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath: filepath.Join(home, ".newsense", "news.db"),
		Scoring: ScoringConfig{
			BatchSize:       200,
			UseSecondary:    true,
			CacheTTLSeconds: 300,
		},
		Labeling: LabelingConfig{
			QueueSize:            30,
			UncertaintyThreshold: 0.0, // Queue ranks by uncertainty; 0 keeps all candidates eligible
		},
		LLM: LLMConfig{
			Enabled:       false,
			Endpoint:      "https://api.openai.com/v1/chat/completions",
			Model:         "gpt-5.2",
			BatchSize:     15,
			MinConfidence: 0.6,
			RatePerMinute: 20,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newsense", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.applyDefaults()
	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if path := os.Getenv("NEWSENSE_DB"); path != "" {
		c.DBPath = path
	}
}

// applyDefaults fills zero values left by partial config files
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Scoring.BatchSize <= 0 {
		c.Scoring.BatchSize = d.Scoring.BatchSize
	}
	if c.Scoring.CacheTTLSeconds <= 0 {
		c.Scoring.CacheTTLSeconds = d.Scoring.CacheTTLSeconds
	}
	if c.Labeling.QueueSize <= 0 {
		c.Labeling.QueueSize = d.Labeling.QueueSize
	}
	if c.LLM.BatchSize <= 0 {
		c.LLM.BatchSize = d.LLM.BatchSize
	}
	if c.LLM.MinConfidence <= 0 {
		c.LLM.MinConfidence = d.LLM.MinConfidence
	}
	if c.LLM.RatePerMinute <= 0 {
		c.LLM.RatePerMinute = d.LLM.RatePerMinute
	}
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = d.LLM.Endpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
}
