package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultMaxTokens     = 1024
	DefaultTemperature   = 0.6
	DefaultTopP          = 0.95
	DefaultModelTimeout  = 60
	DefaultBufSize       = 100
	DefaultCanonicalLang = "en"
	DefaultSummaryEvery  = 6
	DefaultSummaryCron   = "*/5 * * * *"
)

// DefaultModels is the ordered fallback chain: each model call walks the
// list until one returns non-empty text.
var DefaultModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-3.5-turbo",
}

var DefaultLanguages = []string{"en", "ru", "uk", "pl", "cs"}

type Config struct {
	Provider   ProviderConfig   `json:"provider"`
	Models     ModelsConfig     `json:"models"`
	Languages  LanguagesConfig  `json:"languages"`
	Storage    StorageConfig    `json:"storage"`
	Channels   ChannelsConfig   `json:"channels"`
	Classifier ClassifierConfig `json:"classifier"`
	Summary    SummaryConfig    `json:"summary"`
}

type ProviderConfig struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl,omitempty"`
}

type ModelsConfig struct {
	Chain       []string `json:"chain"`
	MaxTokens   int      `json:"maxTokens"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"topP"`
	TimeoutSecs int      `json:"timeoutSecs"`
}

type LanguagesConfig struct {
	Canonical string   `json:"canonical"`
	Supported []string `json:"supported"`
}

type StorageConfig struct {
	DBPath string `json:"dbPath,omitempty"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
	Proxy     string   `json:"proxy,omitempty"`
}

type ClassifierConfig struct {
	// CatalogPath points at an optional JSON keyword catalog; when empty
	// the built-in rule table is used.
	CatalogPath string `json:"catalogPath,omitempty"`
}

type SummaryConfig struct {
	Enabled    bool   `json:"enabled"`
	EveryTurns int    `json:"everyTurns"`
	Cron       string `json:"cron,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{},
		Models: ModelsConfig{
			Chain:       append([]string(nil), DefaultModels...),
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			TopP:        DefaultTopP,
			TimeoutSecs: DefaultModelTimeout,
		},
		Languages: LanguagesConfig{
			Canonical: DefaultCanonicalLang,
			Supported: append([]string(nil), DefaultLanguages...),
		},
		Channels: ChannelsConfig{},
		Summary: SummaryConfig{
			Enabled:    true,
			EveryTurns: DefaultSummaryEvery,
			Cron:       DefaultSummaryCron,
		},
	}
}

func ConfigDir() string {
	if dir := os.Getenv("RECRUITBOT_CONFIG"); dir != "" {
		return dir
	}
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".recruitbot")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if key := os.Getenv("RECRUITBOT_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
	}
	if url := os.Getenv("RECRUITBOT_BASE_URL"); url != "" {
		cfg.Provider.BaseURL = url
	}
	if token := os.Getenv("RECRUITBOT_TELEGRAM_TOKEN"); token != "" {
		cfg.Channels.Telegram.Token = token
	}
	if dbPath := os.Getenv("RECRUITBOT_DB_PATH"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if models := os.Getenv("RECRUITBOT_MODELS"); models != "" {
		chain := make([]string, 0, 3)
		for _, m := range strings.Split(models, ",") {
			if m = strings.TrimSpace(m); m != "" {
				chain = append(chain, m)
			}
		}
		if len(chain) > 0 {
			cfg.Models.Chain = chain
		}
	}
	if every := os.Getenv("RECRUITBOT_SUMMARY_EVERY"); every != "" {
		if parsed, err := strconv.Atoi(every); err == nil && parsed > 0 {
			cfg.Summary.EveryTurns = parsed
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Models.Chain) == 0 {
		cfg.Models.Chain = append([]string(nil), DefaultModels...)
	}
	if cfg.Models.MaxTokens <= 0 {
		cfg.Models.MaxTokens = DefaultMaxTokens
	}
	if cfg.Models.Temperature <= 0 {
		cfg.Models.Temperature = DefaultTemperature
	}
	if cfg.Models.TopP <= 0 {
		cfg.Models.TopP = DefaultTopP
	}
	if cfg.Models.TimeoutSecs <= 0 {
		cfg.Models.TimeoutSecs = DefaultModelTimeout
	}
	if cfg.Languages.Canonical == "" {
		cfg.Languages.Canonical = DefaultCanonicalLang
	}
	if len(cfg.Languages.Supported) == 0 {
		cfg.Languages.Supported = append([]string(nil), DefaultLanguages...)
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = filepath.Join(ConfigDir(), "data", "recruitbot.db")
	}
	if cfg.Summary.EveryTurns <= 0 {
		cfg.Summary.EveryTurns = DefaultSummaryEvery
	}
	if cfg.Summary.Cron == "" {
		cfg.Summary.Cron = DefaultSummaryCron
	}
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
