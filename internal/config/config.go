package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	LLM      LLMConfig     `mapstructure:"llm"`
	Search   SearchConfig  `mapstructure:"search"`
	Agent    AgentConfig   `mapstructure:"agent"`
	History  HistoryConfig `mapstructure:"history"`
	Server   ServerConfig  `mapstructure:"server"`
	LogLevel string        `mapstructure:"log_level"`
}

// LLMConfig holds the chat model configuration
type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// SearchConfig holds the Brave Search configuration
type SearchConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"` // zero means no client timeout
}

// AgentConfig holds the conversation loop configuration
type AgentConfig struct {
	MaxRounds int `mapstructure:"max_rounds"`
}

// HistoryConfig holds the transcript store configuration
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Addr joins host and port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

const (
	DefaultModel         = "gpt-3.5-turbo"
	DefaultLLMBaseURL    = "https://api.openai.com/v1"
	DefaultSearchBaseURL = "https://api.search.brave.com/res/v1"
	DefaultMaxRounds     = 3
)

var envBindings = map[string]string{
	"llm.api_key":     "OPENAI_API_KEY",
	"llm.base_url":    "OPENAI_BASE_URL",
	"llm.model":       "REACT_MODEL",
	"search.api_key":  "BRAVE_SEARCH_API_KEY",
	"history.db_path": "HISTORY_DB_PATH",
	"log_level":       "LOG_LEVEL",
}

// Load reads config.yaml (or the file named by CONFIG_PATH) and overlays the
// environment. A missing config.yaml is fine; a missing CONFIG_PATH file is not.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("search.base_url", DefaultSearchBaseURL)
	v.SetDefault("search.timeout", 0)
	v.SetDefault("agent.max_rounds", DefaultMaxRounds)
	v.SetDefault("history.db_path", "history.db")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log_level", "info")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Agent.MaxRounds <= 0 {
		config.Agent.MaxRounds = DefaultMaxRounds
	}

	return &config, nil
}
