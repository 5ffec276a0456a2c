// Package config loads subwatch settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultAddress        = "127.0.0.1:5000"
	DefaultConsoleAddress = "127.0.0.1:5001"
	DefaultModel          = "gemini-2.0-flash"
	DefaultUserAgent      = "subwatch/1.0"
)

type RedditConfig struct {
	ClientID     string `yaml:"ClientID"`
	ClientSecret string `yaml:"ClientSecret"`
	Username     string `yaml:"Username"`
	Password     string `yaml:"Password"`
	UserAgent    string `yaml:"UserAgent"`
}

type LLMConfig struct {
	APIKey string `yaml:"APIKey"`
	Model  string `yaml:"Model"`
}

type MonitorConfig struct {
	PostLimit        int `yaml:"PostLimit"`
	PollIntervalSec  int `yaml:"PollIntervalSec"`
	ReplyIntervalSec int `yaml:"ReplyIntervalSec"`
}

type Config struct {
	Address        string        `yaml:"Address"`
	ConsoleAddress string        `yaml:"ConsoleAddress"`
	APIBaseURL     string        `yaml:"APIBaseURL"`
	DatabasePath   string        `yaml:"DatabasePath"`
	LogLevel       string        `yaml:"LogLevel"`
	LogJSON        bool          `yaml:"LogJSON"`
	Reddit         RedditConfig  `yaml:"Reddit"`
	LLM            LLMConfig     `yaml:"LLM"`
	Monitor        MonitorConfig `yaml:"Monitor"`
}

func Default() *Config {
	return &Config{
		Address:        DefaultAddress,
		ConsoleAddress: DefaultConsoleAddress,
		APIBaseURL:     "http://" + DefaultAddress,
		DatabasePath:   defaultDatabasePath(),
		LogLevel:       "info",
		Reddit:         RedditConfig{UserAgent: DefaultUserAgent},
		LLM:            LLMConfig{Model: DefaultModel},
		Monitor: MonitorConfig{
			PostLimit:        50,
			PollIntervalSec:  30,
			ReplyIntervalSec: 660,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		configFile, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if err := yaml.Unmarshal(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file values: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"REDDIT_CLIENT_ID":         &c.Reddit.ClientID,
		"REDDIT_CLIENT_SECRET":     &c.Reddit.ClientSecret,
		"REDDIT_USERNAME":          &c.Reddit.Username,
		"REDDIT_PASSWORD":          &c.Reddit.Password,
		"GEMINI_API_KEY":           &c.LLM.APIKey,
		"SUBWATCH_ADDRESS":         &c.Address,
		"SUBWATCH_CONSOLE_ADDRESS": &c.ConsoleAddress,
		"SUBWATCH_API_URL":         &c.APIBaseURL,
		"SUBWATCH_DATABASE":        &c.DatabasePath,
	}
	for name, field := range overrides {
		if value := os.Getenv(name); value != "" {
			*field = value
		}
	}
}

func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Monitor.PostLimit <= 0 || c.Monitor.PostLimit > 100 {
		return fmt.Errorf("post limit must be between 1 and 100, got %d", c.Monitor.PostLimit)
	}
	if c.Monitor.PollIntervalSec < 1 {
		return fmt.Errorf("poll interval must be at least 1 second, got %d", c.Monitor.PollIntervalSec)
	}
	if c.Monitor.ReplyIntervalSec < 0 {
		return fmt.Errorf("reply interval cannot be negative")
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.PollIntervalSec) * time.Second
}

func (c *Config) ReplyInterval() time.Duration {
	return time.Duration(c.Monitor.ReplyIntervalSec) * time.Second
}

// defaultDatabasePath picks the platform application data directory.
func defaultDatabasePath() string {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "subwatch.db"
	}

	var applicationDirectory string
	switch runtime.GOOS {
	case "darwin":
		applicationDirectory = filepath.Join(homeDirectory, "Library", "Application Support", "Subwatch")
	case "windows":
		applicationDirectory = filepath.Join(homeDirectory, "AppData", "Roaming", "Subwatch")
	default: // linux and others
		applicationDirectory = filepath.Join(homeDirectory, ".local", "share", "Subwatch")
	}
	return filepath.Join(applicationDirectory, "reddit.db")
}
