package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	xdgAppName = "opq"
	configFile = "config.json"

	defaultOutPath  = "operator-queue.md"
	defaultGmailCap = 30
)

// Config is the operator-level configuration. Operator and Username drive
// the chat mention filter; a message must name one of them to be actionable.
type Config struct {
	Operator string `json:"operator"`
	Username string `json:"username,omitempty"`
	GmailCap int    `json:"gmail_cap,omitempty"`
	OutPath  string `json:"out_path,omitempty"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// Mentions returns the chat phrases that count as operator mentions: the
// "@Display Name" form plus the bare username.
func (c *Config) Mentions() []string {
	var out []string
	if c.Operator != "" {
		out = append(out, "@"+c.Operator)
	}
	if c.Username != "" {
		out = append(out, c.Username)
	}
	return out
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{GmailCap: defaultGmailCap, OutPath: defaultOutPath}, nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.GmailCap <= 0 {
		cfg.GmailCap = defaultGmailCap
	}
	if cfg.OutPath == "" {
		cfg.OutPath = defaultOutPath
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
