package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines resolver and server configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	History   HistoryConfig   `yaml:"history"`
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
}

// DatabaseConfig controls where login records come from. Path, when set,
// is an explicit override of the login database location; resolution
// fails outright if it cannot be opened. PasswdPath points the account
// directory at an alternate identity file.
type DatabaseConfig struct {
	Path       string `yaml:"path"`
	PasswdPath string `yaml:"passwd_path"`
}

// HistoryConfig controls the optional snapshot archive. An empty path
// disables archiving.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("LASTSEEN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("LASTSEEN_DATABASE"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if passwdPath := os.Getenv("LASTSEEN_PASSWD_PATH"); passwdPath != "" {
		cfg.Database.PasswdPath = passwdPath
	}
	if historyPath := os.Getenv("LASTSEEN_HISTORY_PATH"); historyPath != "" {
		cfg.History.Path = historyPath
	}
	if host := os.Getenv("LASTSEEN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LASTSEEN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LASTSEEN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("LASTSEEN_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if level := os.Getenv("LASTSEEN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
