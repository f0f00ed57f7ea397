package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tomasstrnad1997/minesai/mines"
)

type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Mines  int `yaml:"mines"`
}

func (b BoardConfig) Params() mines.GameParams {
	return mines.GameParams{Width: b.Width, Height: b.Height, Mines: b.Mines}
}

type Config struct {
	Board         BoardConfig `yaml:"board"`
	Games         int         `yaml:"games"`
	Workers       int         `yaml:"workers"`
	Seed          int64       `yaml:"seed"` // 0 means seed from the clock
	DBPath        string      `yaml:"db_path"`
	LogLevel      string      `yaml:"log_level"`
	MetricsAddr   string      `yaml:"metrics_addr"`
	FeedAddr      string      `yaml:"feed_addr"`
	RecordReplays bool        `yaml:"record_replays"`
}

func DefaultConfig() Config {
	return Config{
		Board:         BoardConfig{Width: 8, Height: 8, Mines: 8},
		Games:         100,
		Workers:       4,
		LogLevel:      "info",
		RecordReplays: true,
	}
}

// LoadConfig reads path over the defaults. An empty path yields the
// defaults. DB_PATH in the environment takes precedence over db_path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read the config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}
	if env := os.Getenv("DB_PATH"); env != "" {
		cfg.DBPath = env
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := mines.ValidateParams(c.Board.Params()); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
