package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/samuelfneumann/hindsight/hindsight"
)

// runConfig is the configuration of a collect-and-replay run. It is
// loaded by viper from flags, HER_* environment variables, and an
// optional config file.
type runConfig struct {
	Buffer hindsight.Config `mapstructure:"buffer"`

	Rows         int      `mapstructure:"rows" validate:"gte=1"`
	Cols         int      `mapstructure:"cols" validate:"gte=1"`
	Pits         []string `mapstructure:"pits"`
	EpisodeSteps int      `mapstructure:"episode_steps" validate:"gte=1"`
	Discount     float64  `mapstructure:"discount" validate:"gte=0,lte=1"`

	Episodes  int `mapstructure:"episodes" validate:"gte=1"`
	Batches   int `mapstructure:"batches" validate:"gte=0"`
	BatchSize int `mapstructure:"batch_size" validate:"gte=1"`
	MaxLen    int `mapstructure:"max_len" validate:"gte=0"`

	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		Buffer:       hindsight.DefaultConfig(),
		Rows:         5,
		Cols:         5,
		EpisodeSteps: 25,
		Discount:     0.99,
		Episodes:     100,
		Batches:      10,
		BatchSize:    32,
		LogLevel:     "info",
	}
}

func (c runConfig) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Buffer.Validate(); err != nil {
		return err
	}
	if _, err := c.pits(); err != nil {
		return err
	}
	return nil
}

// pits parses the pit cells, each given as "x:y"
func (c runConfig) pits() ([][2]int, error) {
	pits := make([][2]int, 0, len(c.Pits))
	for _, p := range c.Pits {
		var x, y int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d:%d", &x,
			&y); err != nil {
			return nil, fmt.Errorf("invalid pit %q, want x:y: %w", p, err)
		}
		pits = append(pits, [2]int{x, y})
	}
	return pits, nil
}

func (c runConfig) level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
