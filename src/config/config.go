package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

const (
	DefaultInterval     = "1m"
	DefaultOutputDir    = "results"
	DefaultPollInterval = "1s"
)

// Load reads a backtest config. Strategy parameters are left as written so that
// strategy.Config.Validate reports them; only data, output and live settings get defaults.
// A relative csv_path is resolved against the directory of the config file.
func Load(path string) (*models.BacktestConfigYAML, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: failed to read %s: %w", path, err)
	}

	var cfg models.BacktestConfigYAML
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: failed to parse %s: %v: %w", path, err, models.ErrInvalidConfiguration)
	}

	if cfg.Data.Source == "" {
		cfg.Data.Source = models.DataSourceCSV
	}

	if cfg.Data.Interval == "" {
		cfg.Data.Interval = DefaultInterval
	}

	if cfg.Data.CsvPath != "" && !filepath.IsAbs(cfg.Data.CsvPath) {
		cfg.Data.CsvPath = filepath.Join(filepath.Dir(path), cfg.Data.CsvPath)
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if cfg.Live.PollInterval == "" {
		cfg.Live.PollInterval = DefaultPollInterval
	}

	if cfg.Live.Broker == "" {
		cfg.Live.Broker = models.BrokerTypePaper
	}

	return &cfg, nil
}
