package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Providers accepted by data_source.provider.
const (
	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
	ProviderMock      = "mock"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string        `yaml:"provider"`
		Proxy    string        `yaml:"proxy"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Output struct {
		ChartsDir string `yaml:"charts_dir"`
	} `yaml:"output"`
	Analysis struct {
		ShortWindow int `yaml:"short_window"`
		LongWindow  int `yaml:"long_window"`
	} `yaml:"analysis"`
	Watch struct {
		Symbol       string `yaml:"symbol"`
		Cron         string `yaml:"cron"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"watch"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		File string `yaml:"file"`
	} `yaml:"log"`
}

// Load reads .env, then the YAML file, then applies environment overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("CACHE_SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("CHARTS_DIR"); v != "" {
		cfg.Output.ChartsDir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("WATCH_SYMBOL"); v != "" {
		cfg.Watch.Symbol = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("WATCH_LOOKBACK_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Watch.LookbackDays = days
		}
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Output.ChartsDir == "" {
		c.Output.ChartsDir = "charts"
	}
	if c.Analysis.ShortWindow == 0 {
		c.Analysis.ShortWindow = 20
	}
	if c.Analysis.LongWindow == 0 {
		c.Analysis.LongWindow = 50
	}
	if c.Watch.Cron == "" {
		c.Watch.Cron = "0 30 22 * * 1-5"
	}
	if c.Watch.LookbackDays == 0 {
		c.Watch.LookbackDays = 180
	}
}

// Validate checks the settings needed by every command.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderFinanceGo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, financego, mock", c.DataSource.Provider)
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if c.Analysis.ShortWindow <= 0 || c.Analysis.LongWindow <= 0 {
		return fmt.Errorf("analysis windows must be positive")
	}
	if c.Analysis.ShortWindow >= c.Analysis.LongWindow {
		return fmt.Errorf("analysis.short_window (%d) must be below analysis.long_window (%d)",
			c.Analysis.ShortWindow, c.Analysis.LongWindow)
	}
	return nil
}

// ValidateWatch checks the extra settings required by the watch command.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Watch.Symbol == "" {
		return fmt.Errorf("watch.symbol is required")
	}
	if c.Watch.Cron == "" {
		return fmt.Errorf("watch.cron is required")
	}
	if c.Watch.LookbackDays <= 0 {
		return fmt.Errorf("watch.lookback_days must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
