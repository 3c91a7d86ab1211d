package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Discord struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"discord"`
	Market struct {
		BaseURL     string   `yaml:"base_url"`
		VsCurrency  string   `yaml:"vs_currency"`
		PerPage     int      `yaml:"per_page"`
		HistoryDays int      `yaml:"history_days"`
		Watchlist   []string `yaml:"watchlist"`
	} `yaml:"market"`
	Schedule struct {
		AlertCron   string `yaml:"alert_cron"`
		CollectCron string `yaml:"collect_cron"`
		ReportCron  string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr       string `yaml:"addr"`
		CronSecret string `yaml:"cron_secret"`
	} `yaml:"server"`
	Fund struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"fund"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	// DefaultUser owns transactions entered through the Telegram bot.
	DefaultUser string `yaml:"default_user"`
	Proxy       string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
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

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Discord.WebhookURL = v
	}
	if v := os.Getenv("MARKET_BASE_URL"); v != "" {
		cfg.Market.BaseURL = v
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Market.HistoryDays = n
		}
	}
	if v := os.Getenv("CRON_ALERTS"); v != "" {
		cfg.Schedule.AlertCron = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		cfg.Server.CronSecret = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Market.BaseURL == "" {
		cfg.Market.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Market.VsCurrency == "" {
		cfg.Market.VsCurrency = "usd"
	}
	if cfg.Market.PerPage == 0 {
		cfg.Market.PerPage = 20
	}
	if cfg.Market.HistoryDays == 0 {
		cfg.Market.HistoryDays = 90
	}
	if cfg.Schedule.AlertCron == "" {
		cfg.Schedule.AlertCron = "0 */5 * * * *"
	}
	if cfg.Schedule.CollectCron == "" {
		cfg.Schedule.CollectCron = "0 0 * * * *"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 9 * * *"
	}
	if len(cfg.Market.Watchlist) == 0 {
		cfg.Market.Watchlist = []string{"bitcoin", "ethereum"}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Fund.StateFile == "" {
		cfg.Fund.StateFile = "data/wallet.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/cryptofollow.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = "local"
	}
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Market.PerPage < 1 || c.Market.PerPage > 250 {
		return fmt.Errorf("market.per_page must be between 1 and 250")
	}
	if c.Market.HistoryDays < 2 {
		return fmt.Errorf("market.history_days must be at least 2")
	}
	if c.Schedule.AlertCron == "" || c.Schedule.CollectCron == "" || c.Schedule.ReportCron == "" {
		return fmt.Errorf("schedule.alert_cron, schedule.collect_cron and schedule.report_cron are required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
