package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StakeSentinel/internal/engine"
	"StakeSentinel/internal/monitor"
)

// Config holds all application configuration.
type Config struct {
	Wallet struct {
		CLIPath     string `yaml:"cli_path"`
		DataDir     string `yaml:"datadir"`
		RPCURL      string `yaml:"rpc_url"`
		RPCUser     string `yaml:"rpc_user"`
		RPCPassword string `yaml:"rpc_password"`
	} `yaml:"wallet"`
	Notify struct {
		SubjectPrefix string `yaml:"subject_prefix"`
		Telegram      struct {
			BotToken string `yaml:"bot_token"`
			ChatID   string `yaml:"chat_id"`
		} `yaml:"telegram"`
		Mail struct {
			Recipient string `yaml:"recipient"`
			Command   string `yaml:"command"`
		} `yaml:"mail"`
	} `yaml:"notify"`
	Monitor struct {
		NotifyOnEveryUpdate  bool          `yaml:"notify_on_every_update"`
		SendDailyUpdate      *bool         `yaml:"send_daily_update"`
		MonitorTemperature   *bool         `yaml:"monitor_temperature"`
		TemperatureThreshold float64       `yaml:"temperature_threshold"`
		Sensor               string        `yaml:"sensor"`
		SensorPath           string        `yaml:"sensor_path"`
		Timezone             string        `yaml:"timezone"`
		CycleTimeout         time.Duration `yaml:"cycle_timeout"`
	} `yaml:"monitor"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
		Textfile   string `yaml:"textfile"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment variable overrides and defaults. A missing file is allowed.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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
	if v := os.Getenv("QTUM_CLI"); v != "" {
		cfg.Wallet.CLIPath = v
	}
	if v := os.Getenv("QTUM_DATADIR"); v != "" {
		cfg.Wallet.DataDir = v
	}
	if v := os.Getenv("QTUM_RPC_URL"); v != "" {
		cfg.Wallet.RPCURL = v
	}
	if v := os.Getenv("QTUM_RPC_USER"); v != "" {
		cfg.Wallet.RPCUser = v
	}
	if v := os.Getenv("QTUM_RPC_PASSWORD"); v != "" {
		cfg.Wallet.RPCPassword = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.Telegram.ChatID = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		cfg.Notify.Mail.Recipient = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("NOTIFY_ALWAYS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_ALWAYS: %w", err)
		}
		cfg.Monitor.NotifyOnEveryUpdate = b
	}
	if v := os.Getenv("DAILY_STATUS_UPDATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DAILY_STATUS_UPDATE: %w", err)
		}
		cfg.Monitor.SendDailyUpdate = &b
	}
	if v := os.Getenv("MONITOR_TEMPERATURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MONITOR_TEMPERATURE: %w", err)
		}
		cfg.Monitor.MonitorTemperature = &b
	}
	if v := os.Getenv("TEMPERATURE_WARNING_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("TEMPERATURE_WARNING_THRESHOLD: %w", err)
		}
		cfg.Monitor.TemperatureThreshold = f
	}
	if v := os.Getenv("MONITOR_TIMEZONE"); v != "" {
		cfg.Monitor.Timezone = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.File = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}

	// Defaults
	if cfg.Wallet.CLIPath == "" {
		cfg.Wallet.CLIPath = "qtum-cli"
	}
	if cfg.Notify.SubjectPrefix == "" {
		cfg.Notify.SubjectPrefix = engine.DefaultPrefix
	}
	if cfg.Monitor.SendDailyUpdate == nil {
		t := true
		cfg.Monitor.SendDailyUpdate = &t
	}
	if cfg.Monitor.MonitorTemperature == nil {
		t := true
		cfg.Monitor.MonitorTemperature = &t
	}
	if cfg.Monitor.TemperatureThreshold == 0 {
		cfg.Monitor.TemperatureThreshold = 80.0
	}
	if cfg.Monitor.Sensor == "" {
		cfg.Monitor.Sensor = "vcgencmd"
	}
	if cfg.Monitor.Timezone == "" {
		cfg.Monitor.Timezone = "UTC"
	}
	if cfg.Monitor.CycleTimeout == 0 {
		cfg.Monitor.CycleTimeout = 2 * time.Minute
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/wallet_state.json"
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 * * * *"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Wallet.RPCURL == "" && c.Wallet.CLIPath == "" {
		return fmt.Errorf("wallet.cli_path or wallet.rpc_url is required")
	}
	if (c.Notify.Telegram.BotToken == "") != (c.Notify.Telegram.ChatID == "") {
		return fmt.Errorf("notify.telegram needs both bot_token and chat_id")
	}
	if c.Monitor.TemperatureThreshold <= 0 {
		return fmt.Errorf("monitor.temperature_threshold must be positive")
	}
	if _, err := time.LoadLocation(c.Monitor.Timezone); err != nil {
		return fmt.Errorf("monitor.timezone: %w", err)
	}
	if c.Monitor.CycleTimeout < 0 {
		return fmt.Errorf("monitor.cycle_timeout must not be negative")
	}
	switch c.Monitor.Sensor {
	case "none", "vcgencmd", "thermal_zone":
	default:
		return fmt.Errorf("monitor.sensor must be none, vcgencmd or thermal_zone, got %q", c.Monitor.Sensor)
	}
	return nil
}

// Location returns the reference timezone for observation dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Monitor.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MonitorOptions returns the immutable cycle options derived from the config.
func (c *Config) MonitorOptions() monitor.Options {
	return monitor.Options{
		Engine: engine.Options{
			NotifyOnEveryUpdate: c.Monitor.NotifyOnEveryUpdate,
			SendDailyUpdate:     *c.Monitor.SendDailyUpdate,
			Location:            c.Location(),
			Prefix:              c.Notify.SubjectPrefix,
		},
		MonitorTemperature:   *c.Monitor.MonitorTemperature,
		TemperatureThreshold: c.Monitor.TemperatureThreshold,
	}
}
