package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "qtum-cli", cfg.Wallet.CLIPath)
	assert.Equal(t, "QTUM", cfg.Notify.SubjectPrefix)
	assert.False(t, cfg.Monitor.NotifyOnEveryUpdate)
	assert.True(t, *cfg.Monitor.SendDailyUpdate)
	assert.True(t, *cfg.Monitor.MonitorTemperature)
	assert.Equal(t, 80.0, cfg.Monitor.TemperatureThreshold)
	assert.Equal(t, "vcgencmd", cfg.Monitor.Sensor)
	assert.Equal(t, 2*time.Minute, cfg.Monitor.CycleTimeout)
	assert.Equal(t, "data/wallet_state.json", cfg.State.File)
	assert.Equal(t, "0 0 * * * *", cfg.Schedule.Cron)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadYAMLKeepsExplicitFalse(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
wallet:
  cli_path: /opt/qtum/bin/qtum-cli
  datadir: /home/pi/.qtum
notify:
  subject_prefix: QTUM-PI
monitor:
  notify_on_every_update: true
  send_daily_update: false
  monitor_temperature: false
  temperature_threshold: 70.5
  sensor: thermal_zone
  timezone: Europe/Berlin
  cycle_timeout: 30s
state:
  file: /var/lib/stakesentinel/state.json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/opt/qtum/bin/qtum-cli", cfg.Wallet.CLIPath)
	assert.Equal(t, "/home/pi/.qtum", cfg.Wallet.DataDir)
	assert.False(t, *cfg.Monitor.SendDailyUpdate)
	assert.False(t, *cfg.Monitor.MonitorTemperature)
	assert.Equal(t, 30*time.Second, cfg.Monitor.CycleTimeout)

	opts := cfg.MonitorOptions()
	assert.True(t, opts.Engine.NotifyOnEveryUpdate)
	assert.False(t, opts.Engine.SendDailyUpdate)
	assert.Equal(t, "QTUM-PI", opts.Engine.Prefix)
	assert.Equal(t, "Europe/Berlin", opts.Engine.Location.String())
	assert.False(t, opts.MonitorTemperature)
	assert.Equal(t, 70.5, opts.TemperatureThreshold)
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, "monitor:\n  send_daily_update: true\n")
	t.Setenv("DAILY_STATUS_UPDATE", "false")
	t.Setenv("NOTIFY_ALWAYS", "true")
	t.Setenv("TEMPERATURE_WARNING_THRESHOLD", "65")
	t.Setenv("QTUM_RPC_URL", "http://127.0.0.1:3889")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.False(t, *cfg.Monitor.SendDailyUpdate)
	assert.True(t, cfg.Monitor.NotifyOnEveryUpdate)
	assert.Equal(t, 65.0, cfg.Monitor.TemperatureThreshold)
	assert.Equal(t, "http://127.0.0.1:3889", cfg.Wallet.RPCURL)
	assert.Equal(t, "42", cfg.Notify.Telegram.ChatID)
}

func TestEnvInvalidBool(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MONITOR_TEMPERATURE", "maybe")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "MONITOR_TEMPERATURE")
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECIPIENT_EMAIL=ops@example.com\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("RECIPIENT_EMAIL") })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", cfg.Notify.Mail.Recipient)
}

func TestParseError(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(writeConfig(t, "monitor: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"half telegram", func(c *Config) { c.Notify.Telegram.BotToken = "t" }, "bot_token and chat_id"},
		{"bad timezone", func(c *Config) { c.Monitor.Timezone = "Mars/Olympus" }, "monitor.timezone"},
		{"bad sensor", func(c *Config) { c.Monitor.Sensor = "thermometer" }, "monitor.sensor"},
		{"negative threshold", func(c *Config) { c.Monitor.TemperatureThreshold = -1 }, "temperature_threshold"},
		{"no wallet access", func(c *Config) { c.Wallet.CLIPath = "" }, "cli_path or wallet.rpc_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
