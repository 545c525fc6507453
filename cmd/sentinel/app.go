package main

import (
	"fmt"
	"log"

	"StakeSentinel/internal/collector"
	"StakeSentinel/internal/config"
	"StakeSentinel/internal/metrics"
	"StakeSentinel/internal/monitor"
	"StakeSentinel/internal/notifier"
	"StakeSentinel/internal/recorder"
	"StakeSentinel/internal/sensor"
	"StakeSentinel/internal/state"
)

// app holds the components built from the config.
type app struct {
	Monitor  *monitor.Monitor
	Recorder recorder.Recorder
	Metrics  *metrics.PrometheusRecorder
	Telegram *notifier.TelegramNotifier // nil unless configured
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.Wallet.RPCURL != "" {
		return collector.NewRPCFetcher(cfg.Wallet.RPCURL, cfg.Wallet.RPCUser, cfg.Wallet.RPCPassword, cfg.Proxy)
	}
	return collector.NewCLIFetcher(cfg.Wallet.CLIPath, cfg.Wallet.DataDir)
}

// newNotifier fans out to every configured channel and falls back to the log.
func newNotifier(cfg *config.Config) (notifier.Notifier, *notifier.TelegramNotifier) {
	var channels notifier.Multi
	var tn *notifier.TelegramNotifier
	if cfg.Notify.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID, cfg.Proxy)
		channels = append(channels, tn)
	}
	if cfg.Notify.Mail.Recipient != "" {
		channels = append(channels, notifier.NewMailNotifier(cfg.Notify.Mail.Command, cfg.Notify.Mail.Recipient))
	}
	switch len(channels) {
	case 0:
		log.Println("[WARN] no notification channel configured, notifications go to the log")
		return notifier.LogNotifier{}, nil
	case 1:
		return channels[0], tn
	default:
		return channels, tn
	}
}

func newRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newApp(cfg *config.Config, verbose bool) (*app, error) {
	fetcher := newFetcher(cfg)
	log.Printf("[INFO] wallet source: %s", fetcher.Name())

	sens, err := sensor.New(cfg.Monitor.Sensor, cfg.Monitor.SensorPath)
	if err != nil {
		return nil, fmt.Errorf("init sensor: %w", err)
	}

	n, tn := newNotifier(cfg)
	log.Printf("[INFO] notifier: %s", n.Name())

	a := &app{
		Recorder: newRecorder(cfg.Database.SQLitePath),
		Metrics:  metrics.NewPrometheusRecorder(nil),
		Telegram: tn,
	}
	m := monitor.New(collector.NewCollector(fetcher), sens, state.NewStore(cfg.State.File), n, cfg.MonitorOptions())
	m.Recorder = a.Recorder
	m.Metrics = a.Metrics
	m.Verbose = verbose
	a.Monitor = m
	return a, nil
}

func (a *app) Close() {
	if err := a.Recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}
