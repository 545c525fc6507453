package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StakeSentinel/internal/config"
	"StakeSentinel/internal/notifier"
	"StakeSentinel/internal/scheduler"
	"StakeSentinel/internal/state"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// RunCmd implements the 'run' command: exactly one cycle, then exit.
type RunCmd struct{}

func (r *RunCmd) Run(root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, root.Verbose)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Monitor.CycleTimeout)
	defer cancelTimeout()

	_, err = a.Monitor.RunCycle(ctx)
	if cfg.Metrics.Textfile != "" {
		if werr := a.Metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			log.Printf("[WARN] write metrics textfile: %v", werr)
		}
	}
	if errors.Is(err, state.ErrLocked) {
		log.Printf("[WARN] another cycle holds the state lock, exiting")
		return nil
	}
	return err
}

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	RunOnStart bool `help:"Run one cycle immediately after start" env:"RUN_ON_START"`
}

func (d *DaemonCmd) Run(root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, root.Verbose)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.Monitor, a.Recorder, cfg.Location(), cfg.Monitor.CycleTimeout)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.Telegram != nil {
		go a.Telegram.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if cfg.Metrics.ListenAddr != "" {
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: metricsMux(a), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Printf("[INFO] metrics listening on %s", cfg.Metrics.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[ERROR] metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if d.RunOnStart {
		log.Println("[INFO] run on start enabled, executing a cycle now")
		go sched.RunNow()
	}

	log.Println("[INFO] StakeSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}

func metricsMux(a *app) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

func (s *StatusCmd) Run(root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	snap, err := state.NewStore(cfg.State.File).Load()
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, notifier.FormatStatus(snap, cfg.Location()))
	return nil
}

// ResetCmd implements the 'reset' command.
type ResetCmd struct {
	Yes bool `help:"Confirm deletion of the stored state"`
}

func (r *ResetCmd) Run(root *CLI) error {
	if !r.Yes {
		return errors.New("refusing to reset without --yes")
	}
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	store := state.NewStore(cfg.State.File)
	unlock, err := store.TryLock()
	if err != nil {
		return err
	}
	defer unlock()
	if err := store.Remove(); err != nil {
		return err
	}
	log.Printf("[INFO] removed %s; the next run records a new baseline", store.Path())
	return nil
}
