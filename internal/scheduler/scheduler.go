package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StakeSentinel/internal/monitor"
	"StakeSentinel/internal/notifier"
	"StakeSentinel/internal/recorder"
	"StakeSentinel/internal/state"

	"github.com/robfig/cron/v3"
)

const historyLimit = 10

// Scheduler runs monitoring cycles on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Monitor  *monitor.Monitor
	Recorder recorder.Recorder
	Location *time.Location
	Timeout  time.Duration
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. A cycle still running when the next
// tick fires causes that tick to be skipped.
func NewScheduler(ctx context.Context, m *monitor.Monitor, rec recorder.Recorder, loc *time.Location, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Monitor:  m,
		Recorder: rec,
		Location: loc,
		Timeout:  timeout,
		Ctx:      ctx,
	}
}

// Register adds the monitoring cycle under cronSpec.
func (s *Scheduler) Register(cronSpec string) error {
	if _, err := s.Cron.AddFunc(cronSpec, s.cycleTask); err != nil {
		return fmt.Errorf("register cycle task %q: %w", cronSpec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one cycle immediately.
func (s *Scheduler) RunNow() (*monitor.Result, error) {
	ctx := s.Ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.Monitor.RunCycle(ctx)
}

func (s *Scheduler) cycleTask() {
	log.Println("[INFO] running scheduled cycle")
	if _, err := s.RunNow(); err != nil && !errors.Is(err, state.ErrLocked) {
		log.Printf("[ERROR] scheduled cycle: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	name := ""
	if fields := strings.Fields(command); len(fields) > 0 {
		name, _, _ = strings.Cut(strings.ToLower(fields[0]), "@")
	}
	switch name {
	case "/status", "/state":
		snap, err := s.Monitor.Store.Load()
		if err != nil {
			return fmt.Sprintf("Could not read wallet state: %v", err)
		}
		return notifier.FormatStatus(snap, s.Location)
	case "/history":
		cycles, err := s.Recorder.RecentCycles(historyLimit)
		if err != nil {
			return fmt.Sprintf("Could not read history: %v", err)
		}
		return FormatHistory(cycles, s.Location)
	case "/check":
		res, err := s.RunNow()
		switch {
		case errors.Is(err, state.ErrLocked):
			return "A check is already running."
		case err != nil:
			return fmt.Sprintf("Check failed: %v", err)
		}
		return fmt.Sprintf("Check finished: %s, %d notification(s).", res.Outcome, len(res.Intents))
	default:
		return "Commands:\n/status - stored wallet state\n/history - recent checks\n/check - run a check now"
	}
}

// FormatHistory renders recent cycles, newest first.
func FormatHistory(cycles []recorder.CycleSummary, loc *time.Location) string {
	if len(cycles) == 0 {
		return "No checks recorded."
	}
	var b strings.Builder
	for _, c := range cycles {
		line := fmt.Sprintf("%s %s total=%s notifications=%d",
			c.StartedAt.In(loc).Format("2006-01-02 15:04"), c.Outcome, c.Total.StringFixed(2), c.Intents)
		if c.StakeEarned {
			line += " stake"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
