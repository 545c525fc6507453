// Package monitor runs one monitoring cycle: query the wallet, validate it,
// decide notifications against the stored snapshot, persist the new snapshot
// and deliver what was decided.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"StakeSentinel/internal/engine"
	"StakeSentinel/internal/metrics"
	"StakeSentinel/internal/model"
	"StakeSentinel/internal/notifier"
	"StakeSentinel/internal/recorder"
	"StakeSentinel/internal/sensor"
	"StakeSentinel/internal/state"
)

// Cycle outcomes, used as metric labels and in the history table.
const (
	OutcomeOK                 = "ok"
	OutcomeBootstrap          = "bootstrap"
	OutcomePreconditionFailed = "precondition_failed"
	OutcomeSkipped            = "skipped"
	OutcomeStateFailed        = "state_failed"
)

// ErrPersist marks a failure to read or write the state file. The next
// cycle would compare against stale data, so callers must surface it.
var ErrPersist = errors.New("state persistence failed")

// Source returns one reading of the wallet daemon.
type Source interface {
	Query(ctx context.Context) (*model.WalletStatus, error)
}

// Store is the single-record snapshot store.
type Store interface {
	Load() (*model.WalletSnapshot, error)
	Save(*model.WalletSnapshot) error
	TryLock() (func() error, error)
}

// Options configure a cycle.
type Options struct {
	Engine               engine.Options
	MonitorTemperature   bool
	TemperatureThreshold float64
}

// Result describes a finished cycle.
type Result struct {
	RunID       uuid.UUID
	Outcome     string
	Intents     []model.Intent
	Snapshot    *model.WalletSnapshot
	Undelivered int
}

// Monitor wires the collaborators of a cycle.
type Monitor struct {
	Source   Source
	Sensor   sensor.Sensor // nil when the host has none
	Store    Store
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Metrics  metrics.Recorder
	Options  Options
	Now      func() time.Time
	Verbose  bool
}

// New creates a Monitor with no-op recorder and metrics.
func New(src Source, sens sensor.Sensor, store Store, n notifier.Notifier, opts Options) *Monitor {
	return &Monitor{
		Source:   src,
		Sensor:   sens,
		Store:    store,
		Notifier: n,
		Recorder: recorder.NewNoopRecorder(),
		Metrics:  metrics.NoopRecorder{},
		Options:  opts,
		Now:      time.Now,
	}
}

func (m *Monitor) debugf(format string, args ...any) {
	if m.Verbose {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// RunCycle executes one cycle under the state lock. It returns state.ErrLocked
// when another process is mid-cycle and a wrapped ErrPersist when the state
// file could not be read or written. Every other condition is resolved into
// notifications and reported through Result.
func (m *Monitor) RunCycle(ctx context.Context) (*Result, error) {
	start := m.Now()
	res := &Result{RunID: uuid.New()}
	rec := &recorder.CycleRecord{RunID: res.RunID, StartedAt: start}

	unlock, err := m.Store.TryLock()
	if err != nil {
		if errors.Is(err, state.ErrLocked) {
			log.Printf("[WARN] cycle %s skipped: %v", res.RunID, err)
			res.Outcome = OutcomeSkipped
			m.Metrics.ObserveCycle(res.Outcome, m.Now().Sub(start))
			return res, err
		}
		return m.finish(ctx, res, rec, start, fmt.Errorf("%w: %w", ErrPersist, err))
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Printf("[WARN] release state lock: %v", err)
		}
	}()

	status, qerr := m.Source.Query(ctx)
	if qerr != nil {
		log.Printf("[ERROR] query wallet: %v", qerr)
	}
	if in := engine.CheckPreconditions(status, qerr, m.Options.Engine.Prefix); in != nil {
		log.Printf("[WARN] precondition failed: %s", in.Subject)
		res.Outcome = OutcomePreconditionFailed
		res.Intents = []model.Intent{*in}
		rec.Error = in.Subject
		if status != nil {
			m.observeWallet(status, rec)
		}
		return m.finish(ctx, res, rec, start, nil)
	}
	m.observeWallet(status, rec)

	if in := m.checkTemperature(ctx, rec); in != nil {
		res.Intents = append(res.Intents, *in)
	}

	prev, err := m.Store.Load()
	if err != nil {
		return m.finish(ctx, res, rec, start, fmt.Errorf("%w: %w", ErrPersist, err))
	}

	d := engine.Decide(prev, status.Balance, status.Stake, start, m.Options.Engine)
	res.Intents = append(res.Intents, d.Intents...)
	res.Snapshot = d.Next
	rec.StakeEarned = d.StakeEarned
	res.Outcome = OutcomeOK
	if d.Bootstrap {
		res.Outcome = OutcomeBootstrap
		log.Printf("[INFO] no prior state, baseline balance %s", d.Next.InitialBalance)
	}
	m.debugf("decided %d notifications (stake earned: %v)", len(d.Intents), d.StakeEarned)

	if err := m.Store.Save(d.Next); err != nil {
		return m.finish(ctx, res, rec, start, fmt.Errorf("%w: %w", ErrPersist, err))
	}
	m.Metrics.SetLastSuccess(m.Now())
	return m.finish(ctx, res, rec, start, nil)
}

func (m *Monitor) observeWallet(st *model.WalletStatus, rec *recorder.CycleRecord) {
	rec.Balance = st.Balance
	rec.Stake = st.Stake
	rec.Total = st.Balance.Add(st.Stake)
	m.Metrics.SetWallet(st.Balance, st.Stake, rec.Total, st.Weight)
}

func (m *Monitor) checkTemperature(ctx context.Context, rec *recorder.CycleRecord) *model.Intent {
	if !m.Options.MonitorTemperature || m.Sensor == nil {
		return nil
	}
	c, err := m.Sensor.Read(ctx)
	if err != nil {
		if errors.Is(err, sensor.ErrUnavailable) {
			m.debugf("temperature check skipped: %v", err)
		} else {
			log.Printf("[WARN] read temperature via %s: %v", m.Sensor.Name(), err)
		}
		return nil
	}
	rec.Temperature = &c
	m.Metrics.SetTemperature(c)
	m.debugf("temperature %.1fC (threshold %.1fC)", c, m.Options.TemperatureThreshold)
	return engine.CheckTemperature(c, m.Options.TemperatureThreshold, m.Options.Engine.Prefix)
}

// finish delivers the decided intents, records the cycle and returns cycleErr.
// A persistence failure adds its own notification after the domain ones.
func (m *Monitor) finish(ctx context.Context, res *Result, rec *recorder.CycleRecord, start time.Time, cycleErr error) (*Result, error) {
	if cycleErr != nil {
		log.Printf("[ERROR] cycle %s: %v", res.RunID, cycleErr)
		res.Outcome = OutcomeStateFailed
		res.Snapshot = nil
		rec.Error = cycleErr.Error()
		res.Intents = append(res.Intents, engine.PersistFailureIntent(m.Options.Engine.Prefix, cycleErr))
	}

	for _, in := range res.Intents {
		ir := recorder.IntentRecord{Kind: string(in.Kind), Subject: in.Subject, Delivered: true}
		if err := m.Notifier.Deliver(ctx, in.Subject, in.Body); err != nil {
			log.Printf("[ERROR] deliver %q via %s: %v", in.Subject, m.Notifier.Name(), err)
			ir.Delivered = false
			ir.Error = err.Error()
			res.Undelivered++
		} else {
			log.Printf("[INFO] notified: %s", in.Subject)
		}
		m.Metrics.IncIntent(ir.Kind, ir.Delivered)
		rec.Intents = append(rec.Intents, ir)
	}

	rec.Outcome = res.Outcome
	rec.Duration = m.Now().Sub(start)
	if err := m.Recorder.RecordCycle(rec); err != nil {
		log.Printf("[WARN] record cycle: %v", err)
	}
	m.Metrics.ObserveCycle(res.Outcome, rec.Duration)
	log.Printf("[INFO] cycle %s finished: %s, %d notification(s), %d undelivered",
		res.RunID, res.Outcome, len(res.Intents), res.Undelivered)
	return res, cycleErr
}
