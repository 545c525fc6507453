package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists cycle history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	// WAL so dashboards can read while a cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycles (
			run_id       TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			duration_ms  INTEGER,
			outcome      TEXT NOT NULL,
			balance      TEXT,
			stake        TEXT,
			total        TEXT,
			temperature  REAL,
			stake_earned INTEGER NOT NULL DEFAULT 0,
			error        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES cycles(run_id),
			kind      TEXT NOT NULL,
			subject   TEXT,
			delivered INTEGER NOT NULL DEFAULT 0,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_run ON notifications(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordCycle writes the cycle row and its intents in one transaction.
func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var temp any
	if rec.Temperature != nil {
		temp = *rec.Temperature
	}
	_, err = tx.Exec(`INSERT INTO cycles
		(run_id, timestamp, duration_ms, outcome, balance, stake, total, temperature, stake_earned, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID.String(), rec.StartedAt.Unix(), rec.Duration.Milliseconds(), rec.Outcome,
		rec.Balance.String(), rec.Stake.String(), rec.Total.String(),
		temp, boolInt(rec.StakeEarned), rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}

	for _, in := range rec.Intents {
		if _, err := tx.Exec(`INSERT INTO notifications
			(run_id, kind, subject, delivered, error) VALUES (?,?,?,?,?)`,
			rec.RunID.String(), in.Kind, in.Subject, boolInt(in.Delivered), in.Error,
		); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	return tx.Commit()
}

// RecentCycles returns up to limit cycles, newest first.
func (r *SQLiteRecorder) RecentCycles(limit int) ([]CycleSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT c.run_id, c.timestamp, c.outcome, c.total, c.stake_earned,
			(SELECT COUNT(*) FROM notifications n WHERE n.run_id = c.run_id)
		FROM cycles c ORDER BY c.timestamp DESC, c.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleSummary
	for rows.Next() {
		var (
			s     CycleSummary
			ts    int64
			total sql.NullString
			won   int
		)
		if err := rows.Scan(&s.RunID, &ts, &s.Outcome, &total, &won, &s.Intents); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		s.StartedAt = time.Unix(ts, 0).UTC()
		s.StakeEarned = won != 0
		if total.Valid && total.String != "" {
			if d, err := decimal.NewFromString(total.String); err == nil {
				s.Total = d
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
