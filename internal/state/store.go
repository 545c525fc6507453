package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"StakeSentinel/internal/model"
)

// record is the on-disk layout. Field names match the legacy state file, so
// an existing one is picked up as-is.
type record struct {
	InitialBalance   decimal.Decimal `json:"initial_balance"`
	Balance          decimal.Decimal `json:"balance"`
	Stake            decimal.Decimal `json:"stake"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	LastBlockTimeWon int64           `json:"last_block_time_won"` // epoch seconds, 0 if never
	Date             string          `json:"date"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toRecord(s *model.WalletSnapshot) record {
	r := record{
		InitialBalance: s.InitialBalance,
		Balance:        s.Balance,
		Stake:          s.Stake,
		TotalBalance:   s.Total(),
		Date:           s.ObservationDate,
		UpdatedAt:      time.Now().UTC(),
	}
	if s.LastWinTime != nil {
		r.LastBlockTimeWon = s.LastWinTime.Unix()
	}
	return r
}

func (r *record) snapshot() *model.WalletSnapshot {
	s := &model.WalletSnapshot{
		Balance:         r.Balance,
		Stake:           r.Stake,
		InitialBalance:  r.InitialBalance,
		ObservationDate: r.Date,
	}
	s.TotalBalance = s.Total()
	if r.LastBlockTimeWon > 0 {
		t := time.Unix(r.LastBlockTimeWon, 0).UTC()
		s.LastWinTime = &t
	}
	return s
}

// Store persists exactly one WalletSnapshot as a JSON file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Load reads the stored snapshot. A missing file is not an error: it returns
// (nil, nil), which callers treat as the first run.
func (s *Store) Load() (*model.WalletSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	return r.snapshot(), nil
}

// Save replaces the stored snapshot. The file is written to a temporary
// sibling and renamed into place so readers never see a partial record.
func (s *Store) Save(snap *model.WalletSnapshot) error {
	if snap == nil {
		return errors.New("save state: nil snapshot")
	}
	data, err := json.MarshalIndent(toRecord(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Remove deletes the state file so the next cycle bootstraps again.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state: %w", err)
	}
	return nil
}
