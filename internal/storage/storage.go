package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyBenchHistory = "bench_history"

// BenchRun records the outcome of replaying a single benchmark file.
type BenchRun struct {
	File         string        `json:"file"`
	Threads      int           `json:"threads"`
	Positions    int           `json:"positions"`
	TotalNodes   uint64        `json:"total_nodes"`
	TotalElapsed time.Duration `json:"total_elapsed"`
	RanAt        time.Time     `json:"ran_at"`
}

// Knps is nodes per second, in thousands, averaged over the whole run.
func (r BenchRun) Knps() uint64 {
	seconds := r.TotalElapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return uint64(float64(r.TotalNodes) / seconds / 1000.0)
}

// BenchHistory accumulates every BenchRun recorded so far, most recent
// last - used to spot search regressions across engine versions on the
// same benchmark file.
type BenchHistory struct {
	Runs []BenchRun `json:"runs"`
}

// Storage wraps BadgerDB for persisting cumulative benchmark statistics.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if necessary) the benchmark statistics
// database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadBenchHistory loads every recorded bench run, or an empty history if
// none has been recorded yet.
func (s *Storage) LoadBenchHistory() (*BenchHistory, error) {
	history := &BenchHistory{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyBenchHistory))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, history)
		})
	})

	return history, err
}

// RecordBenchRun appends run to the stored history.
func (s *Storage) RecordBenchRun(run BenchRun) error {
	history, err := s.LoadBenchHistory()
	if err != nil {
		return err
	}
	history.Runs = append(history.Runs, run)

	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyBenchHistory), data)
	})
}

// RunsForFile filters history down to the runs recorded against one
// benchmark file, in recording order.
func (h *BenchHistory) RunsForFile(file string) []BenchRun {
	var out []BenchRun
	for _, r := range h.Runs {
		if r.File == file {
			out = append(out, r)
		}
	}
	return out
}
