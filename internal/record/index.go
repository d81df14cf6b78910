package record

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Index is a SQLite summary of runs, secondary to the run directories.
// Writes funnel through one goroutine so recording never blocks on the
// database.
type Index struct {
	db *sql.DB

	ch   chan indexReq
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type indexKind int

const (
	reqRun indexKind = iota + 1
	reqSample
)

type indexReq struct {
	kind   indexKind
	run    runRow
	sample sampleRow
}

type runRow struct {
	ID          string
	Scene       string
	CreatedAt   string
	Dt          float64
	Duration    float64
	Steps       int
	Bodies      int
	FinalEnergy float64
	PeakEnergy  float64
}

type sampleRow struct {
	RunID  string
	Step   uint64
	Time   float64
	Energy float64
}

// RunSummary is one indexed run as returned by queries.
type RunSummary struct {
	ID          string
	Scene       string
	Timestamp   time.Time
	Dt          float64
	Duration    float64
	Steps       int
	Bodies      int
	FinalEnergy float64
	PeakEnergy  float64
}

func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	ix := &Index{
		db: db,
		ch: make(chan indexReq, 4096),
	}
	ix.wg.Add(1)
	go func() {
		defer ix.wg.Done()
		ix.loop()
	}()
	return ix, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style writes of the indexer.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scene TEXT NOT NULL,
			created_at TEXT NOT NULL,
			dt REAL NOT NULL,
			duration REAL NOT NULL,
			steps INTEGER NOT NULL,
			bodies INTEGER NOT NULL,
			final_energy REAL NOT NULL DEFAULT 0,
			peak_energy REAL NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`,
		`CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			time REAL NOT NULL,
			energy REAL NOT NULL,
			PRIMARY KEY (run_id, step)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) loop() {
	ctx := context.Background()

	insertRun, _ := ix.db.Prepare(`INSERT OR REPLACE INTO runs(id,scene,created_at,dt,duration,steps,bodies,final_energy,peak_energy) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertSample, _ := ix.db.Prepare(`INSERT OR REPLACE INTO samples(run_id,step,time,energy) VALUES(?,?,?,?)`)
	defer func() {
		if insertRun != nil {
			_ = insertRun.Close()
		}
		if insertSample != nil {
			_ = insertSample.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 512
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := ix.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range ix.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqRun:
			if insertRun == nil {
				continue
			}
			run := r.run
			if _, err := tx.Stmt(insertRun).Exec(
				run.ID, run.Scene, run.CreatedAt,
				run.Dt, run.Duration, run.Steps, run.Bodies,
				run.FinalEnergy, run.PeakEnergy,
			); err != nil {
				rollback()
				continue
			}
			opCount++
		case reqSample:
			if insertSample == nil {
				continue
			}
			sm := r.sample
			if _, err := tx.Stmt(insertSample).Exec(sm.RunID, int64(sm.Step), sm.Time, sm.Energy); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}

func (ix *Index) Close() error {
	var err error
	ix.once.Do(func() {
		ix.closed.Store(true)
		close(ix.ch)
		ix.wg.Wait()
		err = ix.db.Close()
	})
	return err
}

// RecordRun enqueues a run summary. The write is dropped if the indexer
// falls behind; the run directories remain the source of truth.
func (ix *Index) RecordRun(meta *RunMetadata) {
	if ix == nil || ix.closed.Load() {
		return
	}
	r := runRow{
		ID:          meta.ID,
		Scene:       meta.Scene,
		CreatedAt:   meta.Timestamp.UTC().Format(time.RFC3339Nano),
		Dt:          meta.Dt,
		Duration:    meta.Duration,
		Steps:       meta.Steps,
		Bodies:      len(meta.Bodies),
		FinalEnergy: meta.Metrics["final_energy"],
		PeakEnergy:  meta.Metrics["peak_energy"],
	}
	select {
	case ix.ch <- indexReq{kind: reqRun, run: r}:
	default:
	}
}

// RecordSample enqueues one frame's energy reading.
func (ix *Index) RecordSample(runID string, fr *Frame) {
	if ix == nil || ix.closed.Load() {
		return
	}
	r := sampleRow{RunID: runID, Step: fr.Step, Time: fr.Time, Energy: fr.Energy}
	select {
	case ix.ch <- indexReq{kind: reqSample, sample: r}:
	default:
	}
}

// Runs returns up to limit indexed runs, newest first.
func (ix *Index) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := ix.db.Query(
		`SELECT id,scene,created_at,dt,duration,steps,bodies,final_energy,peak_energy
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r         RunSummary
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Scene, &createdAt, &r.Dt, &r.Duration,
			&r.Steps, &r.Bodies, &r.FinalEnergy, &r.PeakEnergy); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// EnergyProfile returns a run's sampled energy readings in step order.
func (ix *Index) EnergyProfile(runID string) ([]float64, error) {
	rows, err := ix.db.Query(`SELECT energy FROM samples WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var e float64
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
