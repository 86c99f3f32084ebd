package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/phage-sim/phage-sim/sim"
	"github.com/phage-sim/phage-sim/sim/trace"
)

// DefaultBatchSize is the number of observations written per transaction.
const DefaultBatchSize = 5000

// RunRow is one row of the runs table.
type RunRow struct {
	ID         string  `db:"id"`
	Seed       int64   `db:"seed"`
	ConfigJSON string  `db:"config_json"`
	StartedAt  string  `db:"started_at"`
	FinishedAt *string `db:"finished_at"`
	Outcome    *string `db:"outcome"`
	Clock      float64 `db:"clock"`
	Steps      int64   `db:"steps"`
	Iterations int64   `db:"iterations"`
}

// ObservationRow is one row of the observations table.
type ObservationRow struct {
	RunID           string  `db:"run_id"`
	Seq             int64   `db:"seq"`
	Time            float64 `db:"time"`
	Kind            string  `db:"kind"`
	Phages          int     `db:"phages"`
	Bacteria        int     `db:"bacteria"`
	BacteriaSurface float64 `db:"bacteria_surface"`
	BacteriaEnzyme  float64 `db:"bacteria_enzyme"`
	PhageSurface    float64 `db:"phage_surface"`
	PhageEnzyme     float64 `db:"phage_enzyme"`
	InfectedPercent float64 `db:"infected_percent"`
}

// SQLiteStore records a run and its observation stream in SQLite.
// Observations are buffered and written in batches; Finish or Close flushes.
type SQLiteStore struct {
	conn      *sqlx.DB
	runID     string
	batchSize int
	pending   []trace.Observation
	seq       int64
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &SQLiteStore{conn: conn, batchSize: DefaultBatchSize}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

func (st *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		outcome TEXT,
		clock REAL NOT NULL DEFAULT 0,
		steps INTEGER NOT NULL DEFAULT 0,
		iterations INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS observations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		time REAL NOT NULL,
		kind TEXT NOT NULL,
		phages INTEGER NOT NULL,
		bacteria INTEGER NOT NULL,
		bacteria_surface REAL NOT NULL,
		bacteria_enzyme REAL NOT NULL,
		phage_surface REAL NOT NULL,
		phage_enzyme REAL NOT NULL,
		infected_percent REAL NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// SetBatchSize changes how many observations are buffered per transaction.
func (st *SQLiteStore) SetBatchSize(n int) {
	if n > 0 {
		st.batchSize = n
	}
}

// BeginRun inserts a runs row for cfg and returns its generated ID. Later
// observations are attributed to this run.
func (st *SQLiteStore) BeginRun(cfg sim.Config) (string, error) {
	if err := st.flush(); err != nil {
		return "", err
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	id := uuid.NewString()
	_, err = st.conn.Exec(`INSERT INTO runs (id, seed, config_json, started_at) VALUES (?, ?, ?, ?)`,
		id, cfg.Seed, string(cfgJSON), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	st.runID = id
	st.seq = 0
	logrus.Infof("Recording run %s", id)
	return id, nil
}

// RunID returns the current run, or "" before BeginRun.
func (st *SQLiteStore) RunID() string {
	return st.runID
}

// Observe buffers obs and writes a batch once the buffer is full.
func (st *SQLiteStore) Observe(obs trace.Observation) error {
	if st.runID == "" {
		return fmt.Errorf("observe: no run started")
	}
	st.pending = append(st.pending, obs)
	if len(st.pending) >= st.batchSize {
		return st.flush()
	}
	return nil
}

func (st *SQLiteStore) flush() error {
	if len(st.pending) == 0 {
		return nil
	}
	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO observations
		(run_id, seq, time, kind, phages, bacteria,
		 bacteria_surface, bacteria_enzyme, phage_surface, phage_enzyme, infected_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seq := st.seq
	for _, o := range st.pending {
		seq++
		if _, err := stmt.Exec(st.runID, seq, o.Time, o.Kind, o.Phages, o.Bacteria,
			o.BacteriaSurface, o.BacteriaEnzyme, o.PhageSurface, o.PhageEnzyme, o.InfectedPercent); err != nil {
			return fmt.Errorf("insert observation %d: %w", seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	st.seq = seq
	st.pending = st.pending[:0]
	return nil
}

// Finish flushes pending observations and stores the run's result.
func (st *SQLiteStore) Finish(res sim.RunResult) error {
	if err := st.flush(); err != nil {
		return fmt.Errorf("flush observations: %w", err)
	}
	_, err := st.conn.Exec(`UPDATE runs SET finished_at = ?, outcome = ?, clock = ?, steps = ?, iterations = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), res.Outcome.String(), res.Clock, res.Steps, res.Iterations, st.runID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (st *SQLiteStore) Runs() ([]RunRow, error) {
	var runs []RunRow
	err := st.conn.Select(&runs, "SELECT * FROM runs ORDER BY started_at, id")
	return runs, err
}

// Observations returns the recorded observations of one run in order.
func (st *SQLiteStore) Observations(runID string) ([]ObservationRow, error) {
	var rows []ObservationRow
	err := st.conn.Select(&rows, "SELECT * FROM observations WHERE run_id = ? ORDER BY seq", runID)
	return rows, err
}

// Close flushes pending observations and closes the database.
func (st *SQLiteStore) Close() error {
	flushErr := st.flush()
	if err := st.conn.Close(); err != nil {
		return err
	}
	return flushErr
}
