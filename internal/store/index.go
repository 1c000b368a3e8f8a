package store

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/pkg/errors"
)

// Index is a queryable SQLite cache over the run records WriteRun persists
// as JSON, grounded on the teacher's internal/database/db_manager.go use
// of the same pure-Go driver for a local result cache. The JSON file
// remains the source of truth; Index is an index over it, not a
// replacement for it.
type Index struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id              TEXT PRIMARY KEY,
	benchmark           TEXT NOT NULL,
	architecture        TEXT NOT NULL,
	mode                TEXT NOT NULL,
	candidate_selection TEXT NOT NULL,
	rewriting_strategy  TEXT NOT NULL,
	size_factor         INTEGER NOT NULL,
	ok                  INTEGER NOT NULL,
	cost                REAL,
	num_cells           INTEGER,
	num_instructions    INTEGER,
	validation_success  INTEGER,
	reason              TEXT,
	timestamp           TEXT NOT NULL
);
`

// OpenIndex opens (creating if necessary) the SQLite index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "store: open index")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: ping index")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: create schema")
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Insert records rec as one row in the index.
func (idx *Index) Insert(rec Record) error {
	ok := 0
	var cost sql.NullFloat64
	var numCells, numInstr sql.NullInt64
	var validation sql.NullBool
	var reason sql.NullString

	if rec.Ok != nil {
		ok = 1
		cost = sql.NullFloat64{Float64: float64(rec.Ok.Stats.Cost), Valid: true}
		numCells = sql.NullInt64{Int64: int64(rec.Ok.Stats.NumCells), Valid: true}
		numInstr = sql.NullInt64{Int64: int64(rec.Ok.Stats.NumInstructions), Valid: true}
		validation = sql.NullBool{Bool: rec.Ok.Stats.ValidationSuccess, Valid: true}
	}
	if rec.Err != nil {
		reason = sql.NullString{String: string(rec.Err.Kind), Valid: true}
	}

	_, err := idx.db.Exec(`
		INSERT INTO runs (run_id, benchmark, architecture, mode, candidate_selection,
			rewriting_strategy, size_factor, ok, cost, num_cells, num_instructions,
			validation_success, reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Benchmark.Name, rec.Benchmark.Architecture, rec.Benchmark.Mode,
		rec.Benchmark.CandidateSelection, rec.Benchmark.RewritingStrategy, rec.Benchmark.SizeFactor,
		ok, cost, numCells, numInstr, validation, reason, rec.Timestamp.Format(timeLayout))
	if err != nil {
		return errors.Wrap(err, "store: insert run")
	}
	return nil
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryRow is one row of a benchmark's run history, as queried by
// cmd/lime history.
type HistoryRow struct {
	RunID             string
	Architecture      string
	Mode              string
	Cost              float64
	NumCells          int
	NumInstructions   int
	ValidationSuccess bool
	Reason            string
	Timestamp         string
}

// History returns every recorded run of benchmark, most recent first.
func (idx *Index) History(benchmark string, limit int) ([]HistoryRow, error) {
	rows, err := idx.db.Query(`
		SELECT run_id, architecture, mode, ok, cost, num_cells, num_instructions,
			validation_success, reason, timestamp
		FROM runs WHERE benchmark = ? ORDER BY timestamp DESC LIMIT ?`, benchmark, limit)
	if err != nil {
		return nil, errors.Wrap(err, "store: query history")
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		var ok int
		var cost sql.NullFloat64
		var numCells, numInstr sql.NullInt64
		var validation sql.NullBool
		var reason sql.NullString
		if err := rows.Scan(&h.RunID, &h.Architecture, &h.Mode, &ok, &cost, &numCells,
			&numInstr, &validation, &reason, &h.Timestamp); err != nil {
			return nil, errors.Wrap(err, "store: scan history row")
		}
		h.Cost = cost.Float64
		h.NumCells = int(numCells.Int64)
		h.NumInstructions = int(numInstr.Int64)
		h.ValidationSuccess = validation.Bool
		if ok == 0 {
			h.Reason = reason.String
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
