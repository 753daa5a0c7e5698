package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seoscan/seoscan/internal/model"
)

// HistoryDB provides SQLite-based storage for scan runs and their per-URL
// outcomes.
//
// Design decision: We use a single database file for all runs rather than
// one per run. History queries span runs (all outcomes for a URL, recent
// runs), and a single file keeps backup and cleanup trivial.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned instead of creating an empty one.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "seoscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents the driver from creating a new file when the
	// database is required to exist.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one record per scan invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		output_dir TEXT NOT NULL,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	-- Outcomes store the per-URL results of each run
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		success INTEGER NOT NULL,
		report_path TEXT,
		error TEXT,
		status_code INTEGER,
		load_time_ms INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_url ON outcomes(url);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord summarizes one stored scan run.
type RunRecord struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Timestamp is when the run was recorded.
	Timestamp time.Time

	// OutputDir is where the run wrote its report files.
	OutputDir string

	// Total, Succeeded, and Failed count the run's URLs by outcome.
	Total     int
	Succeeded int
	Failed    int
}

// OutcomeRecord is one stored per-URL outcome.
type OutcomeRecord struct {
	ID         int64
	RunID      int64
	URL        string
	Success    bool
	ReportPath string
	Error      string
	StatusCode *int
	LoadTime   *time.Duration
}

// SaveRun stores a run and all its outcomes in one transaction and returns
// the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, outputDir string, outcomes []model.Outcome) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	succeeded, failed := model.Tally(outcomes)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (output_dir, total, succeeded, failed) VALUES (?, ?, ?, ?)`,
		outputDir, len(outcomes), succeeded, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO outcomes (run_id, url, success, report_path, error, status_code, load_time_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		var statusCode sql.NullInt64
		if o.StatusCode != nil {
			statusCode = sql.NullInt64{Int64: int64(*o.StatusCode), Valid: true}
		}
		var loadTimeMS sql.NullInt64
		if o.LoadTime != nil {
			loadTimeMS = sql.NullInt64{Int64: o.LoadTime.Milliseconds(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, o.URL, o.Success, o.ReportPath, o.Err, statusCode, loadTimeMS); err != nil {
			return 0, fmt.Errorf("failed to insert outcome for %s: %w", o.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, most recent first. A limit of 0 returns all.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, timestamp, output_dir, total, succeeded, failed
	FROM runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]interface{}, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var timestamp string
		if err := rows.Scan(&run.ID, &timestamp, &run.OutputDir, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Timestamp = parseTimestamp(timestamp)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListOutcomes returns all stored outcomes for a URL, most recent run first.
func (hdb *HistoryDB) ListOutcomes(ctx context.Context, url string) ([]OutcomeRecord, error) {
	query := `
	SELECT id, run_id, url, success, report_path, error, status_code, load_time_ms
	FROM outcomes
	WHERE url = ?
	ORDER BY run_id DESC, id ASC
	`

	rows, err := hdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var results []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		var reportPath, errMsg sql.NullString
		var statusCode, loadTimeMS sql.NullInt64

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.URL, &rec.Success, &reportPath, &errMsg, &statusCode, &loadTimeMS); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		rec.ReportPath = reportPath.String
		rec.Error = errMsg.String
		if statusCode.Valid {
			code := int(statusCode.Int64)
			rec.StatusCode = &code
		}
		if loadTimeMS.Valid {
			d := time.Duration(loadTimeMS.Int64) * time.Millisecond
			rec.LoadTime = &d
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}

// ListURLs returns the distinct URLs ever scanned, sorted.
func (hdb *HistoryDB) ListURLs(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT url FROM outcomes ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite returns timestamps in different formats depending on
// configuration; unparseable values fall back to the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
