package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/column2pdf/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "column2pdf.db"

// ErrAmbiguousRunID is returned when a run ID prefix matches several runs.
var ErrAmbiguousRunID = errors.New("run ID prefix matches more than one run")

// HarvestDB stores collection runs and export outcomes.
type HarvestDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HarvestDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HarvestDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HarvestDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run collect or export first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
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

	hdb := &HarvestDB{
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
func (h *HarvestDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HarvestDB) Path() string {
	return h.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (h *HarvestDB) createTables() error {
	schema := `
	-- One row per collection run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		start_url TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		termination TEXT NOT NULL,
		url_count INTEGER NOT NULL DEFAULT 0,
		pages_visited INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- URLs of a run in discovery order
	CREATE TABLE IF NOT EXISTS run_urls (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	-- Latest export outcome per article
	CREATE TABLE IF NOT EXISTS exports (
		url TEXT PRIMARY KEY,
		file_path TEXT,
		title TEXT,
		published TEXT,
		status TEXT NOT NULL,
		failed_step TEXT,
		error TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exports_status ON exports(status);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun stores result and its URLs under id, replacing a run with the
// same id. An empty id gets a fresh one. The id is returned.
func (h *HarvestDB) SaveRun(ctx context.Context, id string, result *model.CrawlResult) (string, error) {
	if id == "" {
		id = NewRunID()
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_urls WHERE run_id = ?`, id); err != nil {
		return "", fmt.Errorf("failed to clear run urls: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, start_url, started_at, finished_at, termination, url_count, pages_visited, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		start_url = excluded.start_url,
		started_at = excluded.started_at,
		finished_at = excluded.finished_at,
		termination = excluded.termination,
		url_count = excluded.url_count,
		pages_visited = excluded.pages_visited,
		error = excluded.error
	`,
		id,
		result.StartURL,
		formatTimestamp(result.StartedAt),
		formatTimestamp(result.FinishedAt),
		result.Termination.String(),
		len(result.URLs),
		result.PagesVisited,
		nullString(result.ErrorMessage),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_urls (run_id, position, url) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare url insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range result.URLs {
		if _, err := stmt.ExecContext(ctx, id, i, u); err != nil {
			return "", fmt.Errorf("failed to save url %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (h *HarvestDB) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	query := `
	SELECT id, start_url, started_at, finished_at, termination, url_count, pages_visited, error
	FROM runs
	ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by id or by a unique id prefix.
// It returns nil, nil when nothing matches.
func (h *HarvestDB) GetRun(ctx context.Context, idOrPrefix string) (*model.RunRecord, error) {
	if idOrPrefix == "" {
		return nil, nil
	}

	rows, err := h.db.QueryContext(ctx, `
	SELECT id, start_url, started_at, finished_at, termination, url_count, pages_visited, error
	FROM runs
	WHERE id = ? OR substr(id, 1, ?) = ?
	ORDER BY id = ? DESC
	LIMIT 2
	`, idOrPrefix, len(idOrPrefix), idOrPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []*model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, nil
	case found[0].ID == idOrPrefix || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, idOrPrefix)
	}
}

// GetRunURLs returns the URLs of a run in discovery order.
func (h *HarvestDB) GetRunURLs(ctx context.Context, id string) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT url FROM run_urls
	WHERE run_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run urls: %w", err)
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row.
func scanRun(row rowScanner) (*model.RunRecord, error) {
	var (
		run         model.RunRecord
		startedAt   string
		finishedAt  string
		termination string
		errMsg      sql.NullString
	)
	if err := row.Scan(&run.ID, &run.StartURL, &startedAt, &finishedAt,
		&termination, &run.URLCount, &run.PagesVisited, &errMsg); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	run.Error = errMsg.String

	term, err := model.ParseTermination(termination)
	if err != nil {
		term = model.TerminationUnknown
	}
	run.Termination = term

	return &run, nil
}

// RecordExport stores the outcome of exporting one URL.
// The latest outcome replaces any earlier one.
func (h *HarvestDB) RecordExport(ctx context.Context, result model.ExportResult) error {
	ts := result.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := h.db.ExecContext(ctx, `
	INSERT INTO exports (url, file_path, title, published, status, failed_step, error, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		file_path = excluded.file_path,
		title = excluded.title,
		published = excluded.published,
		status = excluded.status,
		failed_step = excluded.failed_step,
		error = excluded.error,
		timestamp = excluded.timestamp
	`,
		result.URL,
		nullString(result.FilePath),
		nullString(result.Title),
		nullString(result.Published),
		string(result.Status),
		nullString(result.FailedStep),
		nullString(result.ErrorMessage),
		formatTimestamp(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// IsExported reports whether the latest export of url produced a PDF.
func (h *HarvestDB) IsExported(ctx context.Context, url string) (bool, error) {
	var status string
	err := h.db.QueryRowContext(ctx, `SELECT status FROM exports WHERE url = ?`, url).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query export: %w", err)
	}
	return status == string(model.ExportStatusSaved), nil
}

// ListExports returns stored export outcomes, newest first.
// An empty status returns every outcome.
func (h *HarvestDB) ListExports(ctx context.Context, status model.ExportStatus) ([]model.ExportResult, error) {
	query := `
	SELECT url, file_path, title, published, status, failed_step, error, timestamp
	FROM exports
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY timestamp DESC, url"

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var results []model.ExportResult
	for rows.Next() {
		var (
			r                          model.ExportResult
			filePath, title, published sql.NullString
			failedStep, errMsg         sql.NullString
			statusText, timestamp      string
		)
		if err := rows.Scan(&r.URL, &filePath, &title, &published, &statusText,
			&failedStep, &errMsg, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		r.FilePath = filePath.String
		r.Title = title.String
		r.Published = published.String
		r.Status = model.ExportStatus(statusText)
		r.FailedStep = failedStep.String
		r.ErrorMessage = errMsg.String
		r.Timestamp = parseTimestamp(timestamp)
		results = append(results, r)
	}
	return results, rows.Err()
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// formatTimestamp renders t in UTC with nanoseconds so that text ordering
// matches time ordering.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampLayout is RFC 3339 with a fixed-width fraction.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite CURRENT_TIMESTAMP
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
