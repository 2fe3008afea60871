// Package journal records run and task outcomes in an embedded SQLite
// database for post-run forensics.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/scrapework/harvester/internal/crawl"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS runs (
    run_id      TEXT PRIMARY KEY,
    pipeline    TEXT NOT NULL,
    started_at  TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    status      TEXT NOT NULL DEFAULT 'running',
    records     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS task_outcomes (
    outcome_id  INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL,
    stage       TEXT NOT NULL,
    target      TEXT NOT NULL,
    attempts    INTEGER NOT NULL,
    status      TEXT NOT NULL,
    error_text  TEXT,
    resolved_at TIMESTAMP NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON task_outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_stage ON task_outcomes(run_id, stage);
`

// Journal persists one row per run and one row per terminal task outcome.
// It implements crawl.Observer so the stage orchestrator can feed it
// directly.
type Journal struct {
	db     *sql.DB
	runID  string
	clock  crawl.Clock
	logger *zap.Logger
}

// Open opens or creates the journal database at path and ensures the schema
// exists.
func Open(path, runID string, clk crawl.Clock, logger *zap.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{
		db:     db,
		runID:  runID,
		clock:  clk,
		logger: logger,
	}, nil
}

// StartRun inserts the run row.
func (j *Journal) StartRun(ctx context.Context, pipeline string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, pipeline, started_at)
		VALUES (?, ?, ?)
	`, j.runID, pipeline, j.clock.Now())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the run row with its terminal status and record count.
func (j *Journal) FinishRun(ctx context.Context, status string, records int) error {
	_, err := j.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, records = ?
		WHERE run_id = ?
	`, j.clock.Now(), status, records, j.runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// TaskResolved implements crawl.Observer. Journal write failures are logged,
// never propagated; bookkeeping must not fail the crawl.
func (j *Journal) TaskResolved(outcome crawl.TaskOutcome) {
	errText := ""
	if outcome.Err != nil {
		errText = outcome.Err.Error()
	}
	_, err := j.db.Exec(`
		INSERT INTO task_outcomes (run_id, stage, target, attempts, status, error_text, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, j.runID, outcome.Task.Stage, outcome.Task.Target, outcome.Attempts,
		string(outcome.State), errText, j.clock.Now())
	if err != nil {
		j.logger.Warn("journal write failed",
			zap.String("target", outcome.Task.Target),
			zap.Error(err),
		)
	}
}

// Outcomes returns the recorded outcome rows for one stage of this run,
// oldest first.
func (j *Journal) Outcomes(ctx context.Context, stage string) ([]Outcome, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT stage, target, attempts, status, COALESCE(error_text, ''), resolved_at
		FROM task_outcomes
		WHERE run_id = ? AND stage = ?
		ORDER BY outcome_id
	`, j.runID, stage)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.Stage, &o.Target, &o.Attempts, &o.Status, &o.ErrorText, &o.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

// Outcome is one persisted task outcome row.
type Outcome struct {
	Stage      string
	Target     string
	Attempts   int
	Status     string
	ErrorText  string
	ResolvedAt time.Time
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
