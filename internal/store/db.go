package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"go-log-analyzer/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the SQLite database and bootstraps the schema.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	progressTable := `
	CREATE TABLE IF NOT EXISTS stage_progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		status TEXT,
		started_at DATETIME,
		ended_at DATETIME,
		lines INTEGER
	);
	`
	reportTable := `
	CREATE TABLE IF NOT EXISTS reports (
		run_id TEXT PRIMARY KEY,
		kind TEXT,
		file TEXT,
		archived BOOLEAN,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, progressTable, reportTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CloseDB releases the database handle. Safe to call when InitDB was
// never run.
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveRun stores a new analysis run with its spec.
func SaveRun(runID string, spec model.AnalysisJobSpec) error {
	if db == nil {
		return nil
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, "pending", now, now)
	return err
}

// UpdateRunStatus moves a run through its lifecycle states.
func UpdateRunStatus(runID string, status string) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, runErr error) error {
	if db == nil || runErr == nil {
		return nil
	}
	_, err := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), time.Now().UTC())
	return err
}

// ListRuns returns all runs with basic info, newest first.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches a run's full spec and status.
func GetRun(runID string) (map[string]interface{}, error) {
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        runID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// GetRunSpec fetches just the stored job spec for a run.
func GetRunSpec(runID string) (model.AnalysisJobSpec, error) {
	var spec model.AnalysisJobSpec
	var specJSON string

	err := db.QueryRow(`SELECT spec FROM runs WHERE id = ?`, runID).Scan(&specJSON)
	if err != nil {
		return spec, err
	}
	err = json.Unmarshal([]byte(specJSON), &spec)
	return spec, err
}

// GetRunErrors returns all recorded errors for a run.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}

// SaveStageProgress records a stage transition for a run.
func SaveStageProgress(runID, stage, status string, startedAt, endedAt *time.Time, lines int64) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`INSERT INTO stage_progress (run_id, stage, status, started_at, ended_at, lines) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt, endedAt, lines)
	return err
}

// GetStageProgress returns the stage transitions for a run, oldest first.
func GetStageProgress(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT stage, status, started_at, ended_at, lines FROM stage_progress WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []map[string]interface{}
	for rows.Next() {
		var stage, status string
		var startedAt, endedAt sql.NullTime
		var lines int64
		if err := rows.Scan(&stage, &status, &startedAt, &endedAt, &lines); err != nil {
			return nil, err
		}
		entry := map[string]interface{}{
			"stage":  stage,
			"status": status,
			"lines":  lines,
		}
		if startedAt.Valid {
			entry["startedAt"] = startedAt.Time
		}
		if endedAt.Valid {
			entry["endedAt"] = endedAt.Time
		}
		stages = append(stages, entry)
	}
	return stages, rows.Err()
}

// SaveReportMeta records where a run's report ended up.
func SaveReportMeta(runID, kind, file string, archived bool) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO reports (run_id, kind, file, archived, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, kind, file, archived, time.Now().UTC())
	return err
}

// GetReportMeta fetches report location info for a run.
func GetReportMeta(runID string) (map[string]interface{}, error) {
	var kind, file string
	var archived bool
	var createdAt time.Time

	err := db.QueryRow(`SELECT kind, file, archived, created_at FROM reports WHERE run_id = ?`, runID).
		Scan(&kind, &file, &archived, &createdAt)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"runId":     runID,
		"kind":      kind,
		"file":      file,
		"archived":  archived,
		"createdAt": createdAt,
	}, nil
}
