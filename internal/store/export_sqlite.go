package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"
)

// ExportSQLite dumps the whole snapshot into a SQLite database at path,
// replacing any previous export in full. The database is a read-side
// artifact for ad-hoc querying; the JSON snapshot stays the source of
// truth and nothing ever reads the export back.
func (s *Store) ExportSQLite(ctx context.Context, path string) error {
	db, err := openExportDB(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"sessions", "plan_items", "tasks", "meta"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	lastFocus := ""
	if s.doc.Meta.LastFocusDate != nil {
		lastFocus = *s.doc.Meta.LastFocusDate
	}
	peopleJSON, _ := json.Marshal(s.doc.Meta.People)
	labelsJSON, _ := json.Marshal(s.doc.Meta.Labels)
	metaRows := [][2]string{
		{"last_focus_date", lastFocus},
		{"people_json", string(peopleJSON)},
		{"labels_json", string(labelsJSON)},
		{"exported_at", time.Now().UTC().Format(time.RFC3339)},
	}
	for _, kv := range metaRows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	for _, t := range s.doc.Tasks {
		raw, _ := json.Marshal(t)
		labels, _ := json.Marshal(t.Labels)
		completed := ""
		if t.CompletedAt != nil {
			completed = *t.CompletedAt
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(
			id, title, type, priority, who_asked, assignee,
			start_date, deadline, status, focus,
			created_at, completed_at, description,
			labels_json, time_spent_minutes, json
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, string(t.Type), string(t.Priority), t.WhoAsked, t.Assignee,
			t.StartDate, t.Deadline, string(t.Status), boolToInt(t.Focus),
			t.CreatedAt, completed, t.Description,
			string(labels), t.TimeSpentMinutes, string(raw),
		); err != nil {
			return err
		}

		for _, item := range t.Plan {
			completedAt := ""
			if item.CompletedAt != nil {
				completedAt = *item.CompletedAt
			}
			completedBy := ""
			if item.CompletedBy != nil {
				completedBy = *item.CompletedBy
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO plan_items(id, task_id, text, completed, completed_at, completed_by) VALUES(?, ?, ?, ?, ?, ?)`,
				item.ID, t.ID, item.Text, boolToInt(item.Completed), completedAt, completedBy); err != nil {
				return err
			}
		}
		for _, ses := range t.Sessions {
			items, _ := json.Marshal(ses.PlanItems)
			if _, err := tx.ExecContext(ctx, `INSERT INTO sessions(id, task_id, timestamp, minutes, note, plan_items_json) VALUES(?, ?, ?, ?, ?, ?)`,
				ses.ID, t.ID, ses.Timestamp, ses.Minutes, ses.Note, string(items)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func openExportDB(ctx context.Context, path string) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateExportDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateExportDB(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			priority TEXT NOT NULL,
			who_asked TEXT NOT NULL,
			assignee TEXT NOT NULL,
			start_date TEXT NOT NULL,
			deadline TEXT NOT NULL,
			status TEXT NOT NULL,
			focus INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			description TEXT NOT NULL,
			labels_json TEXT NOT NULL,
			time_spent_minutes INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline);`,
		`CREATE TABLE IF NOT EXISTS plan_items (
			id TEXT PRIMARY KEY,
			task_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			completed_by TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_plan_items_task ON plan_items(task_id);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			task_id INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			minutes INTEGER NOT NULL,
			note TEXT NOT NULL,
			plan_items_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_task ON sessions(task_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON sessions(timestamp);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
