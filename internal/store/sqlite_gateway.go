package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SADD1990/Taskmanager/internal/model"
)

// SQLiteGateway is an alternate Persistence Gateway backed by a local sqlite
// database. It carries the same snapshot semantics as the JSON file: Save
// replaces the stored state wholesale inside one transaction.
type SQLiteGateway struct {
	db *sql.DB
}

func NewSQLiteGateway(dataDir string) (*SQLiteGateway, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, "ledger.db")

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	g := &SQLiteGateway{db: db}
	if err := g.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return g, nil
}

func (g *SQLiteGateway) Close() error {
	return g.db.Close()
}

func (g *SQLiteGateway) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		client_id INTEGER NOT NULL,
		client_name TEXT DEFAULT '',
		type TEXT NOT NULL,
		price REAL NOT NULL DEFAULT 0,
		prepaid REAL NOT NULL DEFAULT 0,
		deadline TEXT NOT NULL,
		status TEXT NOT NULL,
		last_status_update TEXT
	);

	CREATE TABLE IF NOT EXISTS counters (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_id);
	`
	_, err := g.db.Exec(schema)
	return err
}

func (g *SQLiteGateway) Load() (model.Snapshot, error) {
	snap := model.Snapshot{Clients: []model.Client{}, Tasks: []model.Task{}}

	rows, err := g.db.Query(`SELECT id, name, phone FROM clients ORDER BY id`)
	if err != nil {
		return snap, fmt.Errorf("load clients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return snap, err
		}
		snap.Clients = append(snap.Clients, c)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	taskRows, err := g.db.Query(`
		SELECT id, title, client_id, client_name, type, price, prepaid,
			deadline, status, last_status_update
		FROM tasks ORDER BY id`)
	if err != nil {
		return snap, fmt.Errorf("load tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var t model.Task
		var deadline string
		var lastUpdate sql.NullString
		if err := taskRows.Scan(&t.ID, &t.Title, &t.ClientID, &t.ClientName,
			&t.Type, &t.Price, &t.Prepaid, &deadline, &t.Status, &lastUpdate); err != nil {
			return snap, err
		}
		t.Deadline, _ = time.Parse(time.RFC3339, deadline)
		if lastUpdate.Valid && lastUpdate.String != "" {
			if ts, err := time.Parse(time.RFC3339, lastUpdate.String); err == nil {
				t.LastStatusUpdate = &ts
			}
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return snap, err
	}

	counters, err := g.db.Query(`SELECT key, value FROM counters`)
	if err != nil {
		return snap, fmt.Errorf("load counters: %w", err)
	}
	defer counters.Close()
	for counters.Next() {
		var key string
		var value int
		if err := counters.Scan(&key, &value); err != nil {
			return snap, err
		}
		switch key {
		case "lastClientId":
			snap.LastClientID = value
		case "lastTaskId":
			snap.LastTaskID = value
		}
	}
	if err := counters.Err(); err != nil {
		return snap, err
	}

	snap.Normalize()
	return snap, nil
}

func (g *SQLiteGateway) Save(snap model.Snapshot) error {
	tx, err := g.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM clients`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return err
	}

	for _, c := range snap.Clients {
		if _, err := tx.Exec(
			`INSERT INTO clients (id, name, phone) VALUES (?, ?, ?)`,
			c.ID, c.Name, c.Phone,
		); err != nil {
			return err
		}
	}
	for _, t := range snap.Tasks {
		if _, err := tx.Exec(`
			INSERT INTO tasks (id, title, client_id, client_name, type, price,
				prepaid, deadline, status, last_status_update)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.ClientID, t.ClientName, t.Type, t.Price,
			t.Prepaid, t.Deadline.Format(time.RFC3339), t.Status,
			formatOptionalTime(t.LastStatusUpdate),
		); err != nil {
			return err
		}
	}

	for key, value := range map[string]int{
		"lastClientId": snap.LastClientID,
		"lastTaskId":   snap.LastTaskID,
	} {
		if _, err := tx.Exec(`
			INSERT INTO counters (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
