// Package persistence provides SQLite-based storage for battle reports.
// Only finished battles are stored; there is no mid-battle save format.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexclash/internal/battle"
)

// ErrBattleNotFound is returned when no report exists for an id.
var ErrBattleNotFound = errors.New("battle not found")

// DB wraps a SQLite connection for battle report persistence.
type DB struct {
	conn *sqlx.DB
}

// BattleRecord is one stored battle report.
type BattleRecord struct {
	ID         string              `db:"id" json:"id"`
	Winner     string              `db:"winner" json:"winner"`
	Rounds     int                 `db:"rounds" json:"rounds"`
	Experience int                 `db:"experience" json:"experience"`
	EnemyPower int                 `db:"enemy_power" json:"enemy_power"`
	Loot       string              `db:"loot" json:"loot,omitempty"`
	Summary    string              `db:"summary" json:"summary"`
	UnitsJSON  string              `db:"units_json" json:"-"`
	CreatedAt  int64               `db:"created_at" json:"created_at"`
	Units      []battle.UnitReport `db:"-" json:"units"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS battles (
		id TEXT PRIMARY KEY,
		winner TEXT NOT NULL,
		rounds INTEGER NOT NULL,
		experience INTEGER NOT NULL,
		enemy_power INTEGER NOT NULL,
		loot TEXT NOT NULL,
		summary TEXT NOT NULL,
		units_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS battle_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		battle_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		kind TEXT NOT NULL,
		actor INTEGER NOT NULL,
		target INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_battle_events_battle ON battle_events(battle_id);
	CREATE INDEX IF NOT EXISTS idx_battles_created ON battles(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveBattle stores a finished battle and its combat log. Saving the same
// battle twice replaces the earlier report.
func (db *DB) SaveBattle(r battle.Result) error {
	unitsJSON, err := json.Marshal(r.Units)
	if err != nil {
		return fmt.Errorf("encode units: %w", err)
	}
	id := r.BattleID.String()

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO battles
		(id, winner, rounds, experience, enemy_power, loot, summary, units_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(r.Winner), r.Rounds, r.Experience, r.EnemyPower, string(r.Loot),
		r.Summary(), string(unitsJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save battle: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM battle_events WHERE battle_id = ?", id); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO battle_events
		(battle_id, round, kind, actor, target, amount, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range r.Log {
		if _, err := stmt.Exec(id, e.Round, string(e.Kind), e.Actor, e.Target, e.Amount, e.Text); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("battle report saved", "battle", id, "events", len(r.Log))
	return nil
}

// RecentBattles returns the most recent N battle reports, newest first.
func (db *DB) RecentBattles(limit int) ([]BattleRecord, error) {
	var records []BattleRecord
	err := db.conn.Select(&records,
		`SELECT id, winner, rounds, experience, enemy_power, loot, summary, units_json, created_at
		FROM battles ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if err := records[i].decode(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Battle returns one report by id.
func (db *DB) Battle(id string) (BattleRecord, error) {
	var rec BattleRecord
	err := db.conn.Get(&rec,
		`SELECT id, winner, rounds, experience, enemy_power, loot, summary, units_json, created_at
		FROM battles WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, ErrBattleNotFound
		}
		return rec, err
	}
	return rec, rec.decode()
}

func (r *BattleRecord) decode() error {
	if err := json.Unmarshal([]byte(r.UnitsJSON), &r.Units); err != nil {
		return fmt.Errorf("decode units of %s: %w", r.ID, err)
	}
	return nil
}

// BattleEvents returns the combat log of one battle in order.
func (db *DB) BattleEvents(id string) ([]battle.Entry, error) {
	var events []battle.Entry
	err := db.conn.Select(&events,
		"SELECT round, kind, actor, target, amount, text FROM battle_events WHERE battle_id = ? ORDER BY id",
		id,
	)
	return events, err
}

// CountBattles returns how many reports are stored.
func (db *DB) CountBattles() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM battles")
	return n, err
}

// SaveMeta stores a key-value pair in metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
