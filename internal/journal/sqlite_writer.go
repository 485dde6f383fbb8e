package journal

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const turnSchema = `
CREATE TABLE IF NOT EXISTS turns (
	turn_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	cash INTEGER NOT NULL,
	reputation INTEGER NOT NULL,
	staff_count INTEGER NOT NULL,
	scene TEXT NOT NULL,
	action TEXT NOT NULL,
	scene_text TEXT NOT NULL,
	image_prompt TEXT NOT NULL,
	image_url TEXT NOT NULL,
	model_used TEXT NOT NULL,
	fallback INTEGER NOT NULL,
	failure_category TEXT NOT NULL,
	ts TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, ts);
`

const insertTurn = `
INSERT INTO turns (
	turn_id, session_id, day, cash, reputation, staff_count, scene, action,
	scene_text, image_prompt, image_url, model_used, fallback, failure_category, ts
) VALUES (
	:turn_id, :session_id, :day, :cash, :reputation, :staff_count, :scene, :action,
	:scene_text, :image_prompt, :image_url, :model_used, :fallback, :failure_category, :ts
)`

// SQLiteWriter appends turn rows to a SQLite journal. The journal is an
// export only; the simulation never reads it back.
type SQLiteWriter struct {
	conn *sqlx.DB
}

// NewSQLiteWriter opens or creates a SQLite journal at path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := conn.Exec(turnSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal db: %w", err)
	}
	return &SQLiteWriter{conn: conn}, nil
}

// WriteTurn inserts a single turn row.
func (w *SQLiteWriter) WriteTurn(row TurnRow) error {
	if _, err := w.conn.NamedExec(insertTurn, row); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// WriteTurns inserts rows in one transaction.
func (w *SQLiteWriter) WriteTurns(rows []TurnRow) error {
	tx, err := w.conn.Beginx()
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := tx.NamedExec(insertTurn, r); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert turn: %w", err)
		}
	}
	return tx.Commit()
}

// Turns returns the rows of one session in insertion order.
func (w *SQLiteWriter) Turns(sessionID string) ([]TurnRow, error) {
	var rows []TurnRow
	err := w.conn.Select(&rows, `SELECT * FROM turns WHERE session_id = ? ORDER BY rowid`, sessionID)
	return rows, err
}

// Close closes the database connection.
func (w *SQLiteWriter) Close() error {
	return w.conn.Close()
}
