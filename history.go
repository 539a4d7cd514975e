package depot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/depot/date"
	_ "modernc.org/sqlite"
)

// History persists daily monitor snapshots in a local SQLite database, so
// that runs can compare today's prices against the last stored close and
// keep an audit trail of alerts.
type History struct {
	db   *sql.DB
	path string
}

const historySchema = `
CREATE TABLE IF NOT EXISTS stock_history (
	date         TEXT NOT NULL,
	ticker       TEXT NOT NULL,
	name         TEXT NOT NULL,
	shares       REAL NOT NULL,
	price        REAL NOT NULL,
	market_value REAL NOT NULL,
	weight       REAL NOT NULL,
	PRIMARY KEY (date, ticker)
);
CREATE TABLE IF NOT EXISTS alerts (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	date     TEXT NOT NULL,
	type     TEXT NOT NULL,
	severity TEXT NOT NULL,
	ticker   TEXT NOT NULL,
	message  TEXT NOT NULL,
	action   TEXT NOT NULL
);
`

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create history dir %q: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("cannot open history %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot reach history %q: %w", path, err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize history schema: %w", err)
	}
	return &History{db: db, path: path}, nil
}

// Close releases the underlying database.
func (h *History) Close() error { return h.db.Close() }

// SaveDay stores one day's holdings, replacing any earlier snapshot of the
// same day so re-runs are idempotent.
func (h *History) SaveDay(day date.Date, holdings []Holding) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("cannot start history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO stock_history
		(date, ticker, name, shares, price, market_value, weight)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, holding := range holdings {
		if _, err := stmt.Exec(
			day.String(),
			holding.Ticker,
			holding.Name,
			holding.Shares.AsFloat(),
			holding.Price.AsFloat(),
			holding.Value.AsFloat(),
			float64(holding.Weight),
		); err != nil {
			return fmt.Errorf("cannot store holding %s: %w", holding.Ticker, err)
		}
	}
	return tx.Commit()
}

// SaveAlerts appends the day's alerts.
func (h *History) SaveAlerts(day date.Date, alerts []Alert) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("cannot start history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO alerts (date, type, severity, ticker, message, action)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot prepare alert insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range alerts {
		if _, err := stmt.Exec(day.String(), a.Type, a.Severity, a.Ticker, a.Message, a.Action); err != nil {
			return fmt.Errorf("cannot store alert for %s: %w", a.Ticker, err)
		}
	}
	return tx.Commit()
}

// LastClose returns the most recent stored price for a ticker. The second
// return is false when the ticker has no history yet.
func (h *History) LastClose(ticker string) (Money, bool, error) {
	var price float64
	err := h.db.QueryRow(
		`SELECT price FROM stock_history WHERE ticker = ? ORDER BY date DESC LIMIT 1`,
		ticker,
	).Scan(&price)
	if err == sql.ErrNoRows {
		return Money{}, false, nil
	}
	if err != nil {
		return Money{}, false, err
	}
	return EUR(price), true, nil
}

// Closes returns the stored price series of a ticker in date order.
func (h *History) Closes(ticker string) (days []date.Date, prices []Money, err error) {
	rows, err := h.db.Query(
		`SELECT date, price FROM stock_history WHERE ticker = ? ORDER BY date ASC`,
		ticker,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var price float64
		if err := rows.Scan(&day, &price); err != nil {
			return nil, nil, err
		}
		d, err := date.Parse(day)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q in history: %w", day, err)
		}
		days = append(days, d)
		prices = append(prices, EUR(price))
	}
	return days, prices, rows.Err()
}
