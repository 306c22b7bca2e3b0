package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/ledger"
)

// SQLite is the default on-disk Store.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; also keeps ":memory:" databases on a single
	// connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) List(ctx context.Context, user string) ([]ledger.Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, code, name, direction, quantity, price, date, seq, reason
		FROM entries
		WHERE user = ?
		ORDER BY date ASC, seq ASC`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(
			&e.ID,
			&e.Code,
			&e.Name,
			&e.Direction,
			&e.Quantity,
			&e.Price,
			&e.Date,
			&e.Seq,
			&e.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Replace(ctx context.Context, user string, entries []ledger.Entry) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE user = ?`, user); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(user, id, code, name, direction, quantity, price, date, seq, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			user, e.ID, e.Code, e.Name, string(e.Direction),
			e.Quantity, e.Price, e.Date.UTC(), e.Seq, e.Reason,
		); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
