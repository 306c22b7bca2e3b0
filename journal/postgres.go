package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/ledger"
)

// Postgres implements Store on PostgreSQL. Quantities and prices are
// stored as NUMERIC.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// OpenPostgres connects to url and creates the schema if needed.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewPostgres(pool), nil
}

func (s *Postgres) List(ctx context.Context, user string) ([]ledger.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, code, name, direction, quantity::TEXT, price::TEXT, date, seq, reason
		 FROM journal_entries
		 WHERE owner = $1
		 ORDER BY date ASC, seq ASC`, user)
	if err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", user, err)
	}
	defer rows.Close()

	out := []ledger.Entry{}
	for rows.Next() {
		var (
			e          ledger.Entry
			dir        string
			qty, price string
		)
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &dir, &qty, &price, &e.Date, &e.Seq, &e.Reason); err != nil {
			return nil, err
		}
		e.Direction = ledger.Direction(dir)
		e.Quantity = numeric(qty)
		e.Price = numeric(price)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Postgres) Replace(ctx context.Context, user string, entries []ledger.Entry) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE owner = $1`, user); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(
				`INSERT INTO journal_entries (owner, id, code, name, direction, quantity, price, date, seq, reason)
				 VALUES ($1, $2, $3, $4, $5, $6::NUMERIC, $7::NUMERIC, $8, $9, $10)`,
				user, e.ID, e.Code, e.Name, string(e.Direction),
				decimal.NewFromFloat(e.Quantity).String(),
				decimal.NewFromFloat(e.Price).String(),
				e.Date, e.Seq, e.Reason,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

// numeric parses a NUMERIC rendered as text. Values the database accepted
// always parse.
func numeric(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
