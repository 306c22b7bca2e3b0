package journal

// Schema is the SQLite schema.
const Schema = `
CREATE TABLE IF NOT EXISTS entries (
	user TEXT NOT NULL,
	id TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	direction TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	date DATETIME NOT NULL,
	seq INTEGER NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user, id)
);

CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries(user, date, seq);
`

// PostgresSchema is the PostgreSQL schema. Quantities and prices are
// NUMERIC so the database never rounds what the user typed.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	owner TEXT NOT NULL,
	id TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	direction TEXT NOT NULL,
	quantity NUMERIC NOT NULL,
	price NUMERIC NOT NULL,
	date DATE NOT NULL,
	seq BIGINT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (owner, id)
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_owner_date ON journal_entries(owner, date, seq);
`
