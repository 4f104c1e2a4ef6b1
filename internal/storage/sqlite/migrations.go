package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Money columns hold decimal strings, never REAL.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    algorithm TEXT NOT NULL,
    computation_ms INTEGER NOT NULL,
    grand_total TEXT NOT NULL,
    party_a_cash TEXT NOT NULL,
    party_b_cash TEXT NOT NULL,
    total_cash TEXT NOT NULL,
    receipt_json TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS products (
    user_id TEXT NOT NULL,
    barcode TEXT NOT NULL,
    name TEXT NOT NULL,
    brands TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    saved_at INTEGER NOT NULL,
    PRIMARY KEY (user_id, barcode),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settings (
    user_id TEXT PRIMARY KEY,
    party_a_unit_value TEXT NOT NULL,
    party_a_max_units INTEGER NOT NULL,
    party_b_unit_value TEXT NOT NULL,
    party_b_max_units INTEGER NOT NULL,
    non_voucher_categories TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_expenses_user_created ON expenses(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_products_user_id ON products(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
