package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    nombre TEXT NOT NULL,
    telefono TEXT NOT NULL,
    compania TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS salespeople (
    id TEXT PRIMARY KEY,
    nombre TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    monto TEXT NOT NULL,
    fecha_envio TEXT NOT NULL,
    estado TEXT NOT NULL DEFAULT 'pendiente',
    salesperson_id TEXT,
    fecha_pago TEXT,
    FOREIGN KEY (client_id) REFERENCES clients(id),
    FOREIGN KEY (salesperson_id) REFERENCES salespeople(id)
);

CREATE INDEX IF NOT EXISTS idx_debts_client_id ON debts(client_id);
CREATE INDEX IF NOT EXISTS idx_debts_estado ON debts(estado);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
