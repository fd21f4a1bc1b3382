// # internal/data/spool/schema.go
package spool

import (
	"database/sql"

	"benchlens/internal/core/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS result_spool (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    output_key TEXT NOT NULL,
    method_name TEXT NOT NULL DEFAULT '',
    payload BLOB NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    last_error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_result_spool_output
    ON result_spool (output_key, id);
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "apply spool schema")
	}
	return nil
}
