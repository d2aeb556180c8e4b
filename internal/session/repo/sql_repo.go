package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLRepo stores the token as one row of the client_settings key/value
// table. It works on postgres and sqlite; placeholders go through Rebind.
type SQLRepo struct {
	db  *sqlx.DB
	key string
}

func NewSQLRepo(db *sqlx.DB) *SQLRepo {
	return &SQLRepo{db: db, key: DefaultKey}
}

// EnsureTable creates the client_settings table if it does not exist.
// Fields:
// - name varchar(64) PRIMARY KEY
// - value text
// - updated_at timestamp
func (r *SQLRepo) EnsureTable(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS client_settings (
		name varchar(64) PRIMARY KEY,
		value text NOT NULL,
		updated_at timestamp NOT NULL
	)`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *SQLRepo) Load(ctx context.Context) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, r.db.Rebind(`SELECT value FROM client_settings WHERE name = ?`), r.key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *SQLRepo) Save(ctx context.Context, token string) error {
	query := r.db.Rebind(`INSERT INTO client_settings (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query, r.key, token, time.Now().UTC())
	return err
}

func (r *SQLRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM client_settings WHERE name = ?`), r.key)
	return err
}
