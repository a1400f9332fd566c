package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionStorage is the persisted key/value table behind the session store.
type SessionStorage struct {
	db *sql.DB
}

func (s Store) OpenSessionStorage(ctx context.Context) (*SessionStorage, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionStorage{db: db}, nil
}

func (ss *SessionStorage) Close() error {
	if ss == nil || ss.db == nil {
		return nil
	}
	return ss.db.Close()
}

func (ss *SessionStorage) Get(key string) (string, bool, error) {
	var v string
	err := ss.db.QueryRowContext(context.Background(), `SELECT v FROM session_storage WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetAll writes every pair in one transaction.
func (ss *SessionStorage) SetAll(kv map[string]string) error {
	ctx := context.Background()
	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().UnixMilli()
	for k, v := range kv {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO session_storage(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
			k, v, now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// All returns every stored pair.
func (ss *SessionStorage) All(ctx context.Context) (map[string]string, error) {
	rows, err := ss.db.QueryContext(ctx, `SELECT k, v FROM session_storage ORDER BY k`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
