package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CacheRecordRepository keeps the cache record in the single-row reserved_cache table.
// The pool is looked up on every call so a reconnect is picked up.
type CacheRecordRepository struct {
	conn func() *sqlx.DB
}

func NewCacheRecordRepository(conn func() *sqlx.DB) *CacheRecordRepository {
	return &CacheRecordRepository{conn: conn}
}

var errNotConnected = errors.New("database not connected")

func (r *CacheRecordRepository) pool() (*sqlx.DB, error) {
	if r.conn == nil {
		return nil, errNotConnected
	}
	db := r.conn()
	if db == nil {
		return nil, errNotConnected
	}
	return db, nil
}

type cacheRow struct {
	Usernames []byte `db:"usernames"`
	FetchedAt int64  `db:"fetched_at"`
}

func (r *CacheRecordRepository) Get() (*CacheRecord, error) {
	db, err := r.pool()
	if err != nil {
		return nil, err
	}
	var row cacheRow
	query := `SELECT usernames, fetched_at FROM reserved_cache WHERE id = 1`
	if err := db.Get(&row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec := &CacheRecord{Timestamp: row.FetchedAt}
	if err := json.Unmarshal(row.Usernames, &rec.Usernames); err != nil {
		return nil, fmt.Errorf("decode cached usernames: %w", err)
	}
	return rec, nil
}

func (r *CacheRecordRepository) Upsert(rec *CacheRecord) error {
	db, err := r.pool()
	if err != nil {
		return err
	}
	names, err := json.Marshal(rec.Usernames)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO reserved_cache (id, usernames, fetched_at, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET usernames = EXCLUDED.usernames, fetched_at = EXCLUDED.fetched_at, updated_at = NOW()`
	_, err = db.Exec(query, names, rec.Timestamp)
	return err
}

func (r *CacheRecordRepository) Delete() (bool, error) {
	db, err := r.pool()
	if err != nil {
		return false, err
	}
	res, err := db.Exec(`DELETE FROM reserved_cache WHERE id = 1`)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
