package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var errNotInitialized = errors.New("database not initialized")

// DB wraps a database connection
type DB struct {
	*sql.DB
	driver string
}

// Open connects to Postgres when databaseURL is set, otherwise to the
// SQLite file at path, and makes sure the schema exists.
func Open(databaseURL, path string) (*DB, error) {
	driver, dsn := "sqlite3", path
	if databaseURL != "" {
		driver, dsn = "postgres", databaseURL
	}
	if dsn == "" {
		dsn = "wthr.db"
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{DB: sqlDB, driver: driver}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		scope      TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (scope, key)
	)`)
	return err
}

// rebind rewrites ? placeholders to $n for Postgres
func (d *DB) rebind(query string) string {
	if d.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get returns the value stored under scope/key
func (d *DB) Get(scope, key string) (string, bool, error) {
	if d == nil || d.DB == nil {
		return "", false, errNotInitialized
	}

	var value string
	err := d.QueryRow(d.rebind(`SELECT value FROM kv WHERE scope = ? AND key = ?`), scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Set stores value under scope/key, replacing any previous value
func (d *DB) Set(scope, key, value string) error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}

	_, err := d.Exec(d.rebind(`INSERT INTO kv (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		scope, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("kv set %s/%s: %w", scope, key, err)
	}
	return nil
}

// Remove deletes scope/key; removing a missing key is not an error
func (d *DB) Remove(scope, key string) error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}

	if _, err := d.Exec(d.rebind(`DELETE FROM kv WHERE scope = ? AND key = ?`), scope, key); err != nil {
		return fmt.Errorf("kv remove %s/%s: %w", scope, key, err)
	}
	return nil
}

// Touch marks every key of scope as used now so PruneScopes keeps it
func (d *DB) Touch(scope string) error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}

	if _, err := d.Exec(d.rebind(`UPDATE kv SET updated_at = ? WHERE scope = ?`), time.Now().Unix(), scope); err != nil {
		return fmt.Errorf("kv touch %s: %w", scope, err)
	}
	return nil
}

// PruneScopes deletes every key of scopes not written since cutoff
func (d *DB) PruneScopes(cutoff time.Time) (int64, error) {
	if d == nil || d.DB == nil {
		return 0, errNotInitialized
	}

	res, err := d.Exec(d.rebind(`DELETE FROM kv WHERE scope IN (
		SELECT scope FROM kv GROUP BY scope HAVING MAX(updated_at) < ?
	)`), cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("kv prune: %w", err)
	}
	return res.RowsAffected()
}
