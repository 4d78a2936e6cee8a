// Package localcache is the local, non-authoritative mirror used when the
// remote document backend is unreachable. Each collection is stored as one
// JSON array under the key younv_<collection>.
package localcache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const KEY_PREFIX = "younv_"

// KV is the persistent key-value store under the cache.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// SQLiteKV keeps values in a single kv table of a local SQLite file.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the cache file at path. Use
// ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.Wrap(err, "create cache dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// a :memory: database lives as long as its connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create kv table")
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return errors.Wrapf(err, "write %s", key)
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// RedisKV keeps values in Redis without expiration.
type RedisKV struct {
	rdb *redis.Client
}

// OpenRedis connects to the Redis instance at uri (redis://...) and pings it.
func OpenRedis(ctx context.Context, uri string) (*RedisKV, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis uri")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", opts.Addr)
	}
	return &RedisKV{rdb: rdb}, nil
}

func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	return value, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(r.rdb.Set(ctx, key, value, 0).Err(), "write %s", key)
}

func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
