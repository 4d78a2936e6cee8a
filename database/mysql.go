package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

const (
	MYSQL_CONN_MAX_LIFETIME = 5 * time.Minute
	MYSQL_MAX_OPEN_CONNS    = 10
	MYSQL_MAX_IDLE_CONNS    = 10
	MYSQL_TIMEOUT           = 10 * time.Second
)

// OpenMySQL opens the legacy database that still holds the user to clinic
// association table.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "[MySQL] open")
	}

	db.SetConnMaxLifetime(MYSQL_CONN_MAX_LIFETIME)
	db.SetMaxOpenConns(MYSQL_MAX_OPEN_CONNS)
	db.SetMaxIdleConns(MYSQL_MAX_IDLE_CONNS)

	pingCtx, cancel := context.WithTimeout(ctx, MYSQL_TIMEOUT)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "[MySQL] ping")
	}

	return db, nil
}
