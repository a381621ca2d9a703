package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	// sqlite driver
	_ "modernc.org/sqlite"
)

type sqliteConfig interface {
	Path() string
}

func NewSQLiteStorage(config sqliteConfig) (*Storage, error) {
	path := config.Path()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create database dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	// modernc's driver is not safe for concurrent writes over one file;
	// the app is single-session anyway.
	db.SetMaxOpenConns(1)

	if err = migrateUp(db, "sqlite"); err != nil {
		return nil, err
	}

	return &Storage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}
