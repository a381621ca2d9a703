package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	// postgres driver
	_ "github.com/lib/pq"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

type postgresConfig interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

func NewPostgresStorage(config postgresConfig) (*Storage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}

	if err = migrateUp(db, "postgres"); err != nil {
		return nil, err
	}

	return &Storage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}
