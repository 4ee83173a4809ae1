package mysql

import (
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Config struct {
	Host            string
	Name            string
	User            string
	Password        string
	MaxConnections  int
	ConnMaxLifetime time.Duration
}

// DSN builds a go-sql-driver DSN. Multi statements are enabled for migrations.
func (c Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

func Open(c Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", c.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "open mysql connection")
	}
	if c.MaxConnections > 0 {
		db.SetMaxOpenConns(c.MaxConnections)
		db.SetMaxIdleConns(c.MaxConnections)
	}
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping mysql at %s", c.Host)
	}
	return db, nil
}
