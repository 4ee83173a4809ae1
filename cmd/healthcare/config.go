package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"healthcare/pkg/common/infrastructure/mysql"
)

const appID = "healthcare"

type config struct {
	ServeHTTPAddress string        `envconfig:"serve_http_address" default:":8080"`
	DBHost           string        `envconfig:"db_host" default:"localhost:3306"`
	DBName           string        `envconfig:"db_name" default:"healthcare"`
	DBUser           string        `envconfig:"db_user" required:"true"`
	DBPassword       string        `envconfig:"db_password" required:"true"`
	DBMaxConnections int           `envconfig:"db_max_connections" default:"10"`
	PoolsFile        string        `envconfig:"pools_file" default:"configs/pools.yaml"`
	LogLevel         string        `envconfig:"log_level" default:"info"`
	LogFile          string        `envconfig:"log_file"`
	ShutdownTimeout  time.Duration `envconfig:"shutdown_timeout" default:"15s"`
	ReconcileGrace   time.Duration `envconfig:"reconcile_grace" default:"1m"`
}

// parseEnv reads HEALTHCARE_* variables, seeding them from .env when present.
func parseEnv() (*config, error) {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	c := new(config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	return c, nil
}

func (c *config) database() mysql.Config {
	return mysql.Config{
		Host:            c.DBHost,
		Name:            c.DBName,
		User:            c.DBUser,
		Password:        c.DBPassword,
		MaxConnections:  c.DBMaxConnections,
		ConnMaxLifetime: time.Hour,
	}
}
