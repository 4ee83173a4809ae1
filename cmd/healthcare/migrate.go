package main

import (
	"github.com/urfave/cli/v2"

	"healthcare/pkg/common/infrastructure/mysql"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Action: func(ctx *cli.Context) error {
			db, err := mysql.Open(configFrom(ctx).database())
			if err != nil {
				return err
			}
			defer db.Close()
			return mysql.Migrate(db.DB)
		},
	}
}
