package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	configKey    = "config"
	logCloserKey = "logCloser"
)

func main() {
	app := &cli.App{
		Name:   appID,
		Usage:  "diet and exercise plans with a product cart",
		Before: setup,
		After: func(ctx *cli.Context) error {
			if closer, ok := ctx.App.Metadata[logCloserKey].(io.Closer); ok {
				return closer.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			serviceCommand(),
			migrateCommand(),
			reconcileCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(ctx *cli.Context) error {
	c, err := parseEnv()
	if err != nil {
		return err
	}
	closer, err := initLogger(c)
	if err != nil {
		return err
	}

	ctx.App.Metadata = map[string]interface{}{configKey: c}
	if closer != nil {
		ctx.App.Metadata[logCloserKey] = closer
	}
	return nil
}

func configFrom(ctx *cli.Context) *config {
	return ctx.App.Metadata[configKey].(*config)
}
