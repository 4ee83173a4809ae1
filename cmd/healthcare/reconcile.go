package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	cartappservice "healthcare/pkg/cart/application/service"
	cartservice "healthcare/pkg/cart/domain/service"
	cartmysql "healthcare/pkg/cart/infrastructure/mysql"
	"healthcare/pkg/common/infrastructure/event"
	"healthcare/pkg/common/infrastructure/mysql"
)

func reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "check carts for total drift, lines pointing at missing products and stock changes whose cart write was lost",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "fix", Usage: "store corrected carts and revert lost stock changes"},
		},
		Action: func(ctx *cli.Context) error {
			c := configFrom(ctx)
			db, err := mysql.Open(c.database())
			if err != nil {
				return err
			}
			defer db.Close()

			productRepo := cartmysql.NewProductRepository(db)
			ledger := cartservice.NewInventoryLedger(productRepo, event.NewLogDispatcher(log.StandardLogger()))
			checker := cartappservice.NewConsistencyChecker(
				cartmysql.NewCartRepository(db),
				productRepo,
				cartmysql.NewStockMovementRepository(db),
				ledger,
				c.ReconcileGrace,
			)
			report, err := checker.Check(ctx.Bool("fix"))
			if err != nil {
				return errors.Wrap(err, "reconcile carts")
			}

			for _, drift := range report.Drifts {
				log.WithFields(log.Fields{
					"userID":   drift.UserID,
					"stored":   drift.Stored,
					"expected": drift.Expected,
				}).Warn("cart total drift")
			}
			for _, orphan := range report.Orphans {
				log.WithFields(log.Fields{
					"userID":    orphan.UserID,
					"productID": orphan.ProductID,
					"quantity":  orphan.Quantity,
				}).Warn("cart line without product")
			}
			for _, pending := range report.Pending {
				log.WithFields(log.Fields{
					"userID":       pending.UserID,
					"productID":    pending.ProductID,
					"delta":        pending.Delta,
					"cartQuantity": pending.CartQuantity,
					"lineQuantity": pending.LineQuantity,
				}).Warn("stock moved without cart write")
			}
			log.WithFields(log.Fields{
				"carts":      report.CartsChecked,
				"consistent": report.Consistent(),
				"fixed":      report.Fixed,
				"reverted":   report.Reverted,
				"settled":    report.Settled,
			}).Info("reconciliation finished")
			return nil
		},
	}
}
