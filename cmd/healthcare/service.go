package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	cartservice "healthcare/pkg/cart/domain/service"
	cartmysql "healthcare/pkg/cart/infrastructure/mysql"
	"healthcare/pkg/common/infrastructure/event"
	"healthcare/pkg/common/infrastructure/mysql"
	orderservice "healthcare/pkg/order/domain/service"
	ordermysql "healthcare/pkg/order/infrastructure/mysql"
	planmodel "healthcare/pkg/plan/domain/model"
	planservice "healthcare/pkg/plan/domain/service"
	"healthcare/pkg/plan/infrastructure/pools"
	userservice "healthcare/pkg/user/domain/service"
	usermysql "healthcare/pkg/user/infrastructure/mysql"
	"healthcare/transport"
)

func serviceCommand() *cli.Command {
	return &cli.Command{
		Name:  "service",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before serving"},
		},
		Action: func(ctx *cli.Context) error {
			return runService(ctx.Context, configFrom(ctx), ctx.Bool("migrate"))
		},
	}
}

func runService(ctx context.Context, c *config, migrateFirst bool) error {
	catalog, err := pools.LoadCatalog(c.PoolsFile)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"dietGoals":     len(catalog.Diet),
		"exerciseGoals": len(catalog.Exercise),
	}).Info("pool catalog loaded")

	db, err := mysql.Open(c.database())
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateFirst {
		if err = mysql.Migrate(db.DB); err != nil {
			return err
		}
	}

	handler := newHandler(db, catalog)
	server := &http.Server{Addr: c.ServeHTTPAddress, Handler: handler}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("address", c.ServeHTTPAddress).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newHandler(db *sqlx.DB, catalog planmodel.Catalog) http.Handler {
	dispatcher := event.NewLogDispatcher(log.StandardLogger())

	productRepo := cartmysql.NewProductRepository(db)
	cartRepo := cartmysql.NewCartRepository(db)
	movementRepo := cartmysql.NewStockMovementRepository(db)
	orderRepo := ordermysql.NewOrderRepository(db)
	userRepo := usermysql.NewUserRepository(db)

	ledger := cartservice.NewInventoryLedger(productRepo, dispatcher)
	users := userservice.NewUserService(userRepo, dispatcher)
	plans := planservice.NewPlanService(catalog, userRepo, planservice.NewGenerator(nil), dispatcher)
	products := cartservice.NewProductService(productRepo, dispatcher)
	carts := cartservice.NewCartService(cartRepo, productRepo, movementRepo, ledger, dispatcher)
	orders := orderservice.NewOrderService(orderRepo, cartRepo, dispatcher)

	return transport.Router(users, plans, products, carts, orders)
}
