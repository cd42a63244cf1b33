package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"foodmarket/internal/auth"
	"foodmarket/internal/config"
	"foodmarket/internal/events"
	httpapi "foodmarket/internal/http"
	"foodmarket/internal/metrics"
	"foodmarket/internal/repository"
	"foodmarket/internal/service"

	_ "foodmarket/docs"
)

func main() {
	app := &cli.App{
		Name:  "foodmarket",
		Usage: "food delivery marketplace backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:  "token",
				Usage: "issue a signed token for a subject",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Required: true, Usage: "customer or vendor id"},
					&cli.StringFlag{Name: "role", Value: string(auth.RoleAdmin), Usage: "customer, vendor or admin"},
				},
				Action: issueToken,
			},
		},
		DefaultCommand: "serve",
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("foodmarket stopped")
	}
}

func newLogger(level string) (*log.Logger, error) {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// stores собранные под выбранный бэкенд репозитории
type stores struct {
	foods     repository.FoodRepository
	vendors   repository.VendorRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	tx        repository.TxManager
	ping      func(ctx context.Context) error
	close     func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == config.StoreMongo {
		m, err := repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTransactions)
		if err != nil {
			return nil, err
		}
		return &stores{foods: m, vendors: m, customers: m, orders: m, tx: m, ping: m.Ping, close: m.Close}, nil
	}
	m := repository.NewMemoryStore()
	return &stores{
		foods:     m,
		vendors:   m,
		customers: m,
		orders:    repository.NewMemoryOrders(m),
		tx:        repository.NewMemoryTx(m),
		close:     func(context.Context) error { return nil },
	}, nil
}

func newPublisher(cfg *config.Config, logger log.FieldLogger) (events.Publisher, func() error, error) {
	if cfg.AMQPURL == "" {
		return events.LogPublisher{Logger: logger}, func() error { return nil }, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			logger.WithError(err).Error("close store")
		}
	}()

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "connect broker")
	}
	defer func() {
		if err := closePublisher(); err != nil {
			logger.WithError(err).Error("close publisher")
		}
	}()

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	m := metrics.NewRegistry()

	catalogSvc := service.NewCatalogService(st.foods, st.vendors, st.tx)
	vendorsSvc := service.NewVendorService(st.vendors, st.foods, issuer)
	customersSvc := service.NewCustomerService(st.customers, issuer)
	ordersSvc := service.NewOrderService(
		st.customers,
		service.NewReconciler(catalogSvc),
		service.NewLedger(st.orders, st.customers, st.tx),
		publisher,
		m,
		logger,
	)

	srv := httpapi.NewServer(catalogSvc, vendorsSvc, customersSvc, ordersSvc, issuer, m, logger)
	if st.ping != nil {
		srv.SetHealthCheck(st.ping)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithFields(log.Fields{"addr": httpServer.Addr, "store": cfg.Store}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(httpServer.Shutdown(shutdownCtx), "shutdown")
	})
	return g.Wait()
}

func issueToken(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	role := auth.Role(c.String("role"))
	switch role {
	case auth.RoleCustomer, auth.RoleVendor, auth.RoleAdmin:
	default:
		return errors.Errorf("unknown role %q", role)
	}
	token, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL).Issue(c.String("subject"), role)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}
