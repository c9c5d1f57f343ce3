package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartpromo/internal/api"
	"github.com/nikolayk812/cartpromo/internal/cart"
	"github.com/nikolayk812/cartpromo/internal/config"
	"github.com/nikolayk812/cartpromo/internal/migrations"
	"github.com/nikolayk812/cartpromo/internal/port"
	"github.com/nikolayk812/cartpromo/internal/pricing"
	"github.com/nikolayk812/cartpromo/internal/promo"
	"github.com/nikolayk812/cartpromo/internal/rate"
	"github.com/nikolayk812/cartpromo/internal/repository"
	"github.com/nikolayk812/cartpromo/internal/repository/memory"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

type stores struct {
	carts   port.CartRepository
	promos  port.PromoCodeRepository
	catalog port.Catalog
	tx      port.Transactor
	close   func()
}

func Run(logger *logrus.Logger) error {
	logger.Info("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "CARTPROMO"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	cur, err := cfg.Cart.DefaultCurrency()
	if err != nil {
		return err
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	st, err := openStores(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	carts, err := cart.NewService(st.carts, st.catalog, cfg.Cart.Limits(), logger)
	if err != nil {
		return fmt.Errorf("cart.NewService: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.Expiry, cfg.Rate.RPS)
		defer limiter.Close()
	}

	mux := api.APIMux(api.APIConfig{
		Log:        logger,
		Carts:      carts,
		Promos:     promo.NewEngine(st.promos, st.carts, st.tx, cur, logger),
		Calculator: pricing.NewCalculator(st.carts, st.promos, cur),
		Limiter:    limiter,
	})

	srv := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func openStores(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (stores, error) {
	limits := cfg.Cart.Limits()

	if cfg.DB.Driver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")

		store, err := memory.New(limits)
		if err != nil {
			return stores{}, fmt.Errorf("memory.New: %w", err)
		}

		return stores{
			carts:   store.Carts(),
			promos:  store.PromoCodes(),
			catalog: store.Catalog(),
			tx:      store,
			close:   func() {},
		}, nil
	}

	if cfg.DB.Migrate {
		if err := migrations.Up(cfg.DB.URL); err != nil {
			return stores{}, fmt.Errorf("migrations.Up: %w", err)
		}
		logger.Info("migrations applied")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.URL)
	if err != nil {
		return stores{}, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return stores{}, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("pool.Ping: %w", err)
	}

	return stores{
		carts:   repository.NewCart(pool, limits),
		promos:  repository.NewPromoCode(pool),
		catalog: repository.NewCatalog(pool),
		tx:      repository.NewTransactor(pool, limits),
		close:   pool.Close,
	}, nil
}
