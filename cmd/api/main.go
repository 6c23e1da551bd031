package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/identity"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/ariefcatur/go-storefront/internal/suppliers"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			return err
		}
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, log)
	pCreated.Start(ctx)
	pChanged := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, log)
	pChanged.Start(ctx)

	// Repos & services
	products := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	userRepo := &identity.Repo{DB: db}
	ids := &identity.Service{Users: userRepo}
	sessions := &session.Store{Redis: rdb, TTL: cfg.SessionTTL}
	statusCache := &orders.StatusCache{Redis: rdb}
	events := &orders.Events{Created: pCreated, StatusChanged: pChanged, Service: cfg.ServiceName}

	if cfg.AdminUsername != "" {
		if _, err := ids.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
		log.Info("admin account ready", zap.String("username", cfg.AdminUsername))
	}

	carts := &cart.Service{
		Store:   sessions,
		Locks:   &redisx.Locker{Redis: rdb, TTL: cfg.LockTTL, Wait: cfg.LockWait},
		Catalog: catalog.NewBreakerLookup(products, "catalog", 5, 10*time.Second),
	}
	sess := &httpx.Sessions{
		Store:  sessions,
		Users:  ids,
		Cookie: cfg.SessionCookie,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
		Log:    log,
	}
	api := &httpx.API{
		Sessions: sess,
		Catalog:  &httpx.CatalogHandler{Products: products, Log: log},
		Cart:     &httpx.CartHandler{Carts: carts, Log: log},
		Checkout: &httpx.CheckoutHandler{
			Checkout: &checkout.Service{
				Carts:  carts,
				Orders: orderRepo,
				Notify: []checkout.Notifier{statusCache, events},
				Log:    log,
			},
			Log: log,
		},
		Auth:   &httpx.AuthHandler{Identity: ids, Sessions: sess, Log: log},
		Orders: &httpx.OrdersHandler{Orders: orderRepo, Cache: statusCache, Log: log},
		Admin: &httpx.AdminHandler{
			Products:  products,
			Suppliers: &suppliers.Repo{DB: db},
			Orders:    orderRepo,
			Users:     userRepo,
			Notify:    []httpx.StatusNotifier{statusCache, events},
			Log:       log,
		},
	}
	router := httpx.NewRouter(cfg.RequestTimeout)
	api.Register(router)

	// HTTP server
	srv := httpx.NewServer(cfg.HTTPAddr, cfg.ServiceName, router)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutCtx, cancelShut := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShut()
		return srv.Shutdown(shutCtx)
	})
	err = g.Wait()

	// flush queued events after the last request finished
	pCreated.Close()
	pChanged.Close()
	pCreated.WaitClosed()
	pChanged.WaitClosed()
	return err
}
