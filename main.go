package main

// GET  /products       - list the catalog
// POST /products       - create a product
// GET  /products/{id}  - product metadata
// GET  /stock/{id}     - available amount
// PUT  /stock/{id}     - set available amount
// GET  /cart           - session cart with totals
// POST /cart/add       - add one unit of a product
// POST /cart/remove    - remove a product
// POST /cart/update    - set a product's amount

import (
	"context"
	"database/sql"
	_ "embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"golang.org/x/sync/errgroup"

	"storefront-cart/client"
	"storefront-cart/config"
	"storefront-cart/handler"
	"storefront-cart/service"
	"storefront-cart/store"
	"storefront-cart/telemetry"
)

// --- EMBED MIGRATIONS ---
//
//go:embed migrations.sql
var migrationSQL string

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	entry := log.WithField("service", cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		entry.WithError(err).Fatal("tracing init failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			entry.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	// --- DB ---
	var db *sql.DB
	if cfg.NeedsDatabase() {
		st, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			entry.WithError(err).Fatal("DB connection failed")
		}
		defer st.Close()
		if _, err := st.DB.ExecContext(ctx, migrationSQL); err != nil {
			entry.WithError(err).Fatal("failed running migrations")
		}
		entry.Info("database migrations executed")
		db = st.DB
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware(cfg.ServiceName), handler.RequestID(entry))

	// --- Catalog ---
	if cfg.CatalogEnabled {
		svc := service.NewService(&store.PostgresStore{DB: db})
		var serviceInterface service.ServiceInterface = svc
		handler.NewHandler(serviceInterface, entry).RegisterRoutes(r)
	}

	// --- Cart ---
	mirror, closeMirror, err := newMirror(ctx, cfg, db, entry)
	if err != nil {
		entry.WithError(err).Fatal("mirror init failed")
	}
	defer closeMirror()

	rec := &service.Recorder{}
	api := client.NewAPI(cfg.APIBaseURL, cfg.APITimeout)
	notify := service.Notifiers{rec, service.LogNotifier{Log: entry}}
	cart, err := service.NewCartStore(ctx, cfg.MirrorKey, api, mirror, notify, entry)
	if err != nil {
		entry.WithError(err).Fatal("cart load failed")
	}
	handler.NewCartHandler(cart, rec, entry).RegisterRoutes(r)

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entry.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		entry.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		entry.WithError(err).Error("server error")
	}
}

func newMirror(ctx context.Context, cfg config.Config, db *sql.DB, log logrus.FieldLogger) (store.Mirror, func(), error) {
	switch cfg.MirrorBackend {
	case config.MirrorRedis:
		m := store.NewRedisMirror(cfg.RedisAddr, log)
		if err := m.Initialize(ctx); err != nil {
			_ = m.Close()
			return nil, nil, err
		}
		return m, func() { _ = m.Close() }, nil
	case config.MirrorMemory:
		log.Warn("memory mirror selected, cart will not survive restarts")
		return store.NewMemoryMirror(), func() {}, nil
	default:
		return &store.PostgresMirror{DB: db}, func() {}, nil
	}
}
