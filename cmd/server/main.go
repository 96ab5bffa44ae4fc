package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"reratrack/internal/audit"
	checklisthandler "reratrack/internal/checklist/handler"
	checklistmetrics "reratrack/internal/checklist/metrics"
	checklistmodels "reratrack/internal/checklist/models"
	checklistservice "reratrack/internal/checklist/service"
	checkliststore "reratrack/internal/checklist/store"
	clienthandler "reratrack/internal/client/handler"
	clientservice "reratrack/internal/client/service"
	clientstore "reratrack/internal/client/store"
	exporthandler "reratrack/internal/export/handler"
	exportservice "reratrack/internal/export/service"
	jwttoken "reratrack/internal/jwt_token"
	ledgerhandler "reratrack/internal/ledger/handler"
	"reratrack/internal/ledger/idempotency"
	ledgermetrics "reratrack/internal/ledger/metrics"
	ledgerservice "reratrack/internal/ledger/service"
	ledgerstore "reratrack/internal/ledger/store"
	"reratrack/internal/platform/config"
	"reratrack/internal/platform/httpserver"
	"reratrack/internal/platform/logger"
	"reratrack/internal/platform/metrics"
	"reratrack/internal/platform/middleware"
	"reratrack/internal/platform/postgres"
	platformredis "reratrack/internal/platform/redis"
	taskhandler "reratrack/internal/task/handler"
	taskservice "reratrack/internal/task/service"
	taskstore "reratrack/internal/task/store"
	"reratrack/pkg/platform/httputil"
	"reratrack/pkg/platform/middleware/metadata"
	"reratrack/pkg/platform/middleware/requesttime"
)

const (
	auditOutboxSize = 1024
	shutdownTimeout = 10 * time.Second
)

type stores struct {
	clients    clientservice.Store
	checklists checklistservice.Store
	payments   ledgerservice.Store
	tasks      taskservice.Store
	tx         clientservice.TxRunner
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	st := buildStores(db, cfg)

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var idem ledgerservice.IdempotencyStore = idempotency.NewInMemoryStore()
	if redisClient != nil {
		defer redisClient.Close()
		idem = idempotency.NewRedisStore(redisClient.Client)
		log.Info("idempotency keys stored in redis")
	}

	g, gctx := errgroup.WithContext(ctx)

	var publisherOpts []audit.PublisherOption
	if len(cfg.Audit.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(ctx, cfg.Audit.KafkaBrokers, cfg.Audit.Topic)
		if err != nil {
			return err
		}
		defer sink.Close(context.Background())
		outbox := make(chan audit.Event, auditOutboxSize)
		publisherOpts = append(publisherOpts, audit.WithOutbox(outbox))
		worker := audit.NewWorker(sink, outbox, log)
		g.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("audit events published to kafka", "topic", cfg.Audit.Topic)
	}
	emitter := audit.NewEmitter(log, audit.NewPublisher(audit.NewInMemoryStore(), publisherOpts...))

	template := checklistmodels.DefaultTemplate()
	if cfg.Checklist.TemplatePath != "" {
		if template, err = checklistmodels.LoadTemplate(cfg.Checklist.TemplatePath); err != nil {
			return err
		}
	}

	clientLookup := clientservice.NewLookup(st.clients)
	ledger := ledgerservice.New(st.payments, clientLookup,
		ledgerservice.WithLogger(log),
		ledgerservice.WithAuditEmitter(emitter),
		ledgerservice.WithMetrics(ledgermetrics.New(prometheus.DefaultRegisterer)),
		ledgerservice.WithIdempotency(idem, cfg.Ledger.IdempotencyTTL),
	)
	checklists := checklistservice.New(st.checklists, clientLookup,
		checklistservice.WithLogger(log),
		checklistservice.WithAuditEmitter(emitter),
		checklistservice.WithMetrics(checklistmetrics.New(prometheus.DefaultRegisterer)),
		checklistservice.WithTemplate(template),
	)
	tasks := taskservice.New(st.tasks, clientLookup,
		taskservice.WithLogger(log),
		taskservice.WithAuditEmitter(emitter),
	)
	clients := clientservice.New(st.clients, st.tx, checklists, ledger, tasks,
		clientservice.WithLogger(log),
		clientservice.WithAuditEmitter(emitter),
	)
	exports := exportservice.New(clients, checklists, ledger, exportservice.WithLogger(log))

	jwtValidator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.AccessLog(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(metrics.NewHTTP().Middleware)

	r.Handle("/metrics", metrics.Handler())
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", healthHandler(db, redisClient))
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(jwtValidator, log))
			clienthandler.New(clients, log).Register(protected)
			checklisthandler.New(checklists, log).Register(protected)
			ledgerhandler.New(ledger, log).Register(protected)
			taskhandler.New(tasks, log).Register(protected)
			exporthandler.New(exports, log).Register(protected)
		})
	})

	srv := httpserver.New(cfg.Addr, r)
	g.Go(func() error {
		log.Info("starting reratrack", "addr", cfg.Addr, "postgres", db != nil, "redis", redisClient != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openDatabase(ctx context.Context, cfg config.Server, log *slog.Logger) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return nil, nil
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func buildStores(db *sql.DB, cfg config.Server) stores {
	if db == nil {
		return stores{
			clients:    clientstore.NewInMemory(),
			checklists: checkliststore.NewInMemory(),
			payments:   ledgerstore.NewInMemory(),
			tasks:      taskstore.NewInMemory(),
			tx:         clientservice.NewInMemoryTx(cfg.DBTxTimeout),
		}
	}
	return stores{
		clients:    clientstore.NewPostgres(db),
		checklists: checkliststore.NewPostgres(db),
		payments:   ledgerstore.NewPostgres(db),
		tasks:      taskstore.NewPostgres(db),
		tx:         newClientPostgresTx(db, cfg.DBTxTimeout),
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func healthHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "OK", Timestamp: time.Now().UTC(), Checks: map[string]string{}}
		status := http.StatusOK
		if db != nil {
			resp.Checks["database"] = "ok"
			if err := db.PingContext(ctx); err != nil {
				resp.Checks["database"] = "unavailable"
				resp.Status, status = "DEGRADED", http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			resp.Checks["redis"] = "ok"
			if err := redisClient.Health(ctx); err != nil {
				resp.Checks["redis"] = "unavailable"
				resp.Status, status = "DEGRADED", http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, status, resp)
	}
}
