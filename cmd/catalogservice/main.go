// movie-catalog/cmd/catalogservice/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "go.uber.org/automaxprocs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpAPI "movie-catalog/internal/api"
	"movie-catalog/internal/catalog"
	"movie-catalog/internal/clients"
	"movie-catalog/internal/config"
	grpcServer "movie-catalog/internal/grpc"
	"movie-catalog/internal/logging"
	"movie-catalog/internal/paging"
	"movie-catalog/internal/store"
	"movie-catalog/internal/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Catalog service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	st, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var checker catalog.ExistenceChecker = st
	if cfg.Integrity.LookupAddr != "" {
		lookupClient, err := clients.NewCatalogLookupClient(cfg.Integrity.LookupAddr, cfg.Integrity.LookupTimeout, logger)
		if err != nil {
			return err
		}
		defer lookupClient.Close()
		checker = lookupClient
	}

	validator, err := catalog.NewValidator()
	if err != nil {
		return err
	}
	service := catalog.NewService(
		st,
		catalog.NewIntegrityValidator(checker, logger),
		catalog.NewRatingAggregator(st, logger),
		validator,
		logger,
	)

	// --- gRPC lookup server ---
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen for gRPC on %s: %w", cfg.Server.GRPCAddr, err)
	}
	grpcSrv := grpc.NewServer()
	grpcServer.RegisterLookupServer(grpcSrv, grpcServer.NewServer(st, logger))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(grpcServer.ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcSrv)

	// Either server failing stops the process.
	serveErr := make(chan error, 2)
	go func() {
		logger.Info("gRPC server starting", slog.String("addr", cfg.Server.GRPCAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			serveErr <- fmt.Errorf("gRPC server on %s: %w", cfg.Server.GRPCAddr, err)
		}
	}()

	// --- HTTP server ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := httpAPI.NewCatalogHandler(service, pageDefaults(cfg.Paging), logger)
	router := httpAPI.NewRouter(handler, httpAPI.NewMetrics(registry), registry, logger)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	}).Handler(router)

	httpSrv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      otelhttp.NewHandler(corsHandler, "catalog-http"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("addr", cfg.Server.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server on %s: %w", cfg.Server.HTTPAddr, err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Catalog service shutting down...")
	case runErr = <-serveErr:
		logger.Error("Server failed, shutting down", slog.String("error", runErr.Error()))
	}

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
	grpcSrv.GracefulStop()
	logger.Info("gRPC server gracefully stopped.")
	return runErr
}

func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(logger), func() {}, nil
	}

	logger.Info("Connecting to PostgreSQL", slog.String("dsn", logging.MaskDSN(cfg.DatabaseURL)))
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	closeDB := func() {
		logger.Info("Closing PostgreSQL connection pool")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}

	pg, err := store.NewPostgresStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := pg.Migrate(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	logger.Info("PostgreSQL store initialized")
	return pg, closeDB, nil
}

func pageDefaults(cfg config.PagingConfig) httpAPI.PageDefaults {
	return httpAPI.PageDefaults{
		Movies: paging.Defaults{
			Size:     cfg.DefaultSize,
			MaxSize:  cfg.MaxSize,
			Sortable: store.MovieSortFields,
			Sort:     store.DefaultMovieSort,
		},
		Reviews: paging.Defaults{
			Size:     cfg.ReviewSize,
			MaxSize:  cfg.MaxSize,
			Sortable: store.ReviewSortFields,
			Sort:     store.DefaultReviewSort,
		},
		Top: paging.Defaults{
			Size:    cfg.DefaultSize,
			MaxSize: cfg.MaxSize,
		},
	}
}
