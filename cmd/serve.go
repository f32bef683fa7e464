package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	aihandler "github.com/Jamolkhon5/portfolio/internal/ai/portfolio/handler"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/service"
	"github.com/Jamolkhon5/portfolio/internal/catalog"
	"github.com/Jamolkhon5/portfolio/internal/handler"
	"github.com/Jamolkhon5/portfolio/internal/health"
	"github.com/Jamolkhon5/portfolio/internal/notify"
	"github.com/Jamolkhon5/portfolio/internal/ratelimit"
	"github.com/Jamolkhon5/portfolio/internal/repository"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

type routerDeps struct {
	catalog   *catalog.Catalog
	assistant aihandler.Assistant
	leads     handler.LeadStore
	throttle  handler.Throttle
	publisher notify.Publisher
	db        health.Pinger
	origins   []string
	proxies   []netip.Prefix
	version   string
	logger    *zap.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(handler.RealIP(d.proxies))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	health.NewHealthHandler(health.ServiceName, d.version, d.db).RegisterRoutes(r)
	handler.NewHandler(d.catalog, d.leads, d.throttle, d.publisher, d.logger).RegisterRoutes(r)
	aihandler.NewPortfolioAssistantHandler(d.assistant, d.logger).RegisterRoutes(r)

	return r
}

// newAdminRouter - служебный роутер без CORS, слушает только внутренний адрес
func newAdminRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	health.NewHealthHandler(health.ServiceName, d.version, d.db).RegisterRoutes(r)
	aihandler.NewPortfolioAssistantHandler(d.assistant, d.logger).RegisterAdminRoutes(r)

	return r
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	model, err := newModel(ctx)
	if err != nil {
		return err
	}
	assistant := service.NewPortfolioAssistant(cat, model, cfg.AssistantTimeout, logger)

	deps := routerDeps{
		catalog:   cat,
		assistant: assistant,
		throttle:  ratelimit.NewLocal(cfg.ContactRateLimit, cfg.ContactRateWindow),
		publisher: notify.Noop{},
		origins:   cfg.CORSOrigins,
		proxies:   cfg.TrustedProxies,
		version:   cfg.AppVersion,
		logger:    logger,
	}

	// Подключение к базе данных
	if cfg.DatabaseEnabled() {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()

		repo := repository.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		deps.leads = repo
		deps.db = repo
	} else {
		logger.Warn("PG_HOST is not set, contact form submissions will fail")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		deps.throttle = ratelimit.NewLimiter(client, cfg.ContactRateLimit, cfg.ContactRateWindow)
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := notify.Dial(cfg.RabbitMQURL, cfg.LeadsExchange)
		if err != nil {
			logger.Warn("lead notifications disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			deps.publisher = publisher
		}
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: newRouter(deps),
	}
	var adminSrv *http.Server
	if cfg.AdminAddr != "" {
		adminSrv = &http.Server{
			Addr:    cfg.AdminAddr,
			Handler: newAdminRouter(deps),
		}
	}
	grpcSrv, healthSrv := health.NewGRPCServer()

	g, gctx := errgroup.WithContext(ctx)

	if adminSrv != nil {
		g.Go(func() error {
			logger.Info("admin server listening", zap.String("addr", cfg.AdminAddr))
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin listen: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("model", model.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		logger.Info("grpc health server listening", zap.String("addr", cfg.GRPCAddr))
		return grpcSrv.Serve(lis)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown Server ...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		healthSrv.Shutdown()
		stopped := make(chan struct{})
		go func() {
			grpcSrv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcSrv.Stop()
		}

		if adminSrv != nil {
			if err := adminSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("admin server shutdown", zap.Error(err))
			}
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exiting")
	return nil
}
