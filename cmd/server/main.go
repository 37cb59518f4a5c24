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
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/maxviazov/company-employees-service/internal/config"
	"github.com/maxviazov/company-employees-service/internal/handler"
	"github.com/maxviazov/company-employees-service/internal/logger"
	"github.com/maxviazov/company-employees-service/internal/repository"
	"github.com/maxviazov/company-employees-service/internal/repository/memory"
	"github.com/maxviazov/company-employees-service/internal/repository/postgres"
	"github.com/maxviazov/company-employees-service/internal/service"
)

// storage bundles whatever backend the config selected.
type storage struct {
	companies repository.CompanyRepository
	employees repository.EmployeeRepository
	tx        repository.TxManager
	pinger    repository.Pinger
	close     func()
}

func main() {
	// Load application config
	path := "config.yaml"
	if v := os.Getenv("APP_CONFIG"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	if cfg.Logger.Env == "" {
		switch cfg.App.Env {
		case "dev", "staging", "prod":
			cfg.Logger.Env = cfg.App.Env
		}
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	zlog.Logger = appLogger
	appLogger.Info().Msg("✅ Logger initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage initialization failed")
	}
	defer store.close()

	companySvc := service.NewCompanyService(store.companies, store.employees, store.tx, appLogger)
	employeeSvc := service.NewEmployeeService(store.employees, store.companies, service.EmployeeOptions{
		Strict: cfg.Query.Strict,
		Limits: cfg.Paging.Limits(),
	}, appLogger)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(appLogger), cors.New(corsConfig(cfg.CORS)))
	handler.Register(router, store.pinger, companySvc, employeeSvc, handler.Options{
		HateoasMediaType: cfg.Hateoas.MediaType,
		Limits:           cfg.Paging.Limits(),
		Storage:          cfg.Storage.Driver,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("driver", cfg.Storage.Driver).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		s := memory.NewStore()
		s.Seed()
		return &storage{
			companies: memory.NewCompanyRepository(s),
			employees: memory.NewEmployeeRepository(s),
			tx:        memory.NewTxManager(s),
			pinger:    memory.NewPinger(),
			close:     func() {},
		}, nil
	case "postgres":
		if cfg.Storage.Migrate {
			if err := postgres.Migrate(ctx, repository.DSN(cfg.Postgres), logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		db, err := repository.New(ctx, cfg, &logger)
		if err != nil {
			return nil, err
		}
		pool := db.Pool()
		return &storage{
			companies: postgres.NewCompanyRepository(pool),
			employees: postgres.NewEmployeeRepository(pool),
			tx:        postgres.NewTxManager(pool),
			pinger:    postgres.NewPinger(pool),
			close:     db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.DefaultConfig()
	if len(c.AllowOrigins) == 0 || (len(c.AllowOrigins) == 1 && c.AllowOrigins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = c.AllowOrigins
	}
	if len(c.AllowMethods) > 0 {
		cc.AllowMethods = c.AllowMethods
	}
	cc.AddAllowHeaders("Accept")
	cc.ExposeHeaders = c.ExposeHeaders
	return cc
}
