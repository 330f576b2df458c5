package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/httpserver"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/service"
	pkgconfig "github.com/Skotchmaster/shop_backend/pkg/config"
	"github.com/Skotchmaster/shop_backend/pkg/db"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
	loggingmw "github.com/Skotchmaster/shop_backend/pkg/middleware/logging"
)

func main() {
	cfg := pkgconfig.Load(".env")
	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := config.InitDB(initCtx, cfg)
	if err != nil {
		cancel()
		logger.Error("db_init_error", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}

	idx, err := config.InitSearch(initCtx, cfg, gdb)
	cancel()
	if err != nil {
		logger.Error("search_init_error", "url", cfg.ElasticURL, "error", err)
		os.Exit(1)
	}

	publisher := config.InitEvents(cfg)
	r := &repo.GormRepo{DB: gdb}

	catalog := &service.CatalogService{Repo: r, Events: publisher}
	if idx != nil {
		catalog.Index = idx
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalog},
		CustomerHandler: &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: r, Events: publisher}},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: publisher}},
		DB:              gdb,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_start", "addr", srv.Addr, "db_driver", cfg.DatabaseDriver,
			"kafka", len(cfg.KafkaBrokers) > 0, "search", idx != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("events_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
