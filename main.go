package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"disfactory.tw/backoffice/config"
	"disfactory.tw/backoffice/handlers"
	"disfactory.tw/backoffice/middleware"
	"disfactory.tw/backoffice/pkg/admin"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/metrics"
	"disfactory.tw/backoffice/pkg/store"
	"disfactory.tw/backoffice/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.L = log

	db, err := store.Open(cfg.DB.Driver, cfg.DB.DSN, log)
	if err != nil {
		log.Fatalw("failed to connect to database", "driver", cfg.DB.Driver, "error", err)
	}
	if err := config.Migrations(db); err != nil {
		log.Fatalw("could not run migrations", "error", err)
	}
	st := store.New(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	adminMetrics, err := metrics.NewAdminMetrics(registry)
	if err != nil {
		log.Fatalw("could not register metrics", "error", err)
	}

	site, err := admin.Build(db, st, admin.BuildConfig{
		PreviewMaxWidth:    cfg.Admin.PreviewMaxWidth,
		RestoreConcurrency: cfg.Admin.RestoreConcurrency,
	}, admin.WithMetrics(adminMetrics), admin.WithLogger(log))
	if err != nil {
		log.Fatalw("could not build admin site", "error", err)
	}

	handler := routes.RegisterRoutes(routes.Deps{
		Admin:    handlers.NewAdminHandler(site, cfg.Admin.PageSize),
		Auth:     middleware.NewAuthenticator(cfg.Auth.JWTSecret),
		DB:       st,
		Gatherer: registry,
		Log:      log,
	})

	log.Infow("server starting", "port", cfg.Server.Port, "version", Version)
	if err := http.ListenAndServe(":"+cfg.Server.Port, middleware.CORS(handler)); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
