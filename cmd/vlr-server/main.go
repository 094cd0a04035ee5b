package main

import (
	"flag"
	"time"
	"vlrgg-backend/lib/configutil"
	"vlrgg-backend/lib/scrapers/vlr"
	"vlrgg-backend/lib/serviceutil"
	"vlrgg-backend/lib/sqliteutil"
	"vlrgg-backend/services/matchdetails"
	"vlrgg-backend/services/matchdetails/db"
)

type Config struct {
	Port              int    `json:"port"`
	Database          string `json:"database"`
	BaseUrl           string `json:"base_url"`
	SnapshotTtlSecs   int    `json:"snapshot_ttl_secs"`
	RequestsPerMinute int    `json:"requests_per_minute"`
	MaxConcurrency    int    `json:"max_concurrency"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Database == "" {
		cfg.Database = "data/matchdetails.db"
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("open database", err)
	}

	client, err := vlr.NewClient(vlr.ClientOptions{
		BaseURL:        cfg.BaseUrl,
		MaxConcurrency: cfg.MaxConcurrency,
	})
	if err != nil {
		serviceutil.Fatal("init vlr client", err)
	}

	ttl := time.Duration(cfg.SnapshotTtlSecs) * time.Second
	service := matchdetails.NewService(database, client, ttl)
	service.StartPruneDaemon(ctx, time.Hour)

	handler := matchdetails.NewHandler(service, matchdetails.ServerOptions{
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	go serviceutil.StartHttpServer(ctx, cfg.Port, handler)
	<-ctx.Done()
}
