package main

import (
	"context"
	"log/slog"
	"os"
	"vlrgg-backend/lib/serviceutil"
	"vlrgg-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tel, err := telemetry.SetupFromEnv(ctx, "vlr-server")
	if os.IsNotExist(err) {
		slog.WarnContext(ctx, "no telemetry.json5 found, telemetry disabled")
		return
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		tel.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)
}
