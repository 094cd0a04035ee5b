package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfSampleInterval = 30 * time.Second

var meter = otel.Meter("scraper.runtime")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var heapGauge, _ = meter.Int64Gauge("heap_allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats samples process runtime gauges on a fixed
// interval until the context is cancelled. Scrape workloads are bursty,
// so goroutine and heap counts are the first things to watch.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfSampleInterval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)
				heapGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))

				usage, err := cpu.Percent(time.Minute, false)
				if err != nil {
					slog.Warn("failed to read cpu usage", "err", err)
					continue
				}
				cpuGauge.Record(ctx, usage[0])
			case <-ctx.Done():
				return
			}
		}
	}()
}
