// Command cleanse runs the CSV data-cleansing job once: read the source
// file, split out rows with duplicate ids, normalize both sets, load them
// into the database, and export the JSON and CSV artifacts.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/bintangfajarr/csv-data-cleansing/internal/config"
	"github.com/bintangfajarr/csv-data-cleansing/internal/metrics"
	"github.com/bintangfajarr/csv-data-cleansing/internal/metrics/datadog"
	"github.com/bintangfajarr/csv-data-cleansing/internal/metrics/prompush"
	"github.com/bintangfajarr/csv-data-cleansing/internal/pipeline"

	"golang.org/x/sys/unix"

	// register all backends with the storage factory.
	// config selects one at runtime but we build in support for all of them.
	_ "github.com/bintangfajarr/csv-data-cleansing/internal/storage/all"
)

// pushJobName groups this binary's metrics under one Pushgateway job.
const pushJobName = "cleanse"

func main() {
	verbose := flag.Bool("v", false, "enable verbose logs")
	cfg := config.Load()

	setupMetrics(cfg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if _, err := pipeline.New(cfg).Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	logPeakRSS()
}

// setupMetrics installs the configured metrics backend. A backend that
// fails to initialize degrades to the builtin nop backend; a metrics
// outage never blocks a run.
func setupMetrics(cfg *config.Config, verbose bool) {
	switch cfg.MetricsBackend {
	case "pushgateway":
		gwURL := cfg.PushgatewayURL
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(pushJobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, pushJobName)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DDAgentAddr,
			GlobalTags: []string{"service:" + pushJobName},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s", cfg.DDAgentAddr)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}
}

// logPeakRSS reports the process's maximum resident set size. Maxrss is
// kibibytes on Linux.
func logPeakRSS() {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return
	}
	log.Printf("peak rss: %d KiB", ru.Maxrss)
}
