// havenplan hosts the marina layout engine: it loads the persisted layout
// from the configured backend, keeps it consistent through the state store,
// follows remote updates when the backend pushes them, and reports background
// persistence failures. With -export it writes the layout as georeferenced
// GeoJSON and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/havenplan/layout/internal/berth"
	"github.com/havenplan/layout/internal/config"
	"github.com/havenplan/layout/internal/dispatcher"
	"github.com/havenplan/layout/internal/export"
	"github.com/havenplan/layout/internal/logging"
	"github.com/havenplan/layout/internal/monitor"
	intOtel "github.com/havenplan/layout/internal/otel"
	"github.com/havenplan/layout/internal/state"
	"github.com/havenplan/layout/internal/storage"
	"github.com/havenplan/layout/internal/telemetry"
)

// Version can be set at build time via ldflags.
var Version string = "0.0.1"

var (
	SlogManager *logging.SlogManager = logging.NewSlogManager()
	Logger      *slog.Logger

	SessionStartTime time.Time = time.Now()
)

func main() {
	configDir := flag.String("config", ".", "directory containing havenplan.cfg.json")
	exportPath := flag.String("export", "", "write the layout as GeoJSON to this path and exit")
	flag.Parse()

	if err := run(*configDir, *exportPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir, exportPath string) error {
	if err := config.Load(configDir); err != nil {
		// Defaults are in place before the file is read; a missing config
		// file is not fatal.
		fmt.Fprintf(os.Stderr, "config: %v, continuing with defaults\n", err)
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, "havenplan", SessionStartTime),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
	)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}
	if err := SlogManager.Setup(logFile, config.GetString("logLevel"), graylogAddr, func() []slog.Attr {
		return []slog.Attr{
			slog.String("version", Version),
			slog.Time("sessionStart", SessionStartTime),
		}
	}); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer SlogManager.Close()
	Logger = SlogManager.Logger()

	Logger.Info("Starting havenplan", "version", Version)

	metricsFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, "havenplan_metrics", SessionStartTime),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
	)
	if err != nil {
		return fmt.Errorf("opening metrics file: %w", err)
	}
	defer metricsFile.Close()

	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:        config.GetBool("metrics.enabled"),
		ServiceName:    "havenplan",
		ExportInterval: time.Duration(config.GetInt("metrics.exportIntervalSeconds")) * time.Second,
		MetricWriter:   metricsFile,
	})
	if err != nil {
		return fmt.Errorf("setting up metrics: %w", err)
	}
	defer otelProvider.Shutdown(context.Background())

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	var influx *telemetry.Manager
	if config.GetBool("influx.enabled") {
		influx = telemetry.NewManager(zlog, logsDir+"/havenplan_telemetry_backup.gz")
		if err := influx.Connect(); err != nil {
			Logger.Warn("Telemetry disabled", "error", err)
			influx = nil
		} else {
			defer influx.Close()
		}
	}

	disp, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	backend, err := storage.NewBackend(config.GetStorageConfig())
	if err != nil {
		return fmt.Errorf("selecting storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Closing storage backend", "error", err)
		}
	}()

	canvas := config.GetCanvasConfig()
	store := state.New(backend, berth.NewEngine(canvas.Scale), disp, Logger)
	if err := store.Load(); err != nil {
		return fmt.Errorf("loading layout: %w", err)
	}
	layout := store.Layout()
	Logger.Info("Layout loaded",
		"zones", len(layout.Zones), "piers", len(layout.Piers),
		"slots", len(layout.Slots), "boats", len(layout.Boats))

	if exportPath != "" {
		geo := config.GetGeoConfig()
		exp := export.New(geo.OriginLon, geo.OriginLat, canvas.Scale)
		if err := exp.WriteFile(exportPath, layout); err != nil {
			return fmt.Errorf("exporting layout: %w", err)
		}
		Logger.Info("Layout exported", "path", exportPath)
		return nil
	}

	// Remote backends push full snapshots; ingest replaces the collections
	// wholesale, last write wins.
	if watcher, ok := backend.(storage.Watcher); ok {
		go func() {
			for remote := range watcher.Watch() {
				store.Ingest(remote)
				Logger.Info("Remote layout applied",
					"zones", len(remote.Zones), "boats", len(remote.Boats))
			}
		}()
	}

	var saveFailures atomic.Int64
	go reportPersistErrors(store, influx, &saveFailures)

	statusMonitor := monitor.NewService(monitor.Dependencies{
		State:    store,
		Logger:   Logger,
		Interval: time.Minute,
		PendingErrors: func() int {
			return int(saveFailures.Swap(0))
		},
	})
	statusMonitor.Start()
	defer statusMonitor.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	Logger.Info("Shutting down", "signal", sig.String())

	if err := otelProvider.Flush(context.Background()); err != nil {
		Logger.Warn("Flushing metrics", "error", err)
	}
	return nil
}

// reportPersistErrors drains background save failures. The optimistic
// in-memory state is never rolled back; failures are reported, not retried.
func reportPersistErrors(store *state.Store, influx *telemetry.Manager, failures *atomic.Int64) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		for _, pe := range store.Errors() {
			failures.Add(1)
			Logger.Error("Layout save failed",
				"collection", pe.Collection, "error", pe.Err, "at", pe.Timestamp)
			if influx != nil {
				point := telemetry.PersistPoint(pe.Collection, 0, true)
				if err := influx.WritePoint(context.Background(), telemetry.BucketPersistence, point); err != nil {
					Logger.Warn("Telemetry write failed", "error", err)
				}
			}
		}
	}
}
